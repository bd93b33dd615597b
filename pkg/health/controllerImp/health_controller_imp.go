package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"feedbackgen/pkg/feedback/service"
)

var appStart = time.Now()

// StatusSource reports the orchestrator state.
type StatusSource interface {
	Status() service.Status
}

type HealthCtrl struct {
	db       *gorm.DB
	gen      StatusSource
	warnings []string
}

// NewHealthCtrl takes the startup warnings (unreadable stored collections, bad band
// file, missing credential) so they stay visible after the log has scrolled away.
func NewHealthCtrl(db *gorm.DB, gen StatusSource, warnings []string) *HealthCtrl {
	if warnings == nil {
		warnings = []string{}
	}
	return &HealthCtrl{db: db, gen: gen, warnings: warnings}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	// a missing credential degrades generation but the app stays up
	genOK := h.gen != nil && h.gen.Status().Ready
	genErr := ""
	if !genOK {
		genErr = "no generation client configured"
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":  sub{OK: dbOK, Err: dbErr},
			"generator": sub{OK: genOK, Err: genErr},
		},
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}

// Status exposes the generator state machine and the startup warnings.
func (h *HealthCtrl) Status(c echo.Context) error {
	var st service.Status
	if h.gen != nil {
		st = h.gen.Status()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"generator": st,
		"warnings":  h.warnings,
	})
}
