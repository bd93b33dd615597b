package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/history/service"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Clearer empties the history together with whatever is on screen.
type Clearer interface {
	ClearHistory() error
}

type HistoryCtrl struct {
	store   service.Store
	clearer Clearer
}

func New(store service.Store, clearer Clearer) *HistoryCtrl {
	return &HistoryCtrl{store: store, clearer: clearer}
}

func (h *HistoryCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ListDescending())
}

func (h *HistoryCtrl) Get(c echo.Context) error {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		return fail(c, errdefs.ErrNotFound)
	}
	return c.JSON(http.StatusOK, rec)
}

// Copy answers with the clipboard text of the displayed content.
func (h *HistoryCtrl) Copy(c echo.Context) error {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		return fail(c, errdefs.ErrNotFound)
	}
	return c.String(http.StatusOK, rec.Displayed().CopyText())
}

// Clear is destructive and only runs with ?confirm=true.
func (h *HistoryCtrl) Clear(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Confirme a limpeza do histórico com confirm=true."})
	}
	if err := h.clearer.ClearHistory(); err != nil {
		c.Logger().Errorf("clear history: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HistoryCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.store.ExportXLSX(&buf); err != nil {
		c.Logger().Errorf("export history: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	name := fmt.Sprintf("feedbacks-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func fail(c echo.Context, err error) error {
	return c.JSON(errdefs.HTTPStatus(err), map[string]string{"error": errdefs.Message(err)})
}
