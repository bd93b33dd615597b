package router

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	activity "feedbackgen/pkg/activity/controller"
	feedback "feedbackgen/pkg/feedback/controller"
	history "feedbackgen/pkg/history/controller"
	"feedbackgen/pkg/logger"
	"feedbackgen/pkg/middleware"
)

func New(
	e *echo.Echo,
	log *logger.Logger,
	staticDir string,
	feedbackCtrl feedback.FeedbackController,
	activityCtrl activity.ActivityController,
	historyCtrl history.HistoryController,
	healthCtrl interface {
		Health(echo.Context) error
		Status(echo.Context) error
	},
) *echo.Echo {
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.BodyLimit("2M"))

	e.Static("/static", staticDir)
	e.File("/", filepath.Join(staticDir, "index.html"))
	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api")
	api.GET("/status", healthCtrl.Status)

	api.POST("/feedback", feedbackCtrl.Submit)
	api.GET("/feedback/current", feedbackCtrl.Current)
	api.GET("/feedback/draft", feedbackCtrl.Draft)
	api.PUT("/feedback/:id/edit", feedbackCtrl.SaveEdit)

	api.GET("/activities", activityCtrl.List)
	api.POST("/activities", activityCtrl.Create)
	api.POST("/activities/upload", activityCtrl.Upload)

	api.GET("/history", historyCtrl.List)
	api.DELETE("/history", historyCtrl.Clear)
	api.GET("/history/export.xlsx", historyCtrl.Export)
	api.GET("/history/:id", historyCtrl.Get)
	api.GET("/history/:id/copy", historyCtrl.Copy)
	return e
}
