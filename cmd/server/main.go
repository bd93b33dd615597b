package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"feedbackgen/config"
	"feedbackgen/pkg/app"
	"feedbackgen/pkg/logger"
	"feedbackgen/router"

	activityCtrlImp "feedbackgen/pkg/activity/controllerImp"
	feedbackCtrlImp "feedbackgen/pkg/feedback/controllerImp"
	healthCtrlImp "feedbackgen/pkg/health/controllerImp"
	historyCtrlImp "feedbackgen/pkg/history/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg, envWarn, err := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if envWarn != "" {
		log.Debug(envWarn)
	}
	log.Info("config loaded", zap.Any("config", cfg.Redacted()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2) Storage, collections, generator
	a, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	if _, err := os.Stat(filepath.Join(cfg.StaticDir, "app.js")); err != nil {
		log.Warn("static/app.js not found", zap.Error(err))
	}

	// 3) Controllers
	fCtrl := feedbackCtrlImp.New(a.Feedback)
	aCtrl := activityCtrlImp.New(a.Catalog)
	hiCtrl := historyCtrlImp.New(a.History, a.Feedback)
	hCtrl := healthCtrlImp.NewHealthCtrl(a.DB, a.Feedback, a.Warnings)

	// 4) Echo + routes
	e := echo.New()
	e.HideBanner = true
	r := router.New(e, log, cfg.StaticDir, fCtrl, aCtrl, hiCtrl, hCtrl)

	// 5) Start
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("bye")
}
