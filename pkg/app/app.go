package app

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedbackgen/config"
	"feedbackgen/database"
	activityRepoImp "feedbackgen/pkg/activity/repositoryImp"
	activity "feedbackgen/pkg/activity/service"
	activitySvcImp "feedbackgen/pkg/activity/serviceImp"
	"feedbackgen/pkg/ai"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/feedback/serviceImp"
	historyRepoImp "feedbackgen/pkg/history/repositoryImp"
	history "feedbackgen/pkg/history/service"
	historySvcImp "feedbackgen/pkg/history/serviceImp"
	"feedbackgen/pkg/logger"
	kvImp "feedbackgen/pkg/storage/repositoryImp"
	"feedbackgen/pkg/tone"
)

// App holds the long-lived services shared by the HTTP server and the CLI.
type App struct {
	DB       *gorm.DB
	Catalog  activity.Catalog
	History  history.Store
	Feedback *serviceImp.FeedbackSvc
	// Warnings are non-fatal startup problems worth showing to the user.
	Warnings []string
}

// Bootstrap opens storage, loads both collections and builds the orchestrator.
// Only an unusable database is fatal; bad stored data, a bad band file or a
// missing credential are logged and recorded in Warnings.
func Bootstrap(ctx context.Context, cfg config.AppConfig, log *logger.Logger) (*App, error) {
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db, Warnings: []string{}}
	kv := kvImp.New(db)

	a.Catalog, err = activitySvcImp.New(activityRepoImp.New(kv))
	if err != nil {
		a.warn(log, "stored activities unreadable, starting empty", err)
	}
	a.History, err = historySvcImp.New(historyRepoImp.New(kv))
	if err != nil {
		a.warn(log, "stored feedback history unreadable, starting empty", err)
	}

	resolver := tone.Default()
	if cfg.BandsFile != "" {
		if r, err := tone.LoadFromFile(cfg.BandsFile); err != nil {
			a.warn(log, "grade bands file rejected, using defaults", err)
		} else {
			resolver = r
			log.Info("grade bands loaded", zap.String("file", cfg.BandsFile), zap.Int("bands", len(r.Bands())))
		}
	}

	llm, genErr := ai.FromConfig(ctx, cfg)
	if genErr != nil {
		if !errors.Is(genErr, errdefs.ErrMissingCredential) {
			_ = database.Close(db)
			return nil, genErr
		}
		log.Error("feedback generation disabled", zap.String("provider", cfg.LLMProvider), zap.Error(genErr))
		a.Warnings = append(a.Warnings, errdefs.Message(genErr))
		llm = nil
	}

	a.Feedback = serviceImp.NewFeedbackService(a.Catalog, a.History, resolver, llm, cfg.GenTimeout, log)
	if genErr != nil {
		a.Feedback.SetCredentialError(genErr)
	}
	log.Info("storage loaded",
		zap.String("db", cfg.DBPath),
		zap.Int("activities", a.Catalog.Len()),
		zap.Int("feedbacks", a.History.Len()),
	)
	return a, nil
}

func (a *App) Close() error { return database.Close(a.DB) }

func (a *App) warn(log *logger.Logger, msg string, err error) {
	log.Warn(msg, zap.Error(err))
	a.Warnings = append(a.Warnings, msg+" ("+err.Error()+")")
}
