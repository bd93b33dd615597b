// Command feedbackctl drives the feedback generator from a terminal, over the
// same database the HTTP server uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedbackgen/config"
	"feedbackgen/pkg/app"
	"feedbackgen/pkg/logger"
)

var (
	dbPath   string
	verbose  bool
	provider string

	log         = logger.Nop()
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:           "feedbackctl",
	Short:         "Generate and manage student feedback",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return nil
		}
		cfg, _, err := config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if provider != "" {
			cfg.LLMProvider = provider
		}
		level := "error"
		if verbose {
			level = "debug"
		}
		log = logger.New(level, cfg.LogFormat)

		application, err = app.Bootstrap(context.Background(), cfg, log)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		for _, w := range application.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "aviso:", w)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			if err := application.Close(); err != nil {
				log.Warn("close database", zap.Error(err))
			}
		}
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "generation provider: gemini, openai or mock (default LLM_PROVIDER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(generateCmd, activitiesCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}
