package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmuraoka/seatwatch/internal/browser"
	"github.com/hmuraoka/seatwatch/internal/engine"
	"github.com/hmuraoka/seatwatch/internal/notify"
	"github.com/hmuraoka/seatwatch/internal/store"
	"github.com/hmuraoka/seatwatch/pkg/logger"
)

var checkNotify bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single availability check and print the result",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "send notifications for available rooms")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// One-shot checks keep no history and, unless asked, stay quiet.
	var notifier notify.Notifier = notify.NewNoOpNotifier(log)
	if checkNotify {
		notifier = buildNotifier(cfg, log)
	}

	eng := engine.NewEngine(store.NewMemoryStore(), browser.NewSession(cfg.Page, log), notifier,
		engine.WithLogger(log),
		engine.WithTrains(trainNames(cfg)),
		engine.WithSectionSelector(cfg.Page.SectionSelector),
		engine.WithPageURL(cfg.Page.URL),
		engine.WithWindowRadius(cfg.Page.WindowRadius),
	)

	result, err := eng.RunCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if jsonOutput() {
		return outputJSON(result)
	}
	return printCheckResult(result)
}
