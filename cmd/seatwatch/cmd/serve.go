package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmuraoka/seatwatch/internal/api"
	"github.com/hmuraoka/seatwatch/internal/browser"
	"github.com/hmuraoka/seatwatch/internal/config"
	"github.com/hmuraoka/seatwatch/internal/engine"
	"github.com/hmuraoka/seatwatch/internal/notify"
	"github.com/hmuraoka/seatwatch/internal/store"
	"github.com/hmuraoka/seatwatch/pkg/logger"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the watcher, scheduler, and ops API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	st, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	session := browser.NewSession(cfg.Page, log)
	notifier := buildNotifier(cfg, log)
	rooms := domain.DefaultRooms()

	eng := engine.NewEngine(st, session, notifier,
		engine.WithLogger(log),
		engine.WithRooms(rooms),
		engine.WithTrains(trainNames(cfg)),
		engine.WithSectionSelector(cfg.Page.SectionSelector),
		engine.WithPageURL(cfg.Page.URL),
		engine.WithWindowRadius(cfg.Page.WindowRadius),
		engine.WithReAlerts(cfg.Alerts.ReAlertsEnabled, cfg.Alerts.ReAlertsCooldown),
	)

	window, err := engine.ParseActiveWindow(cfg.Schedule.ActiveFrom, cfg.Schedule.ActiveUntil)
	if err != nil {
		return fmt.Errorf("parsing active window: %w", err)
	}

	sched, err := engine.NewScheduler(eng,
		cfg.Schedule.CheckInterval,
		cfg.Schedule.PruneInterval,
		cfg.Schedule.HistoryRetention,
		window,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := api.NewServer(st, rooms, log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "check_interval", cfg.Schedule.CheckInterval)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	// Let in-flight check cycles finish before the server goes away.
	<-sched.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("stopped")
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	if !cfg.Database.Enabled() {
		log.Info("no database configured, using in-memory check history")
		return store.NewMemoryStore(), nil
	}

	dsn := fmt.Sprintf("%s pool_max_conns=%d", cfg.Database.DSN(), cfg.Database.PoolSize)
	st, err := store.NewPostgresStore(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return st, nil
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	var targets notify.Multi
	if cfg.Notifications.Discord.Enabled {
		targets = append(targets, notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL))
		log.Info("discord notifications enabled")
	}
	if cfg.Notifications.Webhook.Enabled {
		targets = append(targets, notify.NewWebhookNotifier(
			cfg.Notifications.Webhook.URL,
			cfg.Notifications.Webhook.Headers,
		))
		log.Info("webhook notifications enabled")
	}
	if len(targets) == 0 {
		log.Warn("no notification targets configured, alerts will only be logged")
		return notify.NewNoOpNotifier(log)
	}
	return targets
}

func trainNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Page.Trains))
	for _, tr := range cfg.Page.Trains {
		names = append(names, tr.Name)
	}
	return names
}
