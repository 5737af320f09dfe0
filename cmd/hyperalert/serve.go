package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/alerting"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/api"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/conf"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/datasource"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/notify"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/repository"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor loop and management API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	settings, err := conf.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.NewSlogLogger(os.Stdout, logger.ParseLevel(settings.Log.Level), nil)

	db, err := repository.Open(settings.Database.Driver, settings.Database.DSN)
	if err != nil {
		return err
	}

	ruleStore, err := repository.NewRuleStore(db)
	if err != nil {
		return err
	}
	historyStore := repository.NewHistoryStore(db, settings.History.AutoProvision, log)

	ctx := context.Background()
	if settings.Monitor.SeedDefaults {
		if err := alerting.SeedDefaultRules(ctx, ruleStore, log); err != nil {
			return err
		}
	}

	var gateway datasource.Gateway = datasource.NewHTTPGateway("")
	cached := datasource.NewCachedGateway(gateway, settings.Monitor.CacheTTL.Std())

	banners := notify.NewBannerCenter()
	var email notify.EmailGateway
	if settings.Channels.EmailURL != "" {
		email = notify.NewShoutrrrEmailGateway(settings.Channels.EmailURL, log)
	}
	var chat notify.ChatGateway
	if settings.Channels.TeamsURL != "" {
		chat = notify.NewShoutrrrChatGateway(settings.Channels.TeamsURL, log)
	}

	dispatcher := alerting.NewDispatcher(email, chat, banners, log)
	monitor := alerting.NewMonitor(ruleStore, historyStore, cached, dispatcher, alerting.MonitorConfig{
		GlobalCooldown: settings.Monitor.GlobalCooldown.Std(),
		Toggles: alerting.ChannelToggles{
			Email:  settings.Channels.EmailEnabled,
			Teams:  settings.Channels.TeamsEnabled,
			Banner: settings.Channels.BannerEnabled,
		},
		Defaults: alerting.DispatchDefaults{
			EmailSubject: settings.Channels.DefaultEmailSubject,
			Template:     settings.Channels.DefaultTemplate,
		},
	}, log)
	monitor.StartHistoryCleanup(settings.History.RetentionDays)
	defer monitor.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	api.NewController(e, ruleStore, historyStore, banners, monitor, settings.History.MaxQueryItems, log)

	go func() {
		if err := e.Start(settings.HTTP.Bind); err != nil {
			log.Info("http server stopped", logger.Error(err))
		}
	}()

	ticker := time.NewTicker(settings.Monitor.TickInterval.Std())
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	log.Info("hyperalert running",
		logger.String("bind", settings.HTTP.Bind),
		logger.Duration("tick_interval", settings.Monitor.TickInterval.Std()))

	for {
		select {
		case <-ticker.C:
			if result, err := monitor.Tick(ctx); err != nil {
				log.Error("tick failed", logger.Error(err))
			} else if !result.Skipped {
				log.Debug("tick completed",
					logger.Int("evaluated", result.Evaluated),
					logger.Int("matched", result.Matched),
					logger.Int("notified", result.Notified))
			}
		case <-signals:
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		}
	}
}
