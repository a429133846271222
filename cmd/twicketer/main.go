package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/ZTwicket/Twicketer/internal/app"
	"github.com/ZTwicket/Twicketer/internal/browser"
	"github.com/ZTwicket/Twicketer/internal/clock"
	"github.com/ZTwicket/Twicketer/internal/config"
	"github.com/ZTwicket/Twicketer/internal/console"
	"github.com/ZTwicket/Twicketer/internal/domain"
	"github.com/ZTwicket/Twicketer/internal/notify"
	"github.com/ZTwicket/Twicketer/internal/twickets"
)

// Exit codes distinguish fatal conditions for the operator.
const (
	exitOK           = 0
	exitUnexpected   = 1
	exitAuthFailed   = 2
	exitInvalidEvent = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file")
		eventID    = flag.String("event-id", "", "override event id from configuration")
		timeDelay  = flag.Float64("time-delay", 0, "override delay between checks (seconds)")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		headless   = flag.Bool("headless", false, "suppress the purchase-assist browser window")
		noHeadless = flag.Bool("no-headless", false, "open the purchase-assist browser window")
		plain      = flag.Bool("plain", false, "log-only output, no styled console")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("configuration error", "error", err)
		return exitUnexpected
	}
	if *eventID != "" {
		cfg.EventID = *eventID
	}
	if *timeDelay > 0 {
		cfg.TimeDelay = *timeDelay
	}
	if *noHeadless {
		f := false
		cfg.Headless = &f
	} else if *headless {
		t := true
		cfg.Headless = &t
	}

	logger.Info("starting twicketer",
		"event_id", cfg.EventID,
		"time_delay", cfg.Cadence(),
		"headless", cfg.IsHeadless(),
		"min_seats", cfg.MinSeats,
		"max_seats", cfg.MaxSeats,
	)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	session := twickets.NewSession(twickets.SessionConfig{
		APIKey:    cfg.APIKey,
		User:      cfg.User,
		Password:  cfg.Password,
		UserAgent: cfg.UserAgent,
	}, httpClient, logger)
	feed := twickets.NewClient(twickets.ClientConfig{
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}, httpClient, logger)

	notifier := notify.NewDiscord(cfg.DiscordWebhookURL, httpClient)
	if notifier.Enabled() {
		logger.Info("discord webhook notifications enabled")
	}
	opener := browser.New(cfg.IsHeadless(), logger)
	dispatcher := app.NewDispatcher(notifier, opener, logger)

	clk := clock.NewSystem()
	var reporter app.Reporter
	var term *console.Console
	if *plain {
		reporter = console.NewLogging(logger)
	} else {
		term = console.New(os.Stdout, clk)
		reporter = term
	}

	monitor := app.NewMonitor(
		cfg.EventID,
		cfg.Cadence(),
		cfg.Filter(),
		session,
		feed,
		dispatcher,
		app.NewLedger(),
		reporter,
		clk,
		clock.NewSystemSleeper(),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := notifier.Started(ctx, feed.EventURL(cfg.EventID)); err != nil {
		logger.Error("start notification failed", "error", err)
	}

	err = monitor.Run(ctx)

	if term != nil {
		fmt.Fprintln(os.Stdout, term.Summary())
	}

	switch {
	case err == nil:
		logger.Info("monitor stopped")
		return exitOK
	case errors.Is(err, domain.ErrLoginFailed), errors.Is(err, domain.ErrAuth):
		logger.Error("authentication failed: check credentials", "error", err)
		return exitAuthFailed
	case errors.Is(err, domain.ErrInvalidEvent):
		logger.Error("event not found: check event id", "error", err)
		return exitInvalidEvent
	default:
		logger.Error("monitor failed", "error", err)
		return exitUnexpected
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
