// Package main is the entry point for the SpreadPad calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spreadpad/spreadpad/business/calc"
	calcDI "github.com/spreadpad/spreadpad/business/calc/di"
	"github.com/spreadpad/spreadpad/business/rates"
	ratesApp "github.com/spreadpad/spreadpad/business/rates/app"
	ratesDI "github.com/spreadpad/spreadpad/business/rates/di"
	"github.com/spreadpad/spreadpad/business/rates/infra/binance"
	"github.com/spreadpad/spreadpad/business/session"
	sessionDI "github.com/spreadpad/spreadpad/business/session/di"
	"github.com/spreadpad/spreadpad/business/settings"
	settingsApp "github.com/spreadpad/spreadpad/business/settings/app"
	settingsDI "github.com/spreadpad/spreadpad/business/settings/di"
	"github.com/spreadpad/spreadpad/internal/apm"
	"github.com/spreadpad/spreadpad/internal/config"
	"github.com/spreadpad/spreadpad/internal/httpclient"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/metrics"
	"github.com/spreadpad/spreadpad/internal/monolith"
	"github.com/spreadpad/spreadpad/internal/update"
	"github.com/spreadpad/spreadpad/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("spreadpad %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode the terminal belongs to the dashboard.
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting SpreadPad",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.OTLPProvider, log))
		log.Info(ctx, "tracing initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
		)
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
		log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Session first so settings can pick up the resumed token.
	modules := []monolith.Module{
		&session.Module{},
		&settings.Module{},
		&calc.Module{},
		&rates.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	sessionSvc := sessionDI.GetService(mono.Services())
	sync := settingsDI.GetSynchronizer(mono.Services())
	recorder := calcDI.GetRecorder(mono.Services())
	poller := ratesDI.GetPoller(mono.Services())
	defer sync.Close()

	// A rejected remote write means the session died under us.
	sync.OnPushError(func(err error) {
		if sessionSvc.Invalidate(context.Background(), err) {
			sync.SetToken("")
			ui.Send(ui.SessionEndedMsg{Reason: "session expired"})
		}
	})

	if !tuiMode {
		return runCLI(ctx, log, sync, poller)
	}

	startBackground(ctx, cfg, log, poller, ratesDI.GetStream(mono.Services()))
	return ui.Run(ui.Deps{
		Session:  sessionSvc,
		Sync:     sync,
		Recorder: recorder,
		RatePair: cfg.Rates.Pair,
		Version:  version,
	})
}

// startBackground launches the rate feeds and the update check, pumping
// their outcomes into the UI as messages.
func startBackground(ctx context.Context, cfg *config.Config, log logger.LoggerInterface, poller *ratesApp.Poller, stream *binance.Stream) {
	go func() {
		for u := range poller.Start(ctx) {
			ui.Send(ui.RateMsg{Quote: u.Quote, Err: u.Err})
		}
	}()

	if cfg.Rates.Stream {
		go func() {
			quotes, err := stream.Start(ctx)
			if err != nil {
				// Stream is best-effort; the poller keeps the rate fresh.
				log.Warn(ctx, "rate stream unavailable", "error", err)
				return
			}
			defer stream.Close()
			for q := range quotes {
				ui.Send(ui.RateMsg{Quote: q})
			}
		}()
	}

	if cfg.Update.Enabled {
		go checkUpdates(ctx, cfg, log)
	}
}

func checkUpdates(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) {
	client, err := httpclient.New(
		httpclient.WithProviderName("update-check"),
		httpclient.WithRequestTimeout(cfg.API.RequestTimeout),
	)
	if err != nil {
		log.Warn(ctx, "update checker disabled", "error", err)
		return
	}
	checker := update.NewChecker(client, cfg.Update.ManifestURL, version)

	check := func() {
		res, err := checker.Check(ctx)
		if err != nil {
			log.Debug(ctx, "update check failed", "error", err)
			return
		}
		if res.Available {
			ui.Send(ui.UpdateAvailableMsg{Version: res.Latest.Version, Notes: res.Latest.Notes})
		}
	}

	check()
	ticker := time.NewTicker(cfg.Update.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// runCLI keeps the services alive without a dashboard, logging rate
// updates. Useful for checking connectivity and sync behavior.
func runCLI(ctx context.Context, log *logger.Logger, sync *settingsApp.Synchronizer, poller *ratesApp.Poller) error {
	log.Info(ctx, "running in CLI mode, press ctrl+c to exit")

	for u := range poller.Start(ctx) {
		if u.Err != nil {
			log.Warn(ctx, "rate unavailable", "error", u.Err)
			continue
		}
		log.Info(ctx, "rate update", "pair", u.Quote.Pair, "bid", u.Quote.Bid.String(), "source", u.Quote.Source)
	}

	if sync.PendingRemote() {
		log.Info(ctx, "dropping pending remote write on shutdown")
	}
	log.Info(ctx, "shutting down")
	return nil
}
