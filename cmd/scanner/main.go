package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/audit-scanner/internal/domain/audit"
	"github.com/davidleathers/audit-scanner/internal/infrastructure/config"
	"github.com/davidleathers/audit-scanner/internal/infrastructure/telemetry"
	"github.com/davidleathers/audit-scanner/internal/metrics"
	"github.com/davidleathers/audit-scanner/internal/service/scanner"
)

var configPath = flag.String("config", config.DefaultPath, "Path to optional configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, logger, os.Stdout)
	cancel()
	if err != nil {
		logger.Error("audit scan failed", zap.Error(err))
	}
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	reporter, err := scanner.NewReporter(cfg.Report.Format)
	if err != nil {
		return err
	}

	provider, err := telemetry.SetupTracing(ctx, &telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportTimeout:  cfg.Telemetry.ExportTimeout,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ExportTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	registry := metrics.NewRegistry()
	svc := scanner.NewService(
		scanner.WithClock(audit.RealClock{}),
		scanner.WithLogger(logger),
		scanner.WithTracer(provider.Tracer()),
		scanner.WithMetrics(registry),
	)

	pool := []audit.Target{
		{ID: 0xFD21, EntropySource: 25.5, ThreatVector: 1550.0},
		{ID: 0xAF44, EntropySource: 400.0, ThreatVector: 300.0},
	}

	started := time.Now()
	report, err := svc.Scan(ctx, pool)
	if err != nil {
		return fmt.Errorf("scanning targets: %w", err)
	}

	if err := reporter.Render(out, report); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := registry.WriteTextfile(path); err != nil {
			return fmt.Errorf("writing metrics textfile %s: %w", path, err)
		}
		logger.Info("metrics textfile written", zap.String("path", path))
	}

	logger.Info("audit run finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("findings", len(report.Findings)),
		zap.Duration("elapsed", time.Since(started)))

	return nil
}
