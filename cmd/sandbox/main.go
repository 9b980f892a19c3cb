// Command sandbox serves the sandbox marketplace tools over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/xraph/sandbox"
	audit_hook "github.com/xraph/sandbox/audit_hook"
	"github.com/xraph/sandbox/config"
	"github.com/xraph/sandbox/observability"
	"github.com/xraph/sandbox/server"
	"github.com/xraph/sandbox/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "sandbox.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger()
	slog.SetDefault(logger)

	audit := audit_hook.New(audit_hook.RecorderFunc(func(_ context.Context, ev *audit_hook.AuditEvent) error {
		logger.Debug("audit", "action", ev.Action, "resource", ev.Resource, "resource_id", ev.ResourceID, "outcome", ev.Outcome)
		return nil
	}), audit_hook.WithLogger(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := sandbox.New(
		sandbox.WithLogger(logger),
		sandbox.WithOpeningBalance(cfg.Wallet.Opening()),
		sandbox.WithPlugin(audit),
		sandbox.WithPlugin(observability.NewMetricsExtension(observability.NewPrometheusFactory(reg))),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = engine.Stop() }()

	toolbox, err := tools.New(engine, tools.WithLogger(logger))
	if err != nil {
		return err
	}

	srv := server.New(toolbox, server.Options{
		Addr:           cfg.Server.Addr(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
		Metrics:        reg,
	})
	return srv.Run(ctx)
}
