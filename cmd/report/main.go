package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"pos-report/internal/config"
	apperrors "pos-report/internal/errors"
	"pos-report/internal/observability"
	"pos-report/internal/pos"
	"pos-report/internal/report"
	"pos-report/internal/services"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return apperrors.ConfigWrap(err, "load configuration")
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg.Logger, stdout).With("run_id", runID)
	slog.SetDefault(logger)
	ctx = observability.WithRunID(ctx, runID)

	logger.Info("starting report",
		"version", version,
		"square", cfg.Input.Square,
		"toast", cfg.Input.Toast,
		"output", cfg.Output.Path,
	)

	ctx, span := observability.StartSpan(ctx, "report")
	err = generate(ctx, cfg, logger)
	span.End(logger, err)
	if err != nil {
		apperrors.Log(ctx, logger, "report failed", err)
		return err
	}

	logger.Info("report finished", "output", cfg.Output.Path)
	return nil
}

func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	windows, err := pos.NewWindows(cfg.Services)
	if err != nil {
		return apperrors.ConfigWrap(err, "service windows")
	}

	square := pos.Export{Path: cfg.Input.Square, Schema: pos.SquareSchema()}
	square.Schema.Encoding = cfg.Input.SquareEncoding
	square.Schema.DineIn = cfg.Analysis.SquareDineIn
	square.Schema.Unknown = cfg.Analysis.UnknownLabel

	toast := pos.Export{Path: cfg.Input.Toast, Schema: pos.ToastSchema()}
	toast.Schema.Encoding = cfg.Input.ToastEncoding
	toast.Schema.DineIn = cfg.Analysis.ToastDineIn
	toast.Schema.Unknown = cfg.Analysis.UnknownLabel

	var ds pos.Dataset
	err = stage(ctx, logger, "load", func(ctx context.Context, span *observability.Span) error {
		ds, err = pos.LoadAll(ctx, square, toast, windows, logger)
		span.SetTag("records", strconv.Itoa(ds.Len()))
		return err
	})
	if err != nil {
		return err
	}

	var results *services.Results
	err = stage(ctx, logger, "analyze", func(ctx context.Context, _ *observability.Span) error {
		analytics := services.NewAnalytics(services.Options{
			TopPairs: cfg.Analysis.TopPairs,
			Unknown:  cfg.Analysis.UnknownLabel,
		}, logger)
		results, err = analytics.Compute(ctx, ds.Square, ds.Toast)
		return err
	})
	if err != nil {
		return err
	}

	var charts []report.Chart
	err = stage(ctx, logger, "plan", func(_ context.Context, span *observability.Span) error {
		charts = report.Plan(results, report.PlanOptions{TopItems: cfg.Analysis.TopItems})
		span.SetTag("pages", strconv.Itoa(len(charts)))
		return nil
	})
	if err != nil {
		return err
	}

	return stage(ctx, logger, "render", func(ctx context.Context, span *observability.Span) error {
		span.SetTag("format", cfg.OutputFormat())
		return report.Write(ctx, cfg.Output.Path, charts, logger)
	})
}

func stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context, *observability.Span) error) error {
	ctx, span := observability.StartSpan(ctx, name)
	err := fn(ctx, span)
	span.End(logger, err)
	return err
}
