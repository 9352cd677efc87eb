package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"timesheet-report/internal/app"
	"timesheet-report/internal/config"
)

func main() {
	// Flags
	input := flag.String("input", "", "Process a single .xlsx timesheet and exit (no server)")
	output := flag.String("output", "", "Report path for -input (default: timesheet_report.xlsx next to the input)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	// Logger
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// App
	application, err := app.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One-shot mode: process a local file and exit.
	if *input != "" {
		out := *output
		if out == "" {
			out = reportPath(*input)
		}
		if err := application.RunOnce(ctx, *input, out); err != nil {
			logger.Error("report failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Server mode (default).
	srv := application.HTTPServer(cfg.HTTP.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("serving", slog.String("addr", cfg.HTTP.Addr))

	select {
	case err := <-errCh:
		logger.Error("http server failed", slog.String("error", err.Error()))
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.String("error", err.Error()))
		}
	}
}

// reportPath derives the default output name from the input file:
// tabel.xlsx -> tabel_report.xlsx.
func reportPath(input string) string {
	base := strings.TrimSuffix(input, ".xlsx")
	if base == input {
		return input + "_report.xlsx"
	}
	return base + "_report.xlsx"
}
