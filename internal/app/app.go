package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	msql "timesheet-report/internal/adapter/mysql"
	"timesheet-report/internal/adapter/xlsx"
	"timesheet-report/internal/config"
	"timesheet-report/internal/domain"
	"timesheet-report/internal/migrate"
	"timesheet-report/internal/ports"
	"timesheet-report/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log *slog.Logger
	cfg config.Config
	uc  *usecase.ReportUseCase
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	var archive ports.Archive
	if cfg.MySQL.DSN != "" {
		// Run migrations before opening the archive for use
		if err := migrate.Run(context.Background(), cfg.MySQL.DSN, log); err != nil {
			return nil, err
		}
		client, err := msql.NewClient(context.Background(), cfg.MySQL.DSN, log)
		if err != nil {
			return nil, err
		}
		archive = client
	}

	uc := &usecase.ReportUseCase{
		Log:     log,
		Parser:  xlsx.NewReader(),
		Writer:  xlsx.NewWriter(),
		Archive: archive,
	}

	return &App{log: log, cfg: cfg, uc: uc}, nil
}

// RunOnce processes a single local timesheet and writes the Excel report
// next to it: the CLI mode, no server involved.
func (a *App) RunOnce(ctx context.Context, input, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	rep, err := a.uc.Build(ctx, f, domain.ColumnSelection{})
	if err != nil {
		return err
	}
	out, err := a.uc.Export(rep)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	a.log.Info("report written",
		slog.String("file", output),
		slog.Int("projects", rep.Stats.Projects),
		slog.Int("specialists", rep.Stats.Specialists),
		slog.Float64("total_hours", rep.Stats.TotalHours),
	)
	return nil
}
