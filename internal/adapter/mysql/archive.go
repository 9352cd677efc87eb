package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"timesheet-report/internal/domain"
)

// Client implements ports.Archive by appending report runs to MySQL.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// Conservative pool defaults; can be adjusted via env later.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

// SaveReport stores one run row plus a totals row per summary entry.
// Runs are append-only; the archive is an export of derived totals, never
// an input to later reports.
func (c *Client) SaveReport(ctx context.Context, rep domain.Report) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	const runQ = `
INSERT INTO report_runs
  (generated_at, projects, specialists, total_hours, source_rows, used_rows, invalid_rows)
VALUES
  (?, ?, ?, ?, ?, ?, ?);
`
	res, err := tx.ExecContext(
		ctx,
		runQ,
		rep.GeneratedAt.UTC(),
		rep.Stats.Projects,
		rep.Stats.Specialists,
		rep.Stats.TotalHours,
		rep.Stats.SourceRows,
		rep.Stats.UsedRows,
		rep.Stats.InvalidRows,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}

	const totalQ = `
INSERT INTO report_totals
  (run_id, dimension, group_key, hours, entries)
VALUES
  (?, ?, ?, ?, ?);
`
	stmt, err := tx.PrepareContext(ctx, totalQ)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rep.Projects {
		if _, err := stmt.ExecContext(ctx, runID, "project", row.Key, row.Hours, row.Entries); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, row := range rep.Specialists {
		if _, err := stmt.ExecContext(ctx, runID, "specialist", row.Key, row.Hours, row.Entries); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql archive stored report",
		slog.Int64("run", runID),
		slog.Int("totals", len(rep.Projects)+len(rep.Specialists)),
	)
	return nil
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }
