//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	msql "timesheet-report/internal/adapter/mysql"
	"timesheet-report/internal/domain"
	"timesheet-report/internal/migrate"
)

func sampleReport() domain.Report {
	return domain.Report{
		Projects: []domain.SummaryRow{
			{Key: "P1", Hours: 5, Entries: 2},
			{Key: "P2", Hours: 5, Entries: 1},
		},
		Specialists: []domain.SummaryRow{
			{Key: "Alice", Hours: 8, Entries: 2},
			{Key: "Bob", Hours: 2, Entries: 1},
		},
		Stats: domain.Stats{
			Projects: 2, Specialists: 2, TotalHours: 10,
			SourceRows: 3, UsedRows: 3,
		},
		GeneratedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestArchiveToMySQL_AppendsRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := migrate.Run(ctx, dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	archive, err := msql.NewClient(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("mysql client: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })

	rep := sampleReport()
	if err := archive.SaveReport(ctx, rep); err != nil {
		t.Fatalf("save report: %v", err)
	}

	// Verify rows
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM report_runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	var totals int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM report_totals").Scan(&totals); err != nil {
		t.Fatalf("count totals: %v", err)
	}
	if want := len(rep.Projects) + len(rep.Specialists); totals != want {
		t.Fatalf("expected %d totals rows, got %d", want, totals)
	}

	var hours float64
	if err := db.QueryRowContext(ctx,
		"SELECT hours FROM report_totals WHERE dimension = 'specialist' AND group_key = 'Alice'",
	).Scan(&hours); err != nil {
		t.Fatalf("alice hours: %v", err)
	}
	if hours != 8 {
		t.Fatalf("expected 8 hours for Alice, got %v", hours)
	}

	// Archive again to assert runs are append-only, never upserted.
	if err := archive.SaveReport(ctx, rep); err != nil {
		t.Fatalf("save report 2: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM report_runs").Scan(&runs); err != nil {
		t.Fatalf("count runs 2: %v", err)
	}
	if runs != 2 {
		t.Fatalf("expected 2 runs after second save, got %d", runs)
	}
}
