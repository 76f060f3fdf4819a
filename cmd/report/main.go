// backend-go/cmd/report/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDateFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "date",
		Usage: "Snapshot date (YYYY-MM-DD), defaults to the newest sheet",
	}
}

func newWindowDaysFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "window-days",
		Usage: "Trailing window length in days, 0 uses the configured default",
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "report",
		Usage: "Run inventory reconciliation reports from the command line",
		Commands: []*cli.Command{
			{
				Name:   "reconcile",
				Usage:  "Compare the ERP and branch ledgers for a snapshot date",
				Flags:  []cli.Flag{newDateFlag()},
				Action: runReconcile,
			},
			{
				Name:   "health",
				Usage:  "Classify a branch snapshot into expiry and aging buckets",
				Flags:  []cli.Flag{newDateFlag()},
				Action: runHealth,
			},
			{
				Name:   "trend",
				Usage:  "Build the per-warehouse stock trend over recent snapshots",
				Action: runTrend,
			},
			{
				Name:  "replenish",
				Usage: "Suggest replenishment quantities from windowed sales",
				Flags: []cli.Flag{
					newWindowDaysFlag(),
					&cli.BoolFlag{
						Name:  "export",
						Usage: "Write the report as a spreadsheet into the export directory",
					},
				},
				Action: runReplenish,
			},
			{
				Name:  "movements",
				Usage: "Search trade log transactions inside the trailing window",
				Flags: []cli.Flag{
					newWindowDaysFlag(),
					&cli.StringFlag{Name: "side", Usage: "sales, purchase or empty for both"},
					&cli.StringFlag{Name: "counterparty", Usage: "Exact counterparty name"},
					&cli.StringFlag{Name: "name", Usage: "Product name substring"},
				},
				Action: runMovements,
			},
			{
				Name:  "archive",
				Usage: "Persist the current replenishment suggestions",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newWindowDaysFlag(),
				},
				Before: initDB,
				After:  closeDB,
				Action: runArchive,
			},
			{
				Name:   "seed",
				Usage:  "Create the report run audit tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
			{
				Name:  "runs",
				Usage: "List recorded report runs, newest first",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows to list", Value: 20},
					&cli.BoolFlag{Name: "dates", Usage: "List the distinct snapshot dates with recorded runs"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runListRuns,
			},
			{
				Name:  "archives",
				Usage: "List archived replenishment snapshots, or print one",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "window-end", Usage: "Window end date (YYYY-MM-DD) to print"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum dates to list", Value: 30},
				},
				Before: initDB,
				After:  closeDB,
				Action: runListArchives,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
