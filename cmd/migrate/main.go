package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	infraBQ "github.com/dvloznov/statement-ingest/internal/infra/bigquery"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run applies the PostgreSQL migrations and, when a project is given,
// creates the BigQuery audit log table.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		databaseURL = fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (or set DATABASE_URL env)")
		appliedBy   = fs.String("applied-by", "migrate-cli", "Name of the tool applying migrations")
		projectID   = fs.String("project", "", "GCP project ID; creates the BigQuery audit log table when set")
		datasetID   = fs.String("dataset", "finance", "BigQuery dataset ID")
		list        = fs.Bool("list", false, "List embedded migrations and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	migrations, err := store.ReadMigrations()
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	if *list {
		for _, m := range migrations {
			fmt.Fprintf(stdout, "%04d_%s  %s\n", m.Version, m.Name, m.Checksum[:12])
		}
		return nil
	}

	if *databaseURL == "" {
		return fmt.Errorf("-database-url flag or DATABASE_URL env is required")
	}

	ctx = logger.WithContext(ctx, logger.New())

	pg, err := store.NewStore(ctx, *databaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	fmt.Fprintf(stdout, "Found %d migration files\n", len(migrations))

	applied, err := store.Migrate(ctx, pg.Pool(), *appliedBy)
	if err != nil {
		return err
	}
	if applied == 0 {
		fmt.Fprintln(stdout, "No new migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(stdout, "Successfully applied %d migration(s)\n", applied)
	}

	if *projectID == "" {
		return nil
	}

	sink, err := infraBQ.NewAuditLogSink(ctx, *projectID, *datasetID)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.EnsureTable(ctx); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "BigQuery audit log table ready in %s.%s\n", *projectID, *datasetID)
	return nil
}
