package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dvloznov/statement-ingest/internal/app"
	"github.com/dvloznov/statement-ingest/internal/config"
	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/gcsuploader"
	infraBQ "github.com/dvloznov/statement-ingest/internal/infra/bigquery"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/merchant"
	"github.com/dvloznov/statement-ingest/internal/pipeline"
	"github.com/dvloznov/statement-ingest/internal/rules"
	"github.com/dvloznov/statement-ingest/internal/statement"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		runImport(log)
	case "upload":
		runUpload(log)
	case "detect":
		runDetect(log)
	case "audit":
		runAudit(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Ingest CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  import    Import a CSV statement from a local file or GCS")
	fmt.Println("  upload    Archive a CSV statement in GCS")
	fmt.Println("  detect    Detect the bank of a statement and show what would be parsed")
	fmt.Println("  audit     List recent import audit logs from BigQuery")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func loadConfig(log zerolog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	return cfg
}

func readStatement(ctx context.Context, filePath, gcsURI string) ([]byte, string, error) {
	if gcsURI != "" {
		content, err := gcsuploader.FetchFromGCS(ctx, gcsURI)
		return content, gcsuploader.ExtractFilenameFromGCSURI(gcsURI), err
	}
	content, err := os.ReadFile(filePath)
	return content, filepath.Base(filePath), err
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
	}
}

// progressPrinter prints import progress to stderr.
type progressPrinter struct{}

func (progressPrinter) Progress(_ context.Context, processed, total int) error {
	fmt.Fprintf(os.Stderr, "categorized %d/%d\n", processed, total)
	return nil
}

func (progressPrinter) Done(context.Context, *domain.Summary) error { return nil }

func runImport(log zerolog.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local CSV statement")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of an archived statement")
	userID := fs.String("user", "", "User the expenses belong to")
	owner := fs.String("owner", "", "Statement owner name, used to detect own transfers")
	dryRun := fs.Bool("dry-run", false, "Parse and categorize without writing to PostgreSQL")
	fs.Parse(os.Args[2:])

	if (*filePath == "") == (*gcsURI == "") || *userID == "" {
		log.Fatal().Msg("Usage: cli import (-file PATH | -gcs-uri URI) -user ID [-owner NAME] [-dry-run]")
	}

	cfg := loadConfig(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	content, fileName, err := readStatement(ctx, *filePath, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read statement")
	}

	stack, err := app.NewStack(ctx, cfg, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize import stack")
	}
	defer stack.Close()

	summary, err := stack.Importer.Import(ctx, pipeline.Upload{
		UserID:    *userID,
		OwnerName: *owner,
		FileName:  fileName,
		Size:      int64(len(content)),
		Content:   content,
	}, progressPrinter{})
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	printJSON(summary)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name (or set GCS_BUCKET env)")
	filePath := fs.String("file", "", "Path to local CSV file")
	userID := fs.String("user", "", "User the statement belongs to")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH [-user ID]")
	}

	objectName := gcsuploader.ObjectName(*userID, uuid.NewString(), *filePath)

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", objectName).
		Str("file", *filePath).
		Msg("Uploading statement to GCS")

	if err := gcsuploader.UploadFile(ctx, *bucketName, objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Println(gcsuploader.URI(*bucketName, objectName))
}

func runDetect(log zerolog.Logger) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to local CSV file")
	owner := fs.String("owner", "", "Statement owner name")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Usage: cli detect -file PATH [-owner NAME]")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}
	text, err := statement.Decode(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode file")
	}

	res := statement.NewRegistry(statement.Options{
		Extractor:  merchant.NewExtractor(merchant.DefaultAliases()),
		Classifier: rules.NewClassifier(*owner),
	}).Parse(text)

	fmt.Printf("Bank:         %s\n", res.Bank)
	fmt.Printf("Transactions: %d\n", len(res.Transactions))
	fmt.Printf("Line errors:  %d\n", len(res.Errors))
	fmt.Printf("Skipped:      %d\n", res.Skipped.Count)

	reasons := make([]domain.SkipReason, 0, len(res.Skipped.Reasons))
	for reason := range res.Skipped.Reasons {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, reason := range reasons {
		fmt.Printf("  %-20s %d\n", reason, res.Skipped.Reasons[reason])
	}
	for _, le := range res.Errors {
		fmt.Printf("  line %d: %s\n", le.Line, le.Message)
	}
}

func runAudit(log zerolog.Logger) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	userID := fs.String("user", "", "Only show logs of this user")
	limit := fs.Int("limit", infraBQ.DefaultListLimit, "Maximum number of entries")
	fs.Parse(os.Args[2:])

	cfg := loadConfig(log)
	if cfg.ProjectID == "" {
		log.Fatal().Msg("GOOGLE_CLOUD_PROJECT is required")
	}

	ctx := logger.WithContext(context.Background(), log)

	sink, err := infraBQ.NewAuditLogSink(ctx, cfg.ProjectID, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to BigQuery")
	}
	defer sink.Close()

	entries, err := sink.ListAuditLogs(ctx, *userID, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list audit logs")
	}
	printJSON(entries)
}
