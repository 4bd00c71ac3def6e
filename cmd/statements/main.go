// Command statements ingests bank statement files from the command line:
// each file is copied into the upload store, run through the parsing and
// classification pipeline, and reported as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/budgetwise/statements/internal/domain/classify"
	"github.com/budgetwise/statements/internal/domain/statement"
	"github.com/budgetwise/statements/internal/imaging"
	"github.com/budgetwise/statements/internal/ocr"
	"github.com/budgetwise/statements/pkg/config"
	"github.com/budgetwise/statements/pkg/cron"
	"github.com/budgetwise/statements/pkg/metrics"
	"github.com/budgetwise/statements/pkg/storage"
)

type report struct {
	Statement    *statement.Statement    `json:"statement"`
	Transactions []statement.Transaction `json:"transactions,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

func main() {
	var (
		lang       = flag.String("lang", "", "OCR language (default from OCR_LANG)")
		dateFormat = flag.String("date-format", "", "explicit Go layout for CSV dates")
		ownerFlag  = flag.String("owner", "", "owner UUID (random if empty)")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: statements [flags] <file>...")
		os.Exit(2)
	}

	if err := run(flag.Args(), *lang, *dateFormat, *ownerFlag, *debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(files []string, lang, dateFormat, ownerFlag string, debug bool) error {
	cfg := config.Load()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	owner := uuid.New()
	if ownerFlag != "" {
		parsed, err := uuid.Parse(ownerFlag)
		if err != nil {
			return fmt.Errorf("invalid owner id: %w", err)
		}
		owner = parsed
	}

	classifier, err := classify.New(classify.DefaultCorpus())
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}
	store := classify.NewStore(classifier)

	if cfg.Classifier.CompactSchedule != "" {
		scheduler := cron.NewScheduler(store, cfg.Classifier.CompactSchedule, logger)
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start compaction schedule: %w", err)
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	preprocessor := imaging.NewPreprocessor(nil, cfg.Pipeline.MaxImageWidth, cfg.Pipeline.TempDir)
	dispatcher := statement.NewDispatcher(store, ocr.NewTesseract(cfg.OCR.Binary), preprocessor, logger).
		WithMetrics(m)
	repo := statement.NewMemoryRepository()
	service := statement.NewService(repo, dispatcher, logger).WithMetrics(m)

	if lang == "" {
		lang = cfg.OCR.Lang
	}
	opts := statement.ParseOptions{Lang: lang, DateFormat: dateFormat, Debug: debug}

	ctx := context.Background()
	reports := make([]report, 0, len(files))
	failed := false
	for _, file := range files {
		rep := ingest(ctx, service, uploads, owner, file, opts)
		if rep.Error != "" {
			failed = true
		}
		reports = append(reports, rep)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("some statements failed")
	}
	return nil
}

func ingest(ctx context.Context, service *statement.Service, uploads storage.Storage, owner uuid.UUID, file string, opts statement.ParseOptions) report {
	src, err := os.Open(file)
	if err != nil {
		return report{Error: err.Error()}
	}
	defer src.Close()

	info, err := uploads.Upload(ctx, owner, filepath.Base(file), "", src)
	if err != nil {
		return report{Error: err.Error()}
	}

	st, err := service.Process(ctx, owner, statement.Upload{
		Path:             info.Path,
		Filename:         info.Name,
		OriginalFilename: filepath.Base(file),
	}, opts)
	if err != nil {
		// The stored copy is useless for a rejected upload.
		if st == nil || st.Status == statement.StatusPending {
			_ = uploads.Delete(ctx, owner, info.ID)
		}
		return report{Statement: st, Error: err.Error()}
	}

	txs, err := service.Transactions(ctx, st.ID)
	if err != nil {
		return report{Statement: st, Error: err.Error()}
	}
	return report{Statement: st, Transactions: txs}
}
