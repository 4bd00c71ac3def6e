package statement

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/internal/domain/classify"
	"github.com/budgetwise/statements/internal/imaging"
	"github.com/budgetwise/statements/internal/ocr"
	"github.com/budgetwise/statements/pkg/metrics"
)

// TransactionClassifier assigns a category to a transaction description.
// Both *classify.Classifier and *classify.Store satisfy it.
type TransactionClassifier interface {
	Classify(description string, amount decimal.Decimal) classify.Result
}

// Dispatcher routes a statement file to the parser for its extension and
// runs shared validation over the parsed candidates.
type Dispatcher struct {
	classifier   TransactionClassifier
	ocr          ocr.Engine
	preprocessor *imaging.Preprocessor
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewDispatcher wires a dispatcher. The OCR engine and preprocessor are
// only touched for image input, so CSV/PDF-only callers may pass nil.
func NewDispatcher(classifier TransactionClassifier, ocrEngine ocr.Engine, preprocessor *imaging.Preprocessor, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		classifier:   classifier,
		ocr:          ocrEngine,
		preprocessor: preprocessor,
		logger:       logger,
	}
}

// WithMetrics attaches pipeline counters.
func (d *Dispatcher) WithMetrics(m *metrics.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Supports reports whether the extension (with or without leading dot)
// routes to a parser.
func (d *Dispatcher) Supports(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "csv", "pdf", "jpg", "jpeg", "png":
		return true
	}
	return false
}

// ParseStatement parses the file at path into validated transactions.
// Fatal conditions (missing file, unsupported extension, whole-stage
// extraction failure) return an error; malformed rows and invalid
// candidates are dropped, logged and counted instead.
func (d *Dispatcher) ParseStatement(ctx context.Context, path string, opts ParseOptions) (*ParseResult, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat statement file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		candidates    []Transaction
		extractedText string
		err           error
	)
	switch ext {
	case ".csv":
		candidates, err = d.parseCSV(ctx, path, opts)
	case ".pdf":
		candidates, extractedText, err = d.parsePDF(ctx, path)
	case ".jpg", ".jpeg", ".png":
		candidates, extractedText, err = d.parseImage(ctx, path, opts)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return nil, err
	}

	valid, dropped := d.validate(candidates)
	d.logger.Info("statement parsed",
		slog.String("path", filepath.Base(path)),
		slog.String("format", strings.TrimPrefix(ext, ".")),
		slog.Int("kept", len(valid)),
		slog.Int("dropped", dropped))

	return &ParseResult{
		Transactions:  valid,
		ExtractedText: extractedText,
		Kept:          len(valid),
		Dropped:       dropped,
	}, nil
}

// classify tags a candidate with its resolved category.
func (d *Dispatcher) classify(tx *Transaction) {
	result := d.classifier.Classify(tx.Description, tx.Amount)
	tx.Category = result.Category
	tx.Confidence = result.Confidence
	tx.Method = result.Method
	tx.AICategorized = true
}
