package statement

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/pkg/metrics"
)

// Upload describes a stored statement file handed to the service.
type Upload struct {
	// Path is where the stored file can be read from.
	Path string
	// Filename is the storage-assigned name.
	Filename string
	// OriginalFilename is the name the user uploaded, used for the
	// duplicate guard.
	OriginalFilename string
}

// Service drives a statement through its lifecycle: create as pending,
// parse while processing, finish as processed or failed.
type Service struct {
	repo       Repository
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(repo Repository, dispatcher *Dispatcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, dispatcher: dispatcher, logger: logger}
}

// WithMetrics attaches lifecycle counters.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// Process ingests one upload for the owner. The returned statement
// reflects the final lifecycle state even when an error is returned:
// an unsupported format leaves it pending, a parse or persistence
// failure marks it failed. A repeated original filename is rejected
// before any statement is created.
func (s *Service) Process(ctx context.Context, owner uuid.UUID, upload Upload, opts ParseOptions) (*Statement, error) {
	existing, err := s.repo.FindStatementByFilename(ctx, owner, upload.OriginalFilename)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateStatement, upload.OriginalFilename)
	}

	now := time.Now()
	st := &Statement{
		ID:               uuid.New(),
		Owner:            owner,
		Filename:         upload.Filename,
		OriginalFilename: upload.OriginalFilename,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateStatement(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}

	ext := filepath.Ext(upload.Path)
	if !s.dispatcher.Supports(ext) {
		// The statement never enters processing for a format the
		// dispatcher cannot route.
		return st, &UnsupportedFormatError{Ext: ext}
	}

	if err := s.setStatus(ctx, st, StatusProcessing); err != nil {
		return st, err
	}
	s.logger.Info("processing statement",
		slog.String("statement_id", st.ID.String()),
		slog.String("filename", upload.OriginalFilename))

	result, err := s.dispatcher.ParseStatement(ctx, upload.Path, opts)
	if err != nil {
		s.fail(ctx, st, err)
		return st, err
	}

	if err := s.repo.SaveTransactions(ctx, st.ID, result.Transactions); err != nil {
		err = fmt.Errorf("failed to save transactions: %w", err)
		s.fail(ctx, st, err)
		return st, err
	}

	st.ExtractedText = result.ExtractedText
	st.TransactionCount = len(result.Transactions)
	if err := s.setStatus(ctx, st, StatusProcessed); err != nil {
		return st, err
	}
	if s.metrics != nil {
		s.metrics.StatementsProcessed.Inc()
	}
	s.logger.Info("statement processed",
		slog.String("statement_id", st.ID.String()),
		slog.Int("transactions", st.TransactionCount),
		slog.Int("dropped", result.Dropped))
	return st, nil
}

// Status returns the current lifecycle record for a statement.
func (s *Service) Status(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

// Transactions returns the saved transactions of a processed statement.
func (s *Service) Transactions(ctx context.Context, id uuid.UUID) ([]Transaction, error) {
	if _, err := s.repo.GetStatement(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, id)
}

func (s *Service) setStatus(ctx context.Context, st *Statement, to Status) error {
	if err := st.transition(to); err != nil {
		return err
	}
	if err := s.repo.UpdateStatement(ctx, st); err != nil {
		return fmt.Errorf("failed to update statement: %w", err)
	}
	return nil
}

func (s *Service) fail(ctx context.Context, st *Statement, cause error) {
	st.Error = cause.Error()
	if err := s.setStatus(ctx, st, StatusFailed); err != nil {
		s.logger.Error("failed to mark statement failed",
			slog.String("statement_id", st.ID.String()),
			slog.Any("error", err))
		return
	}
	if s.metrics != nil {
		s.metrics.StatementsFailed.Inc()
	}
	s.logger.Warn("statement failed",
		slog.String("statement_id", st.ID.String()),
		slog.Any("error", cause))
}
