package statement

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrStatementNotFound is returned by lookups for unknown statement IDs.
var ErrStatementNotFound = errors.New("statement not found")

// Repository persists statements and their transactions. Real persistence
// lives outside this module; MemoryRepository backs tests and the CLI.
type Repository interface {
	CreateStatement(ctx context.Context, st *Statement) error
	UpdateStatement(ctx context.Context, st *Statement) error
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	// FindStatementByFilename returns (nil, nil) when the owner has no
	// statement with that original filename.
	FindStatementByFilename(ctx context.Context, owner uuid.UUID, originalFilename string) (*Statement, error)
	SaveTransactions(ctx context.Context, statementID uuid.UUID, txs []Transaction) error
	ListTransactions(ctx context.Context, statementID uuid.UUID) ([]Transaction, error)
}

// MemoryRepository is a thread-safe in-memory Repository.
type MemoryRepository struct {
	mu           sync.RWMutex
	statements   map[uuid.UUID]Statement
	transactions map[uuid.UUID][]Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		statements:   make(map[uuid.UUID]Statement),
		transactions: make(map[uuid.UUID][]Transaction),
	}
}

func (r *MemoryRepository) CreateStatement(_ context.Context, st *Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements[st.ID] = *st
	return nil
}

func (r *MemoryRepository) UpdateStatement(_ context.Context, st *Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.statements[st.ID]; !ok {
		return ErrStatementNotFound
	}
	r.statements[st.ID] = *st
	return nil
}

func (r *MemoryRepository) GetStatement(_ context.Context, id uuid.UUID) (*Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.statements[id]
	if !ok {
		return nil, ErrStatementNotFound
	}
	return &st, nil
}

func (r *MemoryRepository) FindStatementByFilename(_ context.Context, owner uuid.UUID, originalFilename string) (*Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, st := range r.statements {
		if st.Owner == owner && st.OriginalFilename == originalFilename {
			found := st
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) SaveTransactions(_ context.Context, statementID uuid.UUID, txs []Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[statementID] = append([]Transaction(nil), txs...)
	return nil
}

func (r *MemoryRepository) ListTransactions(_ context.Context, statementID uuid.UUID) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Transaction(nil), r.transactions[statementID]...), nil
}
