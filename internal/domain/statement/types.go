// Package statement turns uploaded bank statements (CSV, PDF, or raster
// images) into normalized, categorized transactions and tracks each
// upload's lifecycle.
package statement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Status is a statement's lifecycle state. Transitions only move forward;
// processed and failed are absorbing.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusProcessed, StatusFailed},
}

// Transaction is one normalized, categorized line from a statement.
// Amount is always positive; direction lives in Type.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          Type            `json:"type"`
	Category      string          `json:"category"`
	AICategorized bool            `json:"ai_categorized"`
	Confidence    float64         `json:"confidence"`
	Method        string          `json:"method"`
}

// Statement is the lifecycle record for one uploaded file.
type Statement struct {
	ID               uuid.UUID `json:"id"`
	Owner            uuid.UUID `json:"owner"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	Status           Status    `json:"status"`
	ExtractedText    string    `json:"extracted_text,omitempty"`
	Error            string    `json:"error,omitempty"`
	TransactionCount int       `json:"transaction_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// transition moves the statement to the given status, enforcing the
// forward-only lifecycle.
func (s *Statement) transition(to Status) error {
	for _, next := range allowedTransitions[s.Status] {
		if next == to {
			s.Status = to
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("invalid statement transition: %s -> %s", s.Status, to)
}

// ParseOptions tunes a single parse run. Column overrides and DateFormat
// apply to CSV input; Lang selects the OCR language for images. Debug
// raises log verbosity only and never changes the parsed output.
type ParseOptions struct {
	DateFormat        string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	TypeColumn        string
	Lang              string
	Debug             bool
}

func (o ParseOptions) lang() string {
	if o.Lang == "" {
		return "eng"
	}
	return o.Lang
}

// ParseResult is the outcome of parsing one statement file. Kept and
// Dropped count candidates through final validation; ExtractedText is the
// raw text for PDF and image sources, empty for CSV.
type ParseResult struct {
	Transactions  []Transaction `json:"transactions"`
	ExtractedText string        `json:"extracted_text,omitempty"`
	Kept          int           `json:"kept"`
	Dropped       int           `json:"dropped"`
}
