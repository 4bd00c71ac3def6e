package statement

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/pkg/money"
)

// Column synonyms tried in order when no explicit override is given.
var (
	dateColumns        = []string{"Date", "Transaction Date", "Posted Date"}
	descriptionColumns = []string{"Description", "Merchant", "Narration", "Details"}
	amountColumns      = []string{"Amount", "Transaction Amount", "Value"}
	typeColumns        = []string{"Type", "Transaction Type", "Debit/Credit"}
)

// parseCSV reads header-keyed rows and converts each into a candidate
// transaction. A row missing a usable amount or date is dropped with a
// warning; only an unreadable file is fatal.
func (d *Dispatcher) parseCSV(ctx context.Context, path string, opts ParseOptions) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Stage: "csv", Err: err}
	}
	defer f.Close()

	rows, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, &ExtractionError{Stage: "csv", Err: fmt.Errorf("failed to read rows: %w", err)}
	}

	transactions := make([]Transaction, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tx, ok := d.convertCSVRow(row, opts, i)
		if !ok {
			if d.metrics != nil {
				d.metrics.RowsSkipped.Inc()
			}
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (d *Dispatcher) convertCSVRow(row map[string]string, opts ParseOptions, index int) (Transaction, bool) {
	dateStr := fieldValue(row, opts.DateColumn, dateColumns)
	description := strings.TrimSpace(fieldValue(row, opts.DescriptionColumn, descriptionColumns))
	amountStr := fieldValue(row, opts.AmountColumn, amountColumns)
	if amountStr == "" {
		amountStr = amountFromDebitCredit(row)
	}

	amount, err := money.ParseLoose(amountStr)
	if err != nil {
		d.logger.Warn("skipping csv row: bad amount",
			slog.Int("row", index),
			slog.String("amount", amountStr))
		return Transaction{}, false
	}

	date, err := parseDate(dateStr, opts.DateFormat)
	if err != nil {
		d.logger.Warn("skipping csv row: bad date",
			slog.Int("row", index),
			slog.String("date", dateStr))
		return Transaction{}, false
	}

	tx := Transaction{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
		Amount:      amount.Abs(),
		Type:        resolveType(fieldValue(row, opts.TypeColumn, typeColumns), amount),
	}
	d.classify(&tx)
	return tx, true
}

// fieldValue returns the first non-empty cell, checking the override
// column before the synonym list. Header lookup is case-insensitive.
func fieldValue(row map[string]string, override string, synonyms []string) string {
	if override != "" {
		if v := lookupFold(row, override); v != "" {
			return v
		}
	}
	for _, col := range synonyms {
		if v := lookupFold(row, col); v != "" {
			return v
		}
	}
	return ""
}

func lookupFold(row map[string]string, key string) string {
	if v, ok := row[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range row {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// amountFromDebitCredit reconstructs a signed amount from split
// Debit/Credit columns: debits become negative, credits positive.
func amountFromDebitCredit(row map[string]string) string {
	if debit := lookupFold(row, "Debit"); debit != "" {
		if v, err := money.ParseLoose(debit); err == nil && v.IsPositive() {
			return "-" + debit
		}
	}
	if credit := lookupFold(row, "Credit"); credit != "" {
		if v, err := money.ParseLoose(credit); err == nil && v.IsPositive() {
			return credit
		}
	}
	return ""
}

// resolveType normalizes a textual type column, falling back to the sign
// of the amount when the column is absent or unrecognized.
func resolveType(raw string, amount decimal.Decimal) Type {
	switch lowered := strings.ToLower(strings.TrimSpace(raw)); {
	case strings.Contains(lowered, "debit"),
		strings.Contains(lowered, "payment"),
		strings.Contains(lowered, "withdrawal"):
		return TypeExpense
	case strings.Contains(lowered, "credit"),
		strings.Contains(lowered, "deposit"),
		strings.Contains(lowered, "refund"):
		return TypeIncome
	}
	if amount.Sign() < 0 {
		return TypeExpense
	}
	return TypeIncome
}
