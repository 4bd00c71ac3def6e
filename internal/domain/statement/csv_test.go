package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/internal/domain/classify"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	classifier, err := classify.New(classify.DefaultCorpus())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(classifier, nil, nil, logger)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	d := newTestDispatcher(t)

	csv := strings.Join([]string{
		"Date,Description,Amount",
		"01/15/2024,Walmart Grocery Shopping,-45.20",
		"01/16/2024,Salary Deposit,2500.00",
		"01/17/2024,Corrupted Row,abc",
	}, "\n")
	path := writeTempFile(t, "statement.csv", csv)

	result, err := d.ParseStatement(context.Background(), path, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, 2, result.Kept)

	grocery := result.Transactions[0]
	assert.Equal(t, "Walmart Grocery Shopping", grocery.Description)
	assert.Equal(t, "45.20", grocery.Amount.StringFixed(2))
	assert.Equal(t, TypeExpense, grocery.Type)
	assert.Equal(t, "Groceries", grocery.Category)
	assert.Equal(t, classify.MethodKeyword, grocery.Method)
	assert.True(t, grocery.AICategorized)
	assert.Equal(t, 2024, grocery.Date.Year())

	salary := result.Transactions[1]
	assert.Equal(t, TypeIncome, salary.Type)
	assert.Equal(t, "Income", salary.Category)
	assert.Equal(t, "2500.00", salary.Amount.StringFixed(2))
}

func TestParseCSVSynonymColumns(t *testing.T) {
	d := newTestDispatcher(t)

	csv := strings.Join([]string{
		"Transaction Date,Merchant,Transaction Amount",
		"2024-01-15,Uber Ride to Airport,-18.75",
	}, "\n")
	path := writeTempFile(t, "synonyms.csv", csv)

	result, err := d.ParseStatement(context.Background(), path, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Uber Ride to Airport", result.Transactions[0].Description)
	assert.Equal(t, "Transportation", result.Transactions[0].Category)
}

func TestParseCSVColumnOverrides(t *testing.T) {
	d := newTestDispatcher(t)

	csv := strings.Join([]string{
		"When,What,HowMuch",
		"15.01.2024,Netflix Subscription,-15.99",
	}, "\n")
	path := writeTempFile(t, "custom.csv", csv)

	result, err := d.ParseStatement(context.Background(), path, ParseOptions{
		DateColumn:        "When",
		DescriptionColumn: "What",
		AmountColumn:      "HowMuch",
		DateFormat:        "02.01.2006",
	})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Entertainment", result.Transactions[0].Category)
	assert.Equal(t, 15, result.Transactions[0].Date.Day())
}

func TestParseCSVDebitCreditColumns(t *testing.T) {
	d := newTestDispatcher(t)

	csv := strings.Join([]string{
		"Date,Description,Debit,Credit",
		"01/15/2024,Dinner at Italian Restaurant,32.50,",
		"01/16/2024,Refund from store,,12.00",
	}, "\n")
	path := writeTempFile(t, "split.csv", csv)

	result, err := d.ParseStatement(context.Background(), path, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, TypeExpense, result.Transactions[0].Type)
	assert.Equal(t, "32.50", result.Transactions[0].Amount.StringFixed(2))
	assert.Equal(t, TypeIncome, result.Transactions[1].Type)
	assert.Equal(t, "12.00", result.Transactions[1].Amount.StringFixed(2))
}

func TestParseCSVTypeColumn(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name     string
		row      string
		wantType Type
	}{
		{"explicit debit", "01/15/2024,Coffee,4.50,debit", TypeExpense},
		{"explicit credit", "01/15/2024,Coffee,4.50,credit", TypeIncome},
		{"unrecognized falls back to sign", "01/15/2024,Coffee,-4.50,transfer", TypeExpense},
		{"positive sign default", "01/15/2024,Coffee,4.50,", TypeIncome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "typed.csv", "Date,Description,Amount,Type\n"+tt.row)
			result, err := d.ParseStatement(context.Background(), path, ParseOptions{})
			require.NoError(t, err)
			require.Len(t, result.Transactions, 1)
			assert.Equal(t, tt.wantType, result.Transactions[0].Type)
		})
	}
}

func TestParseCSVRowCountLaw(t *testing.T) {
	d := newTestDispatcher(t)
	gofakeit.Seed(11)

	const rows = 60
	corrupted := 0
	lines := []string{"Date,Description,Amount"}
	for i := 0; i < rows; i++ {
		desc := strings.ReplaceAll(gofakeit.Company(), ",", " ")
		amount := fmt.Sprintf("%.2f", gofakeit.Price(1, 900))
		date := gofakeit.DateRange(
			timeMustParse(t, "2023-01-01"), timeMustParse(t, "2024-12-31"),
		).Format("01/02/2006")
		if i%7 == 0 {
			amount = "not-a-number"
			corrupted++
		}
		lines = append(lines, fmt.Sprintf("%s,%s,%s", date, desc, amount))
	}
	path := writeTempFile(t, "generated.csv", strings.Join(lines, "\n"))

	result, err := d.ParseStatement(context.Background(), path, ParseOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Transactions, rows-corrupted)
}

func timeMustParse(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := parseDate(s, "")
	require.NoError(t, err)
	return parsed
}
