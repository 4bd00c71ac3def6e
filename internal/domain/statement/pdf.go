package statement

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/google/uuid"

	"github.com/budgetwise/statements/pkg/money"
)

// pdfLinePattern finds a date token followed, on the same line, by the
// first amount-looking token. Both US slash dates and ISO dates count.
var pdfLinePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2})[^\n]*?(-?\$?\d+(\.\d{2})?)`)

// parsePDF extracts the document's plain text and scans it for
// transaction lines. Extraction problems are fatal; individual lines that
// fail to parse are skipped.
func (d *Dispatcher) parsePDF(ctx context.Context, path string) ([]Transaction, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	reader, err := pdf.Open(path)
	if err != nil {
		return nil, "", &ExtractionError{Stage: "pdf", Err: err}
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, "", &ExtractionError{Stage: "pdf", Err: fmt.Errorf("failed to extract text: %w", err)}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, "", &ExtractionError{Stage: "pdf", Err: fmt.Errorf("failed to read text: %w", err)}
	}
	text := buf.String()

	return d.scanDocumentText(text), text, nil
}

// scanDocumentText converts pattern matches in extracted statement text
// into candidate transactions. The description is whatever remains of the
// matched line once the date and amount tokens are removed.
func (d *Dispatcher) scanDocumentText(text string) []Transaction {
	matches := pdfLinePattern.FindAllStringSubmatch(text, -1)
	transactions := make([]Transaction, 0, len(matches))
	for _, m := range matches {
		dateStr, amountStr := m[1], m[2]

		amount, err := money.ParseLoose(amountStr)
		if err != nil {
			continue
		}
		date, err := parseDate(dateStr, "")
		if err != nil {
			continue
		}

		description := m[0]
		description = strings.Replace(description, dateStr, "", 1)
		description = strings.Replace(description, amountStr, "", 1)
		description = strings.TrimSpace(description)

		txType := TypeIncome
		if amount.Sign() < 0 {
			txType = TypeExpense
		}

		tx := Transaction{
			ID:          uuid.New(),
			Date:        date,
			Description: description,
			Amount:      amount.Abs(),
			Type:        txType,
		}
		d.classify(&tx)
		transactions = append(transactions, tx)
	}
	return transactions
}
