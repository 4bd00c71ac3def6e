package statement

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/internal/ocr"
	"github.com/budgetwise/statements/pkg/money"
)

// Type keywords for recognized lines. Expense keywords are checked first,
// so "credit card payment" stays an expense; anything matching neither
// list defaults to expense.
var (
	expenseKeywords = []string{"payment", "purchase", "withdrawal", "debit"}
	incomeKeywords  = []string{"deposit", "credit", "refund"}
)

// parseImage runs the OCR pipeline: preprocess into a temporary artifact,
// recognize, scan the text with every line template, then collapse
// duplicates that matched more than one template.
func (d *Dispatcher) parseImage(ctx context.Context, path string, opts ParseOptions) ([]Transaction, string, error) {
	artifact, cleanup, err := d.preprocessor.Preprocess(path)
	if err != nil {
		return nil, "", &ExtractionError{Stage: "image preprocessing", Err: err}
	}
	defer cleanup()

	data, err := os.ReadFile(artifact)
	if err != nil {
		return nil, "", &ExtractionError{Stage: "image preprocessing", Err: err}
	}

	text, err := d.ocr.Recognize(ctx, data, ocr.Options{Lang: opts.lang(), Debug: opts.Debug})
	if err != nil {
		return nil, "", &ExtractionError{Stage: "ocr", Err: err}
	}
	if opts.Debug {
		d.logger.Debug("ocr recognized text", slog.Int("bytes", len(text)))
	}

	return d.scanRecognizedText(text), text, nil
}

// scanRecognizedText extracts candidate transactions from OCR output.
func (d *Dispatcher) scanRecognizedText(text string) []Transaction {
	var candidates []Transaction
	for _, tpl := range lineTemplates {
		for _, m := range tpl.pattern.FindAllStringSubmatch(text, -1) {
			dateRaw := m[tpl.captures.date]
			description := strings.TrimSpace(m[tpl.captures.description])
			amountRaw := m[tpl.captures.amount]

			amount, err := money.ParseLoose(amountRaw)
			if err != nil {
				continue
			}

			date, stamped := normalizeRecognizedDate(dateRaw)
			if stamped {
				// Kept deliberately: image candidates survive a bad date
				// with a current timestamp, unlike CSV and PDF rows.
				d.logger.Warn("image date unreadable, stamping with current time",
					slog.String("date", dateRaw),
					slog.String("description", description))
			}

			tx := Transaction{
				ID:          uuid.New(),
				Date:        date,
				Description: description,
				Amount:      amount.Abs(),
				Type:        inferRecognizedType(description),
			}
			d.classify(&tx)
			candidates = append(candidates, tx)
		}
	}
	return d.dedupe(candidates)
}

// dedupe keeps the first candidate for each (day, cents, description
// prefix) key. Later matches of the same printed line, usually from a
// second template, are collapsed.
func (d *Dispatcher) dedupe(candidates []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Transaction, 0, len(candidates))
	for _, tx := range candidates {
		prefix := tx.Description
		if runes := []rune(prefix); len(runes) > 20 {
			prefix = string(runes[:20])
		}
		key := tx.Date.Format("2006-01-02") + "_" + tx.Amount.StringFixed(2) + "_" + prefix
		if _, dup := seen[key]; dup {
			if d.metrics != nil {
				d.metrics.DuplicatesCollapsed.Inc()
			}
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}
	return out
}

func inferRecognizedType(description string) Type {
	lowered := strings.ToLower(description)
	for _, kw := range expenseKeywords {
		if strings.Contains(lowered, kw) {
			return TypeExpense
		}
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(lowered, kw) {
			return TypeIncome
		}
	}
	return TypeExpense
}

var isoLikeDate = regexp.MustCompile(`^\d{4}[/-]\d{1,2}[/-]\d{1,2}$`)

// normalizeRecognizedDate turns an OCR date token into a concrete time.
// Month-first order is assumed for non-ISO tokens, and two-digit years
// pivot at 50 (below 50 is 20xx, the rest 19xx). A token that cannot be
// made sense of yields the current time with stamped=true; the candidate
// is kept either way.
func normalizeRecognizedDate(raw string) (date time.Time, stamped bool) {
	raw = strings.TrimSpace(raw)

	if isoLikeDate.MatchString(raw) {
		normalized := strings.ReplaceAll(raw, "/", "-")
		for _, layout := range []string{"2006-01-02", "2006-1-2"} {
			if t, err := time.Parse(layout, normalized); err == nil {
				return t, false
			}
		}
		return time.Now(), true
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return time.Now(), true
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Now(), true
	}
	if len(parts[2]) == 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return time.Now(), true
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), false
}
