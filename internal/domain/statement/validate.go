package statement

import (
	"log/slog"
	"strings"
)

// validate applies the final invariants every emitted transaction must
// hold: a real date, a strictly positive amount, and a non-empty
// description. Violations are dropped with a warning, never errors.
func (d *Dispatcher) validate(candidates []Transaction) ([]Transaction, int) {
	valid := make([]Transaction, 0, len(candidates))
	dropped := 0
	for _, tx := range candidates {
		reason := ""
		switch {
		case tx.Date.IsZero():
			reason = "missing date"
		case !tx.Amount.IsPositive():
			reason = "non-positive amount"
		case strings.TrimSpace(tx.Description) == "":
			reason = "empty description"
		}
		if reason != "" {
			dropped++
			if d.metrics != nil {
				d.metrics.CandidatesDropped.Inc()
			}
			d.logger.Warn("dropping invalid transaction",
				slog.String("reason", reason),
				slog.String("description", tx.Description))
			continue
		}
		if d.metrics != nil {
			d.metrics.CandidatesKept.Inc()
		}
		valid = append(valid, tx)
	}
	return valid, dropped
}
