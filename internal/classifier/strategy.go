package classifier

import "fjacquet/fin-statements/internal/models"

// Strategy maps a ledger row to a line item. Classify reports false when the
// strategy has no opinion about the row.
type Strategy interface {
	Classify(row models.LedgerRow) (models.LineItem, bool)

	// Name returns the name of this strategy for logging and statistics.
	Name() string
}
