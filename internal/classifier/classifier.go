// Package classifier maps ledger accounts to financial statement line items
// through a chain of strategies consulted in a configurable order.
package classifier

import (
	"fmt"
	"strings"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
)

// Classifier tries each strategy in precedence order; the first strategy that
// recognizes a row decides its line item. A built Classifier is immutable and
// safe for concurrent use.
type Classifier struct {
	strategies []Strategy
	logger     logging.Logger
}

// New builds a Classifier from a rule set. A nil rule set uses DefaultRules;
// an empty precedence uses models.DefaultPrecedence.
func New(rules *models.ClassificationRules, logger logging.Logger) (*Classifier, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	precedence := rules.Precedence
	if len(precedence) == 0 {
		precedence = models.DefaultPrecedence
	}

	seen := map[string]bool{}
	var strategies []Strategy
	for _, name := range precedence {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			return nil, &parsererror.ClassificationError{Rule: "precedence", Err: fmt.Errorf("strategy %q listed twice", name)}
		}
		seen[name] = true

		var (
			s   Strategy
			err error
		)
		switch name {
		case models.StrategyDetector:
			s, err = NewDetectorStrategy(rules.Detectors)
		case models.StrategyAlias:
			s, err = NewAliasStrategy(rules.Aliases)
		case models.StrategyRange:
			s, err = NewRangeStrategy(rules.Ranges)
		default:
			err = &parsererror.ClassificationError{Rule: "precedence", Err: fmt.Errorf("unknown strategy %q", name)}
		}
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return NewWithStrategies(strategies, logger), nil
}

// NewWithStrategies creates a Classifier from prebuilt strategies.
func NewWithStrategies(strategies []Strategy, logger logging.Logger) *Classifier {
	return &Classifier{strategies: strategies, logger: logging.OrDefault(logger)}
}

// Strategies returns the strategy names in precedence order.
func (c *Classifier) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Classify maps one row. Rows no strategy recognizes are LineItemUnmapped.
func (c *Classifier) Classify(row models.LedgerRow) models.ClassifiedRow {
	for _, s := range c.strategies {
		if li, ok := s.Classify(row); ok {
			return models.ClassifiedRow{LedgerRow: row, LineItem: li, Strategy: s.Name()}
		}
	}
	return models.ClassifiedRow{LedgerRow: row, LineItem: models.LineItemUnmapped}
}

// ClassifyTable maps every row of table and collects statistics.
func (c *Classifier) ClassifyTable(table *models.LedgerTable) ([]models.ClassifiedRow, *models.ClassificationStats) {
	rows := make([]models.ClassifiedRow, 0, table.Len())
	stats := models.NewClassificationStats()
	for _, r := range table.Rows {
		cr := c.Classify(r)
		if cr.LineItem == models.LineItemUnmapped {
			c.logger.Debug("Account not mapped",
				logging.F(logging.FieldSource, table.Source),
				logging.F("account_number", r.Text(models.ColumnAccountNumber)),
				logging.F("account_name", r.AccountName))
		}
		stats.Add(cr)
		rows = append(rows, cr)
	}
	stats.LogSummary(c.logger, table.Source)
	return rows, stats
}

// Mapping is the per-account result reported by the classify command.
type Mapping struct {
	AccountNumber string          `json:"account_number" csv:"account_number"`
	AccountName   string          `json:"account_name" csv:"account_name"`
	LineItem      models.LineItem `json:"line_item" csv:"line_item"`
	Strategy      string          `json:"strategy,omitempty" csv:"strategy"`
	Rows          int             `json:"rows" csv:"rows"`
}

// Mappings collapses classified rows into one entry per distinct account,
// in first-seen order.
func Mappings(rows []models.ClassifiedRow) []Mapping {
	index := map[string]int{}
	var out []Mapping
	for _, r := range rows {
		key := r.Text(models.ColumnAccountNumber) + "\x1f" + r.AccountName
		if i, ok := index[key]; ok {
			out[i].Rows++
			continue
		}
		index[key] = len(out)
		out = append(out, Mapping{
			AccountNumber: r.Text(models.ColumnAccountNumber),
			AccountName:   r.AccountName,
			LineItem:      r.LineItem,
			Strategy:      r.Strategy,
			Rows:          1,
		})
	}
	return out
}
