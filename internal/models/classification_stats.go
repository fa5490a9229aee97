package models

import (
	"fmt"
	"sort"

	"fjacquet/fin-statements/internal/logging"
)

// ClassifiedRow is a ledger row together with the line item it was mapped to
// and the strategy that decided it.
type ClassifiedRow struct {
	LedgerRow
	LineItem LineItem
	Strategy string
}

// ClassificationStats tracks how rows of one table were classified.
type ClassificationStats struct {
	Total            int              `json:"total"`
	Mapped           int              `json:"mapped"`
	Unmapped         int              `json:"unmapped"`
	ByStrategy       map[string]int   `json:"by_strategy"`
	ByLineItem       map[LineItem]int `json:"by_line_item"`
	UnmappedAccounts []string         `json:"unmapped_accounts,omitempty"`
}

// NewClassificationStats creates an empty ClassificationStats.
func NewClassificationStats() *ClassificationStats {
	return &ClassificationStats{
		ByStrategy: map[string]int{},
		ByLineItem: map[LineItem]int{},
	}
}

// Add counts one classified row.
func (cs *ClassificationStats) Add(row ClassifiedRow) {
	cs.Total++
	cs.ByLineItem[row.LineItem]++
	if row.LineItem == LineItemUnmapped {
		cs.Unmapped++
		account := fmt.Sprintf("%s %s", row.Text(ColumnAccountNumber), row.AccountName)
		for _, a := range cs.UnmappedAccounts {
			if a == account {
				return
			}
		}
		cs.UnmappedAccounts = append(cs.UnmappedAccounts, account)
		sort.Strings(cs.UnmappedAccounts)
		return
	}
	cs.Mapped++
	cs.ByStrategy[row.Strategy]++
}

// GetMappedRate returns the mapped share as a percentage
func (cs ClassificationStats) GetMappedRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Mapped) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of classification statistics
func (cs ClassificationStats) LogSummary(logger logging.Logger, source Source) {
	if logger == nil {
		return
	}

	logger.Info("Classification summary",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: "total_rows", Value: cs.Total},
		logging.Field{Key: "mapped", Value: cs.Mapped},
		logging.Field{Key: "unmapped", Value: cs.Unmapped},
		logging.Field{Key: "mapped_rate", Value: cs.GetMappedRate()},
	)
}
