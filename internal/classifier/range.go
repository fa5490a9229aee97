package classifier

import (
	"fmt"
	"sort"

	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
)

// RangeStrategy classifies by account number against non-overlapping
// inclusive ranges.
type RangeStrategy struct {
	ranges []models.RangeRule
}

// NewRangeStrategy sorts and checks the ranges. Overlapping or inverted
// ranges and unknown line items are rejected.
func NewRangeStrategy(rules []models.RangeRule) (*RangeStrategy, error) {
	ranges := make([]models.RangeRule, len(rules))
	copy(ranges, rules)
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Min < ranges[j].Min })

	for i, r := range ranges {
		if !r.LineItem.Valid() || r.LineItem == models.LineItemUnmapped {
			return nil, &parsererror.ClassificationError{
				Rule: string(r.LineItem),
				Err:  fmt.Errorf("unknown line item"),
			}
		}
		if r.Min > r.Max {
			return nil, &parsererror.ClassificationError{
				Rule: string(r.LineItem),
				Err:  fmt.Errorf("range %d-%d is inverted", r.Min, r.Max),
			}
		}
		if i > 0 && r.Min <= ranges[i-1].Max {
			prev := ranges[i-1]
			return nil, &parsererror.ClassificationError{
				Rule: string(r.LineItem),
				Err: fmt.Errorf("range %d-%d overlaps %s %d-%d",
					r.Min, r.Max, prev.LineItem, prev.Min, prev.Max),
			}
		}
	}
	return &RangeStrategy{ranges: ranges}, nil
}

// Name returns the name of this strategy.
func (s *RangeStrategy) Name() string {
	return models.StrategyRange
}

// Classify finds the range containing the row's account number.
func (s *RangeStrategy) Classify(row models.LedgerRow) (models.LineItem, bool) {
	if !row.HasAccountNumber() {
		return models.LineItemUnmapped, false
	}
	n := row.AccountNumber
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].Max >= n })
	if i < len(s.ranges) && s.ranges[i].Min <= n {
		return s.ranges[i].LineItem, true
	}
	return models.LineItemUnmapped, false
}
