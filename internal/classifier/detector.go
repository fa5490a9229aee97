package classifier

import (
	"fmt"
	"strings"

	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
)

// DetectorStrategy applies keyword detectors in order. Keywords are matched
// as substrings of the normalized name, so "salar" covers "salary" and
// "salaries".
type DetectorStrategy struct {
	detectors []models.DetectorRule
}

// NewDetectorStrategy validates and normalizes the detector rules.
func NewDetectorStrategy(rules []models.DetectorRule) (*DetectorStrategy, error) {
	detectors := make([]models.DetectorRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.LineItem.Valid() || rule.LineItem == models.LineItemUnmapped {
			return nil, &parsererror.ClassificationError{
				Rule: rule.Name,
				Err:  fmt.Errorf("unknown line item %q", rule.LineItem),
			}
		}
		if len(rule.AllOf) == 0 {
			return nil, &parsererror.ClassificationError{
				Rule: rule.Name,
				Err:  fmt.Errorf("detector needs at least one keyword group"),
			}
		}
		d := models.DetectorRule{Name: rule.Name, LineItem: rule.LineItem}
		for _, group := range rule.AllOf {
			d.AllOf = append(d.AllOf, lowerAll(group))
		}
		d.NoneOf = lowerAll(rule.NoneOf)
		detectors = append(detectors, d)
	}
	return &DetectorStrategy{detectors: detectors}, nil
}

// Name returns the name of this strategy.
func (s *DetectorStrategy) Name() string {
	return models.StrategyDetector
}

// Classify returns the line item of the first detector that fires.
func (s *DetectorStrategy) Classify(row models.LedgerRow) (models.LineItem, bool) {
	name := NormalizeName(row.AccountName)
	if name == "" {
		return models.LineItemUnmapped, false
	}
	for _, d := range s.detectors {
		if containsAny(name, d.NoneOf) {
			continue
		}
		matched := true
		for _, group := range d.AllOf {
			if !containsAny(name, group) {
				matched = false
				break
			}
		}
		if matched {
			return d.LineItem, true
		}
	}
	return models.LineItemUnmapped, false
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
