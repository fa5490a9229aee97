package classifier

import (
	"fmt"

	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
)

type alias struct {
	words    []string
	lineItem models.LineItem
	order    int
}

// AliasStrategy matches account names against alias phrases on word
// boundaries. The longest matching alias wins; ties go to the earlier rule.
type AliasStrategy struct {
	// byFirst indexes aliases by their first word.
	byFirst map[string][]alias
}

// NewAliasStrategy compiles the alias rules.
func NewAliasStrategy(rules []models.AliasRule) (*AliasStrategy, error) {
	s := &AliasStrategy{byFirst: map[string][]alias{}}
	order := 0
	for _, rule := range rules {
		if !rule.LineItem.Valid() || rule.LineItem == models.LineItemUnmapped {
			return nil, &parsererror.ClassificationError{
				Rule: string(rule.LineItem),
				Err:  fmt.Errorf("unknown line item"),
			}
		}
		for _, phrase := range rule.Aliases {
			words := tokens(phrase)
			if len(words) == 0 {
				continue
			}
			s.byFirst[words[0]] = append(s.byFirst[words[0]], alias{words: words, lineItem: rule.LineItem, order: order})
			order++
		}
	}
	return s, nil
}

// Name returns the name of this strategy.
func (s *AliasStrategy) Name() string {
	return models.StrategyAlias
}

// Classify returns the line item of the best alias found in the account name.
func (s *AliasStrategy) Classify(row models.LedgerRow) (models.LineItem, bool) {
	words := tokens(row.AccountName)
	var best *alias
	for i, w := range words {
		candidates := s.byFirst[w]
		for k := range candidates {
			a := &candidates[k]
			if !matchesAt(words, i, a.words) {
				continue
			}
			if best == nil || len(a.words) > len(best.words) ||
				(len(a.words) == len(best.words) && a.order < best.order) {
				best = a
			}
		}
	}
	if best == nil {
		return models.LineItemUnmapped, false
	}
	return best.lineItem, true
}

func matchesAt(words []string, at int, phrase []string) bool {
	if at+len(phrase) > len(words) {
		return false
	}
	for j, p := range phrase {
		if words[at+j] != p {
			return false
		}
	}
	return true
}
