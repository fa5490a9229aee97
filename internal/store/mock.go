package store

import (
	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/models"
)

// RuleLoader is implemented by RuleStore and MockRuleStore.
type RuleLoader interface {
	LoadRules() (*models.ClassificationRules, error)
}

// MockRuleStore is a mock implementation of RuleLoader for testing.
type MockRuleStore struct {
	Rules          *models.ClassificationRules
	LoadRulesError error
}

// LoadRules returns the mock rules, or the defaults when none are set.
func (m *MockRuleStore) LoadRules() (*models.ClassificationRules, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	if m.Rules == nil {
		return classifier.DefaultRules(), nil
	}
	return m.Rules, nil
}
