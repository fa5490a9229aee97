package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-statements/internal/config"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)
	return cfg
}

func TestNewContainer(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		c, err := NewContainer(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration cannot be nil")
		assert.Nil(t, c)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := testConfig(t)
		c, err := NewContainer(cfg)
		require.NoError(t, err)
		require.NotNil(t, c)

		assert.NotNil(t, c.GetLogger())
		assert.Same(t, cfg, c.GetConfig())
		assert.NotNil(t, c.GetStore())
		assert.NotNil(t, c.GetRules())
		assert.NotNil(t, c.GetReader())
		assert.NotNil(t, c.GetNormalizer())
		assert.NotNil(t, c.GetValidator())
		assert.NotNil(t, c.GetClassifier())
		assert.NotNil(t, c.GetPipeline())
		assert.NotNil(t, c.GetReportGenerator())
		assert.Equal(t, []string{"detector", "alias", "range"}, c.GetClassifier().Strategies())
		assert.NoError(t, c.Close())
	})
}

func TestNewContainer_AppliesConfiguration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reporting.Currency = "EUR"
	cfg.Validation.ToleranceAbs = 5
	cfg.Classification.Precedence = []string{"range"}

	logger := logging.NewMockLogger()
	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)

	assert.Equal(t, "EUR", c.GetValidator().Options().ReportingCurrency)
	assert.Equal(t, "5", c.GetValidator().Options().ToleranceAbs.String())
	assert.Equal(t, []string{"range"}, c.GetClassifier().Strategies())
	assert.True(t, logger.HasEntry("INFO", "Container initialized successfully"))
}

func TestNewContainer_RulesFileSynonyms(t *testing.T) {
	cfg := testConfig(t)
	rulesFile := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("synonyms:\n  debit: [soll]\n  credit: [haben]\n"), 0600))
	cfg.Classification.RulesFile = rulesFile

	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	col, ok := c.GetNormalizer().Resolve("Soll")
	require.True(t, ok)
	assert.Equal(t, models.ColumnDebit, col)

	result, err := c.GetPipeline().Process(pipeline.Input{TB: &models.RawTable{
		Name:    "tb.csv",
		Headers: []string{"Date", "Account", "Name", "Soll", "Haben"},
		Records: [][]string{
			{"2023-12-31", "1000", "Cash", "100", "0"},
			{"2023-12-31", "4000", "Revenue", "0", "100"},
		},
	}}, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2023"}, result.Statements.Periods)
}

func TestNewContainer_InvalidRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown synonym column", "synonyms:\n  memo: [note]\n", "unknown column"},
		{"overlapping ranges", "ranges:\n  - {line_item: cash, min: 1, max: 10}\n  - {line_item: revenue, min: 5, max: 20}\n", "classifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			rulesFile := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(rulesFile, []byte(tt.content), 0600))
			cfg.Classification.RulesFile = rulesFile

			_, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("missing configured file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Classification.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load classification rules")
	})
}

func TestNewContainerWithLoader(t *testing.T) {
	cfg := testConfig(t)

	t.Run("mock rules", func(t *testing.T) {
		rules := &models.ClassificationRules{
			Precedence: []string{"range"},
			Ranges:     []models.RangeRule{{LineItem: models.LineItemCash, Min: 1000, Max: 1099}},
		}
		c, err := NewContainerWithLoader(cfg, logging.NewMockLogger(), &store.MockRuleStore{Rules: rules})
		require.NoError(t, err)
		assert.Same(t, rules, c.GetRules())
		assert.NotNil(t, c.GetStore())
		assert.Equal(t, []string{"range"}, c.GetClassifier().Strategies())
	})

	t.Run("load failure", func(t *testing.T) {
		loader := &store.MockRuleStore{LoadRulesError: errors.New("disk on fire")}
		_, err := NewContainerWithLoader(cfg, logging.NewMockLogger(), loader)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load classification rules: disk on fire")
	})
}
