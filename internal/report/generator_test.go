package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/fin-statements/internal/autofix"
	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/normalizer"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/statements"
	"fjacquet/fin-statements/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tbHeaders = []string{"period_date", "account_number", "account_name", "debit", "credit"}

func runPipeline(t *testing.T, records ...[]string) *pipeline.Result {
	t.Helper()
	logger := logging.NewMockLogger()
	vopts := validator.DefaultOptions()
	vopts.Now = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c, err := classifier.New(classifier.DefaultRules(), logger)
	require.NoError(t, err)

	p := pipeline.New(normalizer.New(nil, "USD", logger), validator.New(vopts, logger), autofix.New(logger), c,
		statements.DefaultOptions(), true, logger)
	result, err := p.Process(pipeline.Input{TB: &models.RawTable{Name: "tb.csv", Headers: tbHeaders, Records: records}}, pipeline.Options{})
	if err != nil {
		_, blocked := parsererror.IsBlocked(err)
		require.True(t, blocked, "unexpected error: %v", err)
	}
	return result
}

func twoYears(t *testing.T) *pipeline.Result {
	return runPipeline(t,
		[]string{"2022-12-31", "1000", "Cash", "100", "0"},
		[]string{"2022-12-31", "3000", "Common Stock", "0", "100"},
		[]string{"2023-12-31", "1000", "Cash", "250", "0"},
		[]string{"2023-12-31", "3000", "Common Stock", "0", "100"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "150"},
	)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	assert.Equal(t, ".txt", FormatText.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}

func TestGenerateReport_JSON(t *testing.T) {
	result := twoYears(t)
	out, err := NewGenerator(',', logging.NewMockLogger()).GenerateReport(result, FormatJSON)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, result.RunID, doc["run_id"])
	assert.Equal(t, "tb", doc["mode"])
	assert.Equal(t, false, doc["blocked"])

	st, ok := doc["statements"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"2022", "2023"}, st["periods"])
	cf := st["cash_flow"].(map[string]interface{})
	assert.Equal(t, "complete", cf["status"])
}

func TestGenerateReport_JSONBlocked(t *testing.T) {
	result := runPipeline(t,
		[]string{"2023-12-31", "1000", "Cash", "100", "0"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "110"},
	)
	out, err := NewGenerator(',', nil).GenerateReport(result, FormatJSON)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.True(t, doc.Blocked)
	assert.Nil(t, doc.Statements)
	require.Len(t, doc.Blocking, 1)
	assert.Equal(t, models.KindPeriodImbalance, doc.Blocking[0].Kind)
	assert.Equal(t, models.SeverityCritical, doc.Blocking[0].Severity)
	assert.Equal(t, 1, doc.Counts["critical"])
}

func TestGenerateReport_CSV(t *testing.T) {
	result := twoYears(t)
	out, err := NewGenerator(';', nil).GenerateReport(result, FormatCSV)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"statement", "status", "period", "line", "label", "value", "unit"}, records[0])

	var found bool
	for _, rec := range records[1:] {
		if rec[0] == "balance_sheet" && rec[2] == "2023" && rec[3] == "cash" {
			assert.Equal(t, "250.00", rec[5])
			assert.Equal(t, "units", rec[6])
			found = true
		}
	}
	assert.True(t, found, "cash line for 2023 not found")
}

func TestWriteFindingsCSV(t *testing.T) {
	findings := models.Findings{
		{Kind: models.KindZeroRow, Severity: models.SeverityInfo, Source: models.SourceTB, Summary: "zero"},
		{
			Kind:     models.KindNegativeAmount,
			Severity: models.SeverityCritical,
			Source:   models.SourceTB,
			Field:    models.ColumnDebit,
			Rows:     []int{0, 3},
			Remedy:   models.RemedyMakeNonNegative,
			Summary:  "negative debit",
			Sample:   []models.SampleRow{{Line: 2}, {Line: 5}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewGenerator(',', nil).WriteFindingsCSV(&buf, findings))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"tb", "critical", "negative_amount", "debit", "2", "2 5", "make_nonnegative", "negative debit"}, records[1])
	assert.Equal(t, "info", records[2][1])
	assert.Equal(t, "", records[2][3])
}

func TestWriteMappingsCSV(t *testing.T) {
	mappings := []classifier.Mapping{
		{AccountNumber: "1000", AccountName: "Cash", LineItem: models.LineItemCash, Strategy: models.StrategyAlias, Rows: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, NewGenerator(',', nil).WriteMappingsCSV(&buf, mappings))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "account_number,account_name,line_item,strategy,rows", lines[0])
	assert.Equal(t, "1000,Cash,cash,alias,2", lines[1])
}

func TestGenerateReport_Text(t *testing.T) {
	result := twoYears(t)
	out, err := NewGenerator(',', nil).GenerateReport(result, FormatText)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Run "+result.RunID+" (mode tb)")
	assert.Contains(t, text, "Income Statement (complete, units)")
	assert.Contains(t, text, "Balance Sheet (complete, units)")
	assert.Contains(t, text, "Cash Flow Statement (complete, units)")
	assert.Contains(t, text, "250.00")
	assert.Contains(t, text, "classification: 5 of 5 rows mapped")
}

func TestGenerateReport_TextAmountFormat(t *testing.T) {
	result := runPipeline(t,
		[]string{"2023-12-31", "1000", "Cash", "1250000", "0"},
		[]string{"2023-12-31", "1590", "Accumulated Depreciation", "0", "250000"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "1000000"},
	)
	out, err := NewGenerator(',', nil).GenerateReport(result, FormatText)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "1,250,000.00")
	assert.Contains(t, text, "(250,000.00)")
	assert.NotContains(t, text, "-250000.00")
}

func TestGenerateReport_TextSinglePeriod(t *testing.T) {
	result := runPipeline(t,
		[]string{"2023-12-31", "1000", "Cash", "100", "0"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "100"},
	)
	out, err := NewGenerator(',', nil).GenerateReport(result, FormatText)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Cash Flow Statement (unavailable, units)")
	assert.Contains(t, string(out), result.Statements.CashFlow.Note)
}

func TestGenerateReport_Errors(t *testing.T) {
	g := NewGenerator(',', nil)

	_, err := g.GenerateReport(nil, FormatJSON)
	assert.Error(t, err)

	_, err = g.GenerateReport(twoYears(t), Format("xml"))
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)
}
