package autofix

import (
	"testing"
	"time"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/normalizer"
	"fjacquet/fin-statements/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headers = []string{"period_date", "account_number", "account_name", "debit", "credit"}

func buildTable(t *testing.T, records ...[]string) *models.LedgerTable {
	t.Helper()
	table, err := normalizer.New(nil, "USD", nil).Normalize(&models.RawTable{
		Name:    "tb.csv",
		Headers: headers,
		Records: records,
	}, models.SourceTB)
	require.NoError(t, err)
	return table
}

func validate(table *models.LedgerTable) models.Findings {
	opts := validator.DefaultOptions()
	opts.Now = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	return validator.New(opts, nil).Validate(table)
}

func dirtyTable(t *testing.T) *models.LedgerTable {
	return buildTable(t,
		[]string{"2023-12-31", "1000", "Cash", "100", "0"},
		[]string{"2023-12-31", "1000", "Cash", "100", "0"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "-105"},
		[]string{"2023-12-31", "", "Suspense", "5", "0"},
		[]string{"2023-12-31", "6000", "Rent", "0", "0"},
		[]string{"bad date", "6100", "Travel", "7", "0"},
		[]string{"2023-12-31", "6200", "Office", "x", "0"},
	)
}

func TestApply_EmptySelectionIsIdentity(t *testing.T) {
	table := dirtyTable(t)
	findings := validate(table)
	require.NotEmpty(t, findings)

	fixed, rec := New(logging.NewMockLogger()).Apply(table, findings, models.NewRemedySet())

	assert.Equal(t, table.Rows, fixed.Rows)
	assert.Equal(t, table.Columns, fixed.Columns)
	assert.Zero(t, rec.Changed())
	assert.Equal(t, table.Len(), rec.OriginalRows)
	assert.Equal(t, table.Len(), rec.CorrectedRows)
	assert.Empty(t, rec.Changes)
}

func TestApply_AllRemedies(t *testing.T) {
	table := dirtyTable(t)
	before := table.Clone()
	findings := validate(table)

	fixed, rec := New(nil).Apply(table, findings, models.NewRemedySet(models.RemedyOrder...))

	assert.Equal(t, before, table, "input table is not modified")

	// duplicate cash, zero rent, bad date and bad amount rows are removed
	require.Len(t, fixed.Rows, 3)
	assert.Equal(t, []int{2, 4, 5}, []int{fixed.Rows[0].Line, fixed.Rows[1].Line, fixed.Rows[2].Line})

	revenue := fixed.Rows[1]
	assert.True(t, decimal.NewFromInt(105).Equal(revenue.Credit))
	assert.Equal(t, "105", revenue.Text(models.ColumnCredit))

	suspense := fixed.Rows[2]
	assert.Equal(t, UnclassifiedAccount, suspense.AccountNumber)
	assert.True(t, suspense.HasAccountNumber())

	assert.Equal(t, 7, rec.OriginalRows)
	assert.Equal(t, 3, rec.CorrectedRows)
	assert.Equal(t, 4, rec.Removed)
	assert.Equal(t, 2, rec.Modified)
	assert.Equal(t, 1, rec.Applied[models.RemedyDropDuplicateRows])
	assert.Equal(t, 1, rec.Applied[models.RemedyMakeNonNegative])
	assert.Equal(t, 1, rec.Applied[models.RemedyMapUnclassified])
	assert.Equal(t, 3, rec.Applied[models.RemedyDropRow])
	assert.Len(t, rec.Changes, 6)
	assert.Contains(t, rec.Changes[0], "duplicate")

	remaining := validate(fixed)
	assert.False(t, remaining.HasCritical(), "remaining: %v", remaining)
}

func TestApply_OnlySelectedRemedies(t *testing.T) {
	table := dirtyTable(t)
	findings := validate(table)

	fixed, rec := New(nil).Apply(table, findings, models.NewRemedySet(models.RemedyDropDuplicateRows))

	assert.Len(t, fixed.Rows, 6)
	assert.Equal(t, 1, rec.Removed)
	assert.Zero(t, rec.Modified)
	assert.True(t, fixed.Rows[1].Credit.IsNegative())
}

func TestApply_DuplicatesKeepFirstOccurrence(t *testing.T) {
	table := buildTable(t,
		[]string{"2023-12-31", "1000", "Cash", "50", "0"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "50"},
		[]string{"2023-12-31", "1000", "Cash", "50", "0"},
		[]string{"2023-12-31", "1000", "Cash", "50", "0"},
	)
	findings := validate(table)
	dup := findings.ByKind(models.KindDuplicateRows)
	require.Len(t, dup, 1)
	assert.Equal(t, [][]int{{0, 2, 3}}, dup[0].Groups)

	fixed, rec := New(nil).Apply(table, findings, models.NewRemedySet(models.RemedyDropDuplicateRows))

	require.Len(t, fixed.Rows, 2)
	assert.Equal(t, 2, fixed.Rows[0].Line)
	assert.Equal(t, 3, fixed.Rows[1].Line)
	assert.Equal(t, 2, rec.Removed)

	// applying again changes nothing
	again, rec2 := New(nil).Apply(fixed, validate(fixed), models.NewRemedySet(models.RemedyDropDuplicateRows))
	assert.Equal(t, fixed.Rows, again.Rows)
	assert.Zero(t, rec2.Changed())
}

func TestApply_IgnoresOtherSourcesAndUnfixable(t *testing.T) {
	table := buildTable(t,
		[]string{"2023-12-31", "1000", "Cash", "100", "0"},
		[]string{"2023-12-31", "4000", "Revenue", "0", "110"},
	)
	findings := models.Findings{
		{Kind: models.KindPeriodImbalance, Severity: models.SeverityCritical, Source: models.SourceTB, Rows: []int{0, 1}},
		{Kind: models.KindZeroRow, Severity: models.SeverityWarning, Source: models.SourceGL, Rows: []int{0}, Remedy: models.RemedyDropRow},
		{Kind: models.KindZeroRow, Severity: models.SeverityWarning, Source: models.SourceTB, Rows: []int{7}, Remedy: models.RemedyDropRow},
	}

	fixed, rec := New(nil).Apply(table, findings, models.NewRemedySet(models.RemedyOrder...))
	assert.Len(t, fixed.Rows, 2)
	assert.Zero(t, rec.Changed())
}

func TestPlan_Order(t *testing.T) {
	findings := models.Findings{
		{Kind: models.KindInvalidDate, Source: models.SourceTB, Remedy: models.RemedyDropRow},
		{Kind: models.KindMissingAccountNumber, Source: models.SourceTB, Remedy: models.RemedyMapUnclassified},
		{Kind: models.KindZeroRow, Source: models.SourceTB, Remedy: models.RemedyDropRow},
		{Kind: models.KindNegativeAmount, Source: models.SourceTB, Remedy: models.RemedyMakeNonNegative},
		{Kind: models.KindDuplicateRows, Source: models.SourceTB, Remedy: models.RemedyDropDuplicateRows},
		{Kind: models.KindInvalidAmount, Source: models.SourceTB, Remedy: models.RemedyDropRow},
	}

	planned := plan(models.SourceTB, findings, models.NewRemedySet(models.RemedyOrder...))

	var kinds []models.FindingKind
	for _, f := range planned {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []models.FindingKind{
		models.KindDuplicateRows,
		models.KindNegativeAmount,
		models.KindMissingAccountNumber,
		models.KindZeroRow,
		models.KindInvalidAmount,
		models.KindInvalidDate,
	}, kinds)
}
