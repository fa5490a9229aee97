package normalizer

import (
	"testing"
	"time"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return New(nil, "USD", logging.NewMockLogger())
}

func TestResolve_HeaderVariants(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		header   string
		expected models.Column
	}{
		{"TxnDate", models.ColumnPeriodDate},
		{"Transaction_Date", models.ColumnPeriodDate},
		{" DATE ", models.ColumnPeriodDate},
		{"TransDate", models.ColumnPeriodDate},
		{"AccountNumber", models.ColumnAccountNumber},
		{"Acct_Num", models.ColumnAccountNumber},
		{"acct num", models.ColumnAccountNumber},
		{"Account", models.ColumnAccountNumber},
		{"Account_Name", models.ColumnAccountName},
		{"Description", models.ColumnAccountName},
		{"DR", models.ColumnDebit},
		{"cr", models.ColumnCredit},
		{"Transaction ID", models.ColumnTransactionID},
		{"TxnID", models.ColumnTransactionID},
		{"GLID", models.ColumnTransactionID},
		{"Currency", models.ColumnCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			col, ok := n.Resolve(tt.header)
			require.True(t, ok)
			assert.Equal(t, tt.expected, col)
		})
	}

	_, ok := n.Resolve("Memo")
	assert.False(t, ok)
}

func TestNormalize_MapsColumnsAndParsesCells(t *testing.T) {
	raw := &models.RawTable{
		Name:    "tb.csv",
		Headers: []string{"Memo", "CR", "Acct_Num", "Account Name", "DR", "TransDate"},
		Records: [][]string{
			{"opening", "", "1000", "Cash", "1,250.50", "2023-12-31"},
			{"", "1250.50", "4000.0", "Revenue", "", "12/31/2023"},
			{"", "", "", "", "", ""},
		},
	}

	table, err := newTestNormalizer().Normalize(raw, models.SourceTB)
	require.NoError(t, err)

	assert.Equal(t, models.SourceTB, table.Source)
	assert.Empty(t, table.MissingColumns())
	assert.False(t, table.HasColumn(models.ColumnTransactionID))
	assert.False(t, table.HasColumn(models.ColumnCurrency))
	assert.Equal(t, "Acct_Num", table.Header(models.ColumnAccountNumber))
	require.Len(t, table.Rows, 2, "blank record is skipped")

	cash := table.Rows[0]
	assert.Equal(t, 2, cash.Line)
	assert.Equal(t, 1000, cash.AccountNumber)
	assert.Equal(t, "Cash", cash.AccountName)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(cash.Debit))
	assert.True(t, cash.Credit.IsZero())
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), cash.PeriodDate)
	assert.Equal(t, "USD", cash.Currency)
	assert.Equal(t, "1,250.50", cash.Text(models.ColumnDebit))

	revenue := table.Rows[1]
	assert.Equal(t, 4000, revenue.AccountNumber)
	assert.True(t, revenue.HasDate())
	assert.Equal(t, cash.PeriodDate, revenue.PeriodDate)
}

func TestNormalize_RecordsInvalidCells(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Date", "Account", "Account_Name", "Debit", "Credit", "Currency"},
		Records: [][]string{
			{"someday", "ABC", "Mystery", "ten", "0", "eur"},
			{"", "", "Blank", "5", "", ""},
		},
	}

	logger := logging.NewMockLogger()
	table, err := New(nil, "USD", logger).Normalize(raw, models.SourceGL)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	entries := logger.GetEntriesByLevel("DEBUG")
	var parseErr *parsererror.ParseError
	for _, e := range entries {
		if e.Message == "Unparseable amount" {
			require.ErrorAs(t, e.Error, &parseErr)
		}
	}
	require.NotNil(t, parseErr)
	assert.Equal(t, "debit", parseErr.Field)
	assert.Equal(t, "ten", parseErr.Value)

	bad := table.Rows[0]
	assert.True(t, bad.Invalid.Has(models.ColumnPeriodDate))
	assert.True(t, bad.Invalid.Has(models.ColumnAccountNumber))
	assert.True(t, bad.Invalid.Has(models.ColumnDebit))
	assert.False(t, bad.Invalid.Has(models.ColumnCredit))
	assert.False(t, bad.HasDate())
	assert.False(t, bad.HasAccountNumber())
	assert.True(t, bad.Debit.IsZero())
	assert.Equal(t, "EUR", bad.Currency)

	blank := table.Rows[1]
	assert.False(t, blank.HasDate())
	assert.False(t, blank.Invalid.Has(models.ColumnPeriodDate), "missing is not invalid")
	assert.False(t, blank.HasAccountNumber())
	assert.Equal(t, "USD", blank.Currency)
}

func TestNormalize_FirstDuplicateHeaderWins(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Account Name", "Description", "Account", "Debit", "Credit", "Date"},
		Records: [][]string{{"Cash", "Main bank account", "1000", "1", "0", "2023-01-01"}},
	}

	table, err := newTestNormalizer().Normalize(raw, models.SourceTB)
	require.NoError(t, err)
	assert.Equal(t, "Cash", table.Rows[0].AccountName)
	assert.Equal(t, "Account Name", table.Header(models.ColumnAccountName))
}

func TestNormalize_ShortRecordsAndMissingColumns(t *testing.T) {
	raw := &models.RawTable{
		Headers: []string{"Account", "Debit"},
		Records: [][]string{{"1000"}},
	}

	table, err := newTestNormalizer().Normalize(raw, models.SourceTB)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Column{
		models.ColumnAccountName, models.ColumnCredit, models.ColumnPeriodDate,
	}, table.MissingColumns())
	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].Debit.IsZero())
}

func TestNormalize_NoHeader(t *testing.T) {
	_, err := newTestNormalizer().Normalize(&models.RawTable{Name: "empty.csv"}, models.SourceTB)
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "empty.csv", formatErr.FilePath)
}

func TestSynonymsMerge(t *testing.T) {
	extra := Synonyms{models.ColumnDebit: {"Soll"}, models.ColumnCredit: {"Haben"}}
	n := New(DefaultSynonyms().Merge(extra), "CHF", nil)

	col, ok := n.Resolve("SOLL")
	require.True(t, ok)
	assert.Equal(t, models.ColumnDebit, col)

	col, ok = n.Resolve("haben")
	require.True(t, ok)
	assert.Equal(t, models.ColumnCredit, col)

	assert.NotContains(t, DefaultSynonyms()[models.ColumnDebit], "Soll", "merge must not mutate the receiver")
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "acctnum", HeaderKey(" Acct_Num "))
	assert.Equal(t, "acctnum", HeaderKey("ACCT-NUM"))
	assert.Equal(t, "", HeaderKey("  "))
}
