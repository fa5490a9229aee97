package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		tb, gl  bool
		want    InputMode
		wantErr bool
	}{
		{true, false, ModeTBOnly, false},
		{false, true, ModeGLOnly, false},
		{true, true, ModeTBAndGL, false},
		{false, false, "", true},
	}
	for _, tt := range tests {
		got, err := ModeFor(tt.tb, tt.gl)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseInputMode(t *testing.T) {
	for input, want := range map[string]InputMode{
		"tb":             ModeTBOnly,
		"Trial-Balance":  ModeTBOnly,
		"general_ledger": ModeGLOnly,
		" tb+gl ":        ModeTBAndGL,
		"both":           ModeTBAndGL,
	} {
		got, err := ParseInputMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseInputMode("ap")
	assert.Error(t, err)
}

func TestPolicy(t *testing.T) {
	tb := ModeTBOnly.Policy()
	assert.Equal(t, SourceTB, tb.StatementSource)
	assert.Equal(t, StatusComplete, tb.BalanceSheet)
	assert.Empty(t, tb.Note)

	gl := ModeGLOnly.Policy()
	assert.Equal(t, SourceGL, gl.StatementSource)
	assert.Equal(t, StatusIncomplete, gl.BalanceSheet)
	assert.Equal(t, StatusIncomplete, gl.CashFlow)
	assert.NotEmpty(t, gl.Note)

	both := ModeTBAndGL.Policy()
	assert.Equal(t, SourceTB, both.StatementSource)
	assert.Equal(t, []Source{SourceTB, SourceGL}, both.Validated)
	assert.True(t, ModeTBAndGL.Valid())
	assert.False(t, InputMode("ap").Valid())
}

func TestStatement_Value(t *testing.T) {
	st := Statement{
		Kind:    StatementIncome,
		Status:  StatusComplete,
		Periods: []string{"2022", "2023"},
		Lines: []StatementLine{
			{Key: LineNetIncome, Values: []decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(7)}},
		},
	}

	v, ok := st.Value(LineNetIncome, "2023")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(7).Equal(v))

	_, ok = st.Value(LineNetIncome, "2021")
	assert.False(t, ok)
	_, ok = st.Value(LineGrossProfit, "2023")
	assert.False(t, ok)

	assert.True(t, st.Available())
	assert.False(t, (&Statement{Status: StatusUnavailable, Periods: []string{"2023"}}).Available())
	assert.Equal(t, "change_inventory", ChangeLine(LineItemInventory))
}

func TestReconciliation(t *testing.T) {
	rec := NewReconciliation(SourceTB, 10)
	rec.Record(RemedyDropRow, 0, "nothing")
	assert.Empty(t, rec.Changes)

	rec.Record(RemedyDropDuplicateRows, 2, "removed %d duplicate row(s)", 2)
	rec.Removed += 2
	rec.CorrectedRows -= 2
	rec.Modified++

	assert.Equal(t, 3, rec.Changed())
	assert.Equal(t, 2, rec.Applied[RemedyDropDuplicateRows])
	assert.Equal(t, []string{"removed 2 duplicate row(s)"}, rec.Changes)

	var zero Reconciliation
	zero.Record(RemedyDropRow, 1, "dropped")
	assert.Equal(t, 1, zero.Applied[RemedyDropRow])
}
