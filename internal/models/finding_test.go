package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Text(t *testing.T) {
	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityCritical} {
		text, err := sev.MarshalText()
		require.NoError(t, err)

		var back Severity
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, sev, back)
	}

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}

func TestParseRemedySet(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Remedy
		wantErr string
	}{
		{"empty", nil, nil, ""},
		{"comma separated", []string{"drop_row, make_nonnegative"}, []Remedy{RemedyMakeNonNegative, RemedyDropRow}, ""},
		{"repeated flags", []string{"drop_row", "drop_duplicate_rows"}, []Remedy{RemedyDropDuplicateRows, RemedyDropRow}, ""},
		{"all", []string{"ALL"}, RemedyOrder, ""},
		{"case insensitive", []string{"Map_Unclassified"}, []Remedy{RemedyMapUnclassified}, ""},
		{"unknown", []string{"drop_row,shred"}, nil, `unknown remedy "shred"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseRemedySet(tt.input)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.List())
		})
	}
}

func TestNewRemedySet_IgnoresNone(t *testing.T) {
	set := NewRemedySet(RemedyNone, RemedyDropRow)
	assert.True(t, set.Has(RemedyDropRow))
	assert.False(t, set.Has(RemedyNone))
	assert.Len(t, set, 1)
}

func TestFindings_Queries(t *testing.T) {
	fs := Findings{
		{Kind: KindZeroRow, Severity: SeverityInfo, Remedy: RemedyDropRow},
		{Kind: KindPeriodImbalance, Severity: SeverityCritical},
		{Kind: KindDuplicateRows, Severity: SeverityWarning, Remedy: RemedyDropDuplicateRows},
		{Kind: KindTransactionImbalance, Severity: SeverityCritical},
	}

	assert.True(t, fs.HasCritical())
	assert.Len(t, fs.Critical(), 2)
	assert.Len(t, fs.ByKind(KindDuplicateRows), 1)
	assert.Equal(t, map[Severity]int{SeverityInfo: 1, SeverityWarning: 1, SeverityCritical: 2}, fs.Counts())

	sorted := fs.Sorted()
	assert.Equal(t, KindPeriodImbalance, sorted[0].Kind)
	assert.Equal(t, KindTransactionImbalance, sorted[1].Kind)
	assert.Equal(t, KindDuplicateRows, sorted[2].Kind)
	assert.Equal(t, KindZeroRow, sorted[3].Kind)
	assert.Equal(t, KindZeroRow, fs[0].Kind, "Sorted must not reorder the receiver")

	assert.True(t, fs[0].Fixable())
	assert.False(t, fs[1].Fixable())
	assert.False(t, Findings{fs[0]}.HasCritical())
}

func TestFinding_JSON(t *testing.T) {
	f := Finding{
		Kind:     KindInvalidDate,
		Severity: SeverityWarning,
		Source:   SourceGL,
		Field:    ColumnPeriodDate,
		Rows:     []int{3},
		Summary:  "1 row(s) have an unparseable period_date",
	}
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"warning"`)
	assert.Contains(t, string(data), `"field":"period_date"`)

	var back Finding
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, f, back)
	assert.Equal(t, "[warning] gl/invalid_date: 1 row(s) have an unparseable period_date", f.String())
}
