package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	err := errors.New("bad row")

	mock.WithField(FieldSource, "gl").WithError(err).Warn("row skipped", F(FieldRows, 3))
	mock.Info("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, err, entries[0].Error)
	assert.Equal(t, []Field{{Key: FieldSource, Value: "gl"}, {Key: FieldRows, Value: 3}}, entries[0].Fields)
	assert.Nil(t, entries[1].Error)
	assert.Empty(t, entries[1].Fields)

	assert.True(t, mock.HasEntry("INFO", "done"))
	assert.False(t, mock.HasEntry("ERROR", "done"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	v, ok := mock.FieldValue("row skipped", FieldRows)
	require.True(t, ok)
	assert.Equal(t, 3, v)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Fatalf("exit %d", 1)
	assert.True(t, mock.HasEntry("FATAL", "exit 1"))
}
