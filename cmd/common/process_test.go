package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTableReader implements common.TableReader for testing
type MockTableReader struct {
	mock.Mock
}

func (m *MockTableReader) ReadFile(path string) (*models.RawTable, error) {
	args := m.Called(path)
	table, _ := args.Get(0).(*models.RawTable)
	return table, args.Error(1)
}

func TestReadInputs(t *testing.T) {
	tb := &models.RawTable{Name: "tb.csv"}
	gl := &models.RawTable{Name: "gl.csv"}

	t.Run("both files", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("ReadFile", "tb.csv").Return(tb, nil).Once()
		reader.On("ReadFile", "gl.csv").Return(gl, nil).Once()
		logger := logging.NewMockLogger()

		in, err := common.ReadInputs(reader, common.InputFiles{TB: "tb.csv", GL: "gl.csv", Mode: "tb+gl"}, logger)
		require.NoError(t, err)
		assert.Same(t, tb, in.TB)
		assert.Same(t, gl, in.GL)
		assert.Equal(t, models.ModeTBAndGL, in.Mode)
		assert.True(t, logger.HasEntry("INFO", "Reading trial balance"))
		reader.AssertExpectations(t)
	})

	t.Run("general ledger only", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("ReadFile", "gl.csv").Return(gl, nil).Once()

		in, err := common.ReadInputs(reader, common.InputFiles{GL: "gl.csv"}, logging.Discard())
		require.NoError(t, err)
		assert.Nil(t, in.TB)
		assert.Equal(t, models.InputMode(""), in.Mode)
		reader.AssertNotCalled(t, "ReadFile", "")
	})

	t.Run("no files", func(t *testing.T) {
		_, err := common.ReadInputs(new(MockTableReader), common.InputFiles{}, logging.Discard())
		assert.ErrorContains(t, err, "--tb or --gl")
	})

	t.Run("read error", func(t *testing.T) {
		reader := new(MockTableReader)
		boom := errors.New("permission denied")
		reader.On("ReadFile", "tb.csv").Return(nil, boom)

		_, err := common.ReadInputs(reader, common.InputFiles{TB: "tb.csv"}, logging.Discard())
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "reading trial balance")
	})

	t.Run("bad mode", func(t *testing.T) {
		reader := new(MockTableReader)
		reader.On("ReadFile", "tb.csv").Return(tb, nil)

		_, err := common.ReadInputs(reader, common.InputFiles{TB: "tb.csv", Mode: "quarterly"}, logging.Discard())
		assert.ErrorContains(t, err, "unknown input mode")
	})
}

func TestRunOptions(t *testing.T) {
	fallback := models.NewRemedySet(models.RemedyDropDuplicateRows)

	tests := []struct {
		name         string
		remedies     []string
		scale        string
		wantRemedies []models.Remedy
		wantScale    decimal.Decimal
		wantErr      string
	}{
		{
			name:         "flag unset uses fallback",
			wantRemedies: []models.Remedy{models.RemedyDropDuplicateRows},
		},
		{
			name:     "none disables remedies",
			remedies: []string{"none"},
		},
		{
			name:         "explicit list",
			remedies:     []string{"drop_row", "make_nonnegative"},
			scale:        "1000",
			wantRemedies: []models.Remedy{models.RemedyMakeNonNegative, models.RemedyDropRow},
			wantScale:    decimal.NewFromInt(1000),
		},
		{
			name:         "all",
			remedies:     []string{"all"},
			wantRemedies: models.RemedyOrder,
		},
		{
			name:     "unknown remedy",
			remedies: []string{"rewrite_history"},
			wantErr:  "unknown remedy",
		},
		{
			name:    "zero scale",
			scale:   "0",
			wantErr: "--scale must be a positive number",
		},
		{
			name:    "not a number",
			scale:   "thousand",
			wantErr: "--scale must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := common.RunOptions(tt.remedies, tt.scale, fallback)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemedies, opts.Remedies.List())
			assert.True(t, tt.wantScale.Equal(opts.UnitScale), "scale %s", opts.UnitScale)
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		outputDir string
		want      string
	}{
		{"explicit file wins", "report.json", "out", "report.json"},
		{"directory derives name", "", "out", filepath.Join("out", "tb_2023_statements.json")},
		{"stdout", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, common.OutputPath(tt.output, tt.outputDir, "data/tb_2023.csv", "statements", ".json"))
		})
	}
}

func TestWriteOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, common.WriteOutput(&buf, []byte("hello"), "-", logging.Discard()))
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("file", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewMockLogger()
		path := filepath.Join(t.TempDir(), "nested", "report.txt")

		require.NoError(t, common.WriteOutput(&buf, []byte("hello"), path, logger))
		assert.Empty(t, buf.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
		assert.True(t, logger.HasEntry("INFO", "Report written"))
	})
}
