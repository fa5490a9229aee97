package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/report"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanGL = `TxnDate,TxnID,Account,Description,DR,CR
2023-03-01,T1,1000,Cash,50,0
2023-03-01,T1,4000,Revenue,0,50
`

const imbalancedGL = `TxnDate,TxnID,Account,Description,DR,CR
2023-03-01,T1,1000,Cash,50,0
2023-03-01,T1,4000,Revenue,0,50
2023-03-02,T2,1000,Cash,30,0
2023-03-02,T2,4000,Revenue,0,20
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	cfg, c := root.AppConfig, root.AppContainer
	t.Cleanup(func() { root.AppConfig, root.AppContainer = cfg, c })
	root.Settings = root.GlobalFlags{}
	require.NoError(t, root.Initialize())

	files = common.InputFiles{}
	remedies, output = nil, ""
	format = string(report.FormatText)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func run(out *bytes.Buffer) error {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return validateFunc(cmd, nil)
}

func TestValidate_Clean(t *testing.T) {
	dir := setup(t)
	files.GL = writeFile(t, dir, "gl.csv", cleanGL)

	var out bytes.Buffer
	require.NoError(t, run(&out))
	assert.Contains(t, out.String(), "mode gl")
	assert.Contains(t, out.String(), "0 critical")
	assert.NotContains(t, out.String(), "Income Statement")
}

func TestValidate_CriticalFails(t *testing.T) {
	dir := setup(t)
	files.GL = writeFile(t, dir, "gl.csv", imbalancedGL)

	var out bytes.Buffer
	err := run(&out)
	assert.ErrorContains(t, err, "critical finding(s) must be corrected at the source")
	assert.Contains(t, out.String(), "blocked")
}

func TestValidate_FindingsCSV(t *testing.T) {
	dir := setup(t)
	files.GL = writeFile(t, dir, "gl.csv", imbalancedGL)
	format = "csv"
	output = filepath.Join(dir, "findings.csv")

	var out bytes.Buffer
	assert.Error(t, run(&out))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transaction_imbalance")
	assert.Contains(t, string(data), "critical")
}
