// Package process handles the statement generation command
package process

import (
	"fmt"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/report"

	"github.com/spf13/cobra"
)

var (
	files     common.InputFiles
	remedies  []string
	scale     string
	format    string
	output    string
	outputDir string
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Validate ledger exports and derive financial statements",
	Long: `Validate a trial balance and/or general ledger export, apply the selected
remedies, classify accounts and derive the financial statements.

When critical findings remain after the remedies, the report still lists
every finding and the command exits with an error.

Example:
  fin-statements process --tb tb_2023.csv --remedies drop_duplicate_rows --format text
  fin-statements process --tb tb.xlsx --gl gl.csv --scale 1000 -o statements.json`,
	RunE: processFunc,
}

func init() {
	Cmd.Flags().StringVar(&files.TB, "tb", "", "Trial balance file (csv, tsv or xlsx)")
	Cmd.Flags().StringVar(&files.GL, "gl", "", "General ledger file (csv, tsv or xlsx)")
	Cmd.Flags().StringVar(&files.Mode, "mode", "", "Declared input mode (tb, gl, tb+gl); inferred when empty")
	Cmd.Flags().StringSliceVar(&remedies, "remedies", nil, "Remedies to apply (drop_duplicate_rows, make_nonnegative, map_unclassified, drop_row, all, none)")
	Cmd.Flags().StringVar(&scale, "scale", "", "Divide every reported value by this unit, e.g. 1000")
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatJSON), "Output format (json, csv, text)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	Cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write <input>_statements.<ext> into this directory")
}

func processFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	log := c.GetLogger()
	log.Info("Process command called")

	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	input, err := common.ReadInputs(c.GetReader(), files, log)
	if err != nil {
		return err
	}

	var selected []string
	if cmd.Flags().Changed("remedies") {
		selected = remedies
	}
	opts, err := common.RunOptions(selected, scale, c.GetConfig().Remedies())
	if err != nil {
		return err
	}

	result, runErr := c.GetPipeline().Process(input, opts)
	if result == nil {
		return runErr
	}
	if _, blocked := parsererror.IsBlocked(runErr); runErr != nil && !blocked {
		return runErr
	}

	data, err := c.GetReportGenerator().GenerateReport(result, outFormat)
	if err != nil {
		return err
	}
	path := common.OutputPath(output, outputDir, files.Primary(), "statements", outFormat.Extension())
	if err := common.WriteOutput(cmd.OutOrStdout(), data, path, log); err != nil {
		return err
	}

	if runErr != nil {
		log.Warn("Statements were not generated", logging.F(logging.FieldCount, len(result.Blocking)))
		return runErr
	}
	log.Info("Statements generated successfully")
	return nil
}
