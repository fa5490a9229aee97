// Package classify handles the account classification command
package classify

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fjacquet/fin-statements/cmd/common"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/report"

	"github.com/spf13/cobra"
)

var (
	input       string
	source      string
	format      string
	output      string
	exportRules string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Show how each account maps to a statement line item",
	Long: `Classify the accounts of a trial balance or general ledger export and list,
per account, the line item it maps to and the strategy that decided it.
Accounts no rule matches are reported as unmapped.

Example:
  fin-statements classify -i tb_2023.csv
  fin-statements classify -i gl.xlsx --source gl --format json
  fin-statements classify --export-rules rules.yaml`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (csv, tsv or xlsx)")
	Cmd.Flags().StringVar(&source, "source", string(models.SourceTB), "Kind of export (tb, gl)")
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatCSV), "Output format (csv, json)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	Cmd.Flags().StringVar(&exportRules, "export-rules", "", "Write the classification rules in effect to this YAML file")
}

type classification struct {
	Mappings []classifier.Mapping        `json:"mappings"`
	Stats    *models.ClassificationStats `json:"stats"`
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	log := c.GetLogger()
	log.Info("Classify command called")

	if exportRules != "" {
		if err := c.GetStore().SaveRules(c.GetRules(), exportRules); err != nil {
			return err
		}
		log.Info("Classification rules exported", logging.F(logging.FieldFile, exportRules))
		if input == "" {
			return nil
		}
	}
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	src := models.Source(source)
	if src != models.SourceTB && src != models.SourceGL {
		return fmt.Errorf("--source must be tb or gl, got %q", source)
	}
	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	if outFormat == report.FormatText {
		return fmt.Errorf("classify writes csv or json, not %s", outFormat)
	}

	raw, err := c.GetReader().ReadFile(input)
	if err != nil {
		return err
	}
	table, err := c.GetNormalizer().Normalize(raw, src)
	if err != nil {
		return err
	}
	rows, stats := c.GetClassifier().ClassifyTable(table)
	result := classification{Mappings: classifier.Mappings(rows), Stats: stats}

	var buf bytes.Buffer
	switch outFormat {
	case report.FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal mappings: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		if err := c.GetReportGenerator().WriteMappingsCSV(&buf, result.Mappings); err != nil {
			return err
		}
	}

	if err := common.WriteOutput(cmd.OutOrStdout(), buf.Bytes(), output, log); err != nil {
		return err
	}
	if stats.Unmapped > 0 {
		log.Warn("Some accounts are not mapped",
			logging.F(logging.FieldCount, len(stats.UnmappedAccounts)),
			logging.F("accounts", stats.UnmappedAccounts))
	}
	return nil
}
