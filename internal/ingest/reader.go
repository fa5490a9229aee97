// Package ingest reads uploaded accounting exports, delimited text or
// spreadsheets, into raw tables for the normalizer.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
)

// Format is the container format of an input file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "csv, tsv or xlsx",
			Msg:            "unrecognized file extension",
		}
	}
}

// Reader turns files into RawTables.
type Reader struct {
	// Delimiter for delimited text. Zero sniffs the header line.
	Delimiter rune
	// Sheet selects the spreadsheet sheet. Empty uses the first sheet.
	Sheet  string
	logger logging.Logger
}

// NewReader creates a Reader.
func NewReader(delimiter rune, sheet string, logger logging.Logger) *Reader {
	return &Reader{Delimiter: delimiter, Sheet: sheet, logger: logging.OrDefault(logger)}
}

// ReadFile reads the table stored at path.
func (r *Reader) ReadFile(path string) (*models.RawTable, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Reading input file",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldFormat, format))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if info, err := file.Stat(); err == nil && info.Size() == 0 {
		return nil, &parsererror.ValidationError{FilePath: path, Reason: "file is empty"}
	}

	return r.Read(file, filepath.Base(path), format)
}

// Read reads a table of the given format from in.
func (r *Reader) Read(in io.Reader, name string, format Format) (*models.RawTable, error) {
	var (
		table *models.RawTable
		err   error
	)
	switch format {
	case FormatCSV:
		table, err = r.readDelimited(in, name, r.Delimiter)
	case FormatTSV:
		table, err = r.readDelimited(in, name, '\t')
	case FormatXLSX:
		table, err = r.readSpreadsheet(in, name)
	default:
		return nil, fmt.Errorf("%w: %s", parsererror.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Read raw table",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldRows, len(table.Records)),
		logging.F("columns", len(table.Headers)))
	return table, nil
}

func (r *Reader) readDelimited(in io.Reader, name string, delimiter rune) (*models.RawTable, error) {
	buffered := bufio.NewReader(in)
	if delimiter == 0 {
		head, _ := buffered.Peek(4096)
		delimiter = SniffDelimiter(head)
		r.logger.Debug("Sniffed delimiter", logging.F(logging.FieldDelimiter, string(delimiter)))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "delimited text with a header row",
			Msg:            err.Error(),
		}
	}
	return tableFromRecords(name, records)
}

// SniffDelimiter picks the most frequent of comma, semicolon, tab and pipe
// on the first non-blank line, defaulting to comma.
func SniffDelimiter(head []byte) rune {
	for _, line := range bytes.Split(head, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			head = line
			break
		}
	}
	best, bestCount := ',', 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(head, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

var errNoHeader = errors.New("no header row")

// tableFromRecords uses the first non-blank record as header.
func tableFromRecords(name string, records [][]string) (*models.RawTable, error) {
	start := 0
	for start < len(records) && blankRecord(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "table with a header row",
			Msg:            errNoHeader.Error(),
		}
	}

	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return &models.RawTable{
		Name:    name,
		Headers: headers,
		Records: records[start+1:],
	}, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
