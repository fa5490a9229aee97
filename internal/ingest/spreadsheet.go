package ingest

import (
	"fmt"
	"io"

	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// readSpreadsheet reads one sheet of an xlsx workbook. Cells are read raw so
// dates arrive as serial numbers and amounts without display formatting.
func (r *Reader) readSpreadsheet(in io.Reader, name string) (*models.RawTable, error) {
	workbook, err := excelize.OpenReader(in)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "xlsx workbook",
			Msg:            err.Error(),
		}
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := r.Sheet
	if sheet == "" {
		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, &parsererror.InvalidFormatError{
				FilePath:       name,
				ExpectedFormat: "xlsx workbook",
				Msg:            "workbook has no sheets",
			}
		}
		sheet = sheets[0]
	}

	rows, err := workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	r.logger.Debug("Read spreadsheet",
		logging.F(logging.FieldFile, name),
		logging.F("sheet", sheet),
		logging.F(logging.FieldRows, len(rows)))
	return tableFromRecords(name, rows)
}
