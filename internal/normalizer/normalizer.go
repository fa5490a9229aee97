// Package normalizer maps loosely structured input tables onto the canonical
// ledger schema.
package normalizer

import (
	"strconv"
	"strings"
	"unicode"

	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Synonyms lists, per canonical column, the header spellings accepted for it.
type Synonyms map[models.Column][]string

// DefaultSynonyms returns the built-in synonym table.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		models.ColumnPeriodDate:    {"period_date", "txndate", "transaction_date", "date", "transdate", "posting_date", "period", "period_end"},
		models.ColumnAccountNumber: {"account_number", "accountnumber", "acct_num", "account", "acct", "account_no", "acct_no", "gl_account"},
		models.ColumnAccountName:   {"account_name", "accountname", "acct_name", "description", "name", "account_description"},
		models.ColumnDebit:         {"debit", "dr", "debits", "debit_amount"},
		models.ColumnCredit:        {"credit", "cr", "credits", "credit_amount"},
		models.ColumnTransactionID: {"transaction_id", "transactionid", "txn_id", "txnid", "glid", "journal_id", "je_id", "entry_id"},
		models.ColumnCurrency:      {"currency", "curr", "ccy", "currency_code"},
	}
}

// Merge returns a copy of s extended with the extra spellings.
func (s Synonyms) Merge(extra Synonyms) Synonyms {
	out := make(Synonyms, len(s))
	for col, names := range s {
		out[col] = append([]string(nil), names...)
	}
	for col, names := range extra {
		out[col] = append(out[col], names...)
	}
	return out
}

// HeaderKey reduces a header to lowercase letters and digits, so that
// "Acct_Num", "acct num" and "ACCT-NUM" share a key.
func HeaderKey(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalizer resolves headers through a synonym table and parses cells into
// LedgerRows. It holds no per-run state and is safe for concurrent use.
type Normalizer struct {
	lookup          map[string]models.Column
	defaultCurrency string
	logger          logging.Logger
}

// New creates a Normalizer. A nil synonyms table uses DefaultSynonyms;
// defaultCurrency is assigned to rows with an empty currency cell.
func New(synonyms Synonyms, defaultCurrency string, logger logging.Logger) *Normalizer {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	lookup := make(map[string]models.Column)
	for _, col := range models.CanonicalColumns {
		lookup[HeaderKey(col.String())] = col
		for _, name := range synonyms[col] {
			key := HeaderKey(name)
			if _, taken := lookup[key]; !taken && key != "" {
				lookup[key] = col
			}
		}
	}
	return &Normalizer{
		lookup:          lookup,
		defaultCurrency: currencyutils.NormalizeCode(defaultCurrency),
		logger:          logging.OrDefault(logger),
	}
}

// Resolve returns the canonical column for a header.
func (n *Normalizer) Resolve(header string) (models.Column, bool) {
	col, ok := n.lookup[HeaderKey(header)]
	return col, ok
}

// Normalize builds a LedgerTable from a raw table. Unrecognized columns are
// dropped; when two headers resolve to the same column the first one wins.
// Missing required columns are not an error here: the validator reports
// them. Fully blank records are skipped.
func (n *Normalizer) Normalize(raw *models.RawTable, source models.Source) (*models.LedgerTable, error) {
	if raw == nil || len(raw.Headers) == 0 {
		name := ""
		if raw != nil {
			name = raw.Name
		}
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "table with a header row",
			Msg:            "no header row",
		}
	}

	log := n.logger.WithFields(
		logging.F(logging.FieldSource, source),
		logging.F(logging.FieldFile, raw.Name),
	)

	table := &models.LedgerTable{Source: source, Name: raw.Name}
	positions := make(map[models.Column]int)
	for i, header := range raw.Headers {
		col, ok := n.Resolve(header)
		if !ok {
			log.Debug("Dropping unrecognized column", logging.F(logging.FieldHeader, header))
			continue
		}
		if table.Columns.Has(col) {
			log.Debug("Ignoring duplicate column",
				logging.F(logging.FieldHeader, header),
				logging.F(logging.FieldColumn, col.String()))
			continue
		}
		table.Columns = table.Columns.With(col)
		table.Headers[col] = header
		positions[col] = i
	}

	table.Rows = make([]models.LedgerRow, 0, len(raw.Records))
	for i, record := range raw.Records {
		if blank(record) {
			continue
		}
		table.Rows = append(table.Rows, n.parseRow(log, raw.Name, record, positions, i+2))
	}

	log.Info("Normalized table",
		logging.F(logging.FieldRows, len(table.Rows)),
		logging.F("columns", len(positions)))
	return table, nil
}

func (n *Normalizer) parseRow(log logging.Logger, name string, record []string, positions map[models.Column]int, line int) models.LedgerRow {
	row := models.LedgerRow{Line: line}
	for col, pos := range positions {
		if pos < len(record) {
			row.Cells[col] = strings.TrimSpace(record[pos])
		}
	}

	if text := row.Cells[models.ColumnPeriodDate]; text != "" {
		if t, _, err := dateutils.ParseDate(text); err == nil {
			row.PeriodDate = t
		} else {
			row.Invalid = row.Invalid.With(models.ColumnPeriodDate)
		}
	}

	if text := row.Cells[models.ColumnAccountNumber]; text != "" {
		if num, ok := parseAccountNumber(text); ok {
			row.AccountNumber = num
		} else {
			row.Invalid = row.Invalid.With(models.ColumnAccountNumber)
		}
	}

	row.AccountName = row.Cells[models.ColumnAccountName]
	row.TransactionID = row.Cells[models.ColumnTransactionID]

	for _, col := range []models.Column{models.ColumnDebit, models.ColumnCredit} {
		amount, err := currencyutils.ParseAmount(row.Cells[col])
		if err != nil {
			row.Invalid = row.Invalid.With(col)
			log.WithError(&parsererror.ParseError{
				Source: name,
				Field:  col.String(),
				Value:  row.Cells[col],
				Err:    err,
			}).Debug("Unparseable amount", logging.F("line", line))
			amount = decimal.Zero
		}
		if col == models.ColumnDebit {
			row.Debit = amount
		} else {
			row.Credit = amount
		}
	}

	row.Currency = currencyutils.NormalizeCode(row.Cells[models.ColumnCurrency])
	if row.Currency == "" {
		row.Currency = n.defaultCurrency
	}
	return row
}

// parseAccountNumber accepts integers, spreadsheet floats such as "1000.0"
// and thousands separators.
func parseAccountNumber(text string) (int, bool) {
	text = strings.ReplaceAll(text, ",", "")
	if num, err := strconv.Atoi(text); err == nil {
		return num, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
