package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldMode       = "mode"
	FieldRunID      = "run_id"
	FieldRows       = "row_count"
	FieldColumn     = "column"
	FieldHeader     = "header"
	FieldPeriod     = "period"
	FieldLineItem   = "line_item"
	FieldStrategy   = "strategy"
	FieldRemedy     = "remedy"
	FieldKind       = "kind"
	FieldSeverity   = "severity"
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
)
