// Package dateutils provides the date parsing and period bucketing used by the
// normalizer, the validator and the statement deriver.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date layouts found in accounting exports
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutISOTime   = "2006-01-02T15:04:05"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutUS        = "01/02/2006"
	DateLayoutUSShort   = "1/2/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is the ordered list of layouts ParseDate tries. Slash dates
// are read as month/day first.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISOTime,
	time.RFC3339,
	DateLayoutUS,
	DateLayoutUSShort,
	"1/2/06",
	"01-02-06",
	"1-2-2006",
	DateLayoutEuropean,
	"2.1.2006",
	"2006/01/02",
	"2006/1/2",
	DateLayoutWithMonth,
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"20060102",
}

// FormatExcelSerial is returned by ParseDate for spreadsheet serial numbers.
const FormatExcelSerial = "excel-serial"

var (
	whitespace  = regexp.MustCompile(`\s+`)
	excelSerial = regexp.MustCompile(`^\d{4,5}(\.\d+)?$`)
	// Spreadsheet serial day zero, accounting for the 1900 leap-year bug.
	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

// ParseDate parses a date using CommonFormats and returns the time and the
// layout that matched. Plain numbers between 10000 and 99999 are taken as
// spreadsheet serial dates.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	if excelSerial.MatchString(dateStr) {
		if serial, err := strconv.ParseFloat(dateStr, 64); err == nil && serial >= 10000 {
			return excelEpoch.AddDate(0, 0, int(serial)), FormatExcelSerial, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsAfterDay reports whether date falls on a calendar day strictly after ref.
func IsAfterDay(date, ref time.Time) bool {
	return Day(date).After(Day(ref))
}

// Granularity is the length of a reporting period.
type Granularity string

const (
	GranularityYear    Granularity = "year"
	GranularityQuarter Granularity = "quarter"
	GranularityMonth   Granularity = "month"
)

// ParseGranularity validates a period granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityYear, GranularityQuarter, GranularityMonth:
		return g, nil
	case "":
		return GranularityYear, nil
	default:
		return "", fmt.Errorf("unknown period granularity %q", s)
	}
}

// PeriodKey returns the reporting period of date: "2023", "2023-Q4" or
// "2023-12". Keys of one granularity sort chronologically as strings.
func PeriodKey(date time.Time, g Granularity) string {
	switch g {
	case GranularityQuarter:
		return fmt.Sprintf("%04d-Q%d", date.Year(), (int(date.Month())-1)/3+1)
	case GranularityMonth:
		return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
	default:
		return fmt.Sprintf("%04d", date.Year())
	}
}
