package core

// convert.go provides defensive coercion for vendor-submitted cell values.
//
// Submission files come from many vendors' spreadsheet exports, so the
// parsers here tolerate the usual CSV mess:
//   - Currency symbols and thousand separators in numbers
//   - Accounting-style negatives "(123.45)"
//   - Various boolean spellings (yes/no, true/false, 1/0)
//   - Excel formula prefixes (="value") and stray quotes
//
// All Parse* functions report success with an ok bool instead of returning
// an error: malformed data is an expected input, not a failure.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// HeaderIndex maps column names (lowercase) to their position in a CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// trims whitespace, strips the Excel formula prefix (="..."), and removes
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return s
}

// ParseNumber converts a string to a float64, tolerating currency symbols,
// thousands separators, and accounting format (parentheses for negative).
// Returns ok=false for empty or unparseable input.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool converts a string to a bool.
// Accepts true/false, yes/no, t/f, y/n, 1/0 in any case.
// Returns ok=false for empty or unrecognized input.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	case "":
		return false, false
	default:
		return false, false
	}
}

// ParseCaseSize converts a string to a positive integer case size.
// Whole-valued floats ("12.0") are accepted since spreadsheets often emit
// them. Returns ok=false for empty, non-numeric, fractional, or
// non-positive input.
func ParseCaseSize(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok {
		return 0, false
	}
	n := int(f)
	if float64(n) != f || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseRow coerces a RawRow into a typed SubmissionRow. Coercion never
// fails: unparseable numerics are recorded via the OK flags so the
// validator can report them as issues rather than this layer guessing.
func ParseRow(raw RawRow) SubmissionRow {
	row := SubmissionRow{
		VendorID:         CleanCell(raw.VendorID),
		SKUID:            CleanCell(raw.SKUID),
		Component:        CleanCell(raw.Component),
		MaterialName:     CleanCell(raw.MaterialName),
		MaterialCategory: CleanCell(raw.MaterialCategory),
		WeightUnit:       CleanCell(raw.WeightUnit),
		QuantityBasis:    strings.ToLower(CleanCell(raw.QuantityBasis)),
		Notes:            strings.TrimSpace(raw.Notes),
	}

	row.Weight, row.WeightOK = ParseNumber(CleanCell(raw.WeightValue))
	row.CaseSize, row.HasCaseSize = ParseCaseSize(CleanCell(raw.CaseSize))

	return row
}
