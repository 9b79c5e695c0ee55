// Package core provides the hierarchical budget tree: chapters, sections,
// items and types linked by id, with leaf values summed bottom-up.
//
// This file holds the numeric rules shared by every aggregation site.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumericOrZero converts a raw cell value to a float.
//
// Empty, non-numeric and non-finite values count as zero: a cell holding
// "N/A" or "-" in the source sheet is a legitimate "not applicable" marker,
// not an error.
//
// Examples:
//
//	ParseNumericOrZero("1234.5") -> 1234.5
//	ParseNumericOrZero(" 10 ")   -> 10
//	ParseNumericOrZero("")       -> 0
//	ParseNumericOrZero("N/A")    -> 0
func ParseNumericOrZero(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatValue renders a computed value with the shortest decimal
// representation that parses back to the same float ("0", "10", "1234.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsNonZero reports whether raw parses to a non-zero number.
func IsNonZero(raw string) bool {
	return ParseNumericOrZero(raw) != 0
}
