package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberRegex = regexp.MustCompile(`\d[\d,]*`)

// FirstNumber reads the first integer in a salary string, ignoring
// thousands separators. No number yields 0.
func FirstNumber(s string) int {
	m := numberRegex.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// SalaryRange formats "min - max CUR", substituting the query bounds for
// missing ends.
func SalaryRange(min, max float64, q Query, currency string) string {
	if min <= 0 {
		min = float64(q.MinStipend)
	}
	if max <= 0 {
		max = float64(q.MaxStipend)
	}
	if currency == "" {
		currency = "INR"
	}
	return fmt.Sprintf("%s - %s %s", trimFloat(min), trimFloat(max), currency)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NotDisclosed is the salary text of listings without pay information.
const NotDisclosed = "Not disclosed"
