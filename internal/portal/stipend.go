package portal

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	stipendRegex = regexp.MustCompile(`₹\s*([\d,]+)(?:\s*-\s*₹?\s*([\d,]+))?`)
	numberRegex  = regexp.MustCompile(`\d[\d,]*`)
	monthsRegex  = regexp.MustCompile(`(\d+)\s*month`)
)

// ParseStipend reads "₹ 10,000" or "₹ 8,000-12,000 /month" and returns the
// amount, or the midpoint of a range. No currency match yields 0.
func ParseStipend(raw string) float64 {
	m := stipendRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	low := atoi(m[1])
	high := low
	if m[2] != "" {
		high = atoi(m[2])
	}
	return float64(low+high) / 2
}

// parseAmount is ParseStipend with a fallback to the first bare number, for
// cards that print stipends without a currency sign.
func parseAmount(raw string) float64 {
	if v := ParseStipend(raw); v > 0 {
		return v
	}
	if m := numberRegex.FindString(raw); m != "" {
		return float64(atoi(m))
	}
	return 0
}

// durationMonths extracts "3" from "3 Months".
func durationMonths(duration string) string {
	m := monthsRegex.FindStringSubmatch(strings.ToLower(duration))
	if m == nil {
		return ""
	}
	return m[1]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n
}
