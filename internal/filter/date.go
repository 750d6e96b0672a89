package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RecentWindow is how old a posting may be and still count as recent.
const RecentWindow = 60 * 24 * time.Hour

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	yearOnlyRegex = regexp.MustCompile(`\b(20\d{2})\b`)
	daysAgoRegex  = regexp.MustCompile(`(?i)(\d+)\+?\s*(day|week|month)s?\s+ago`)
)

// IsRecent reports whether a free-form posting date falls within RecentWindow
// of now. Unknown formats count as recent.
func IsRecent(dateStr string, now time.Time) bool {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" || dateStr == "N/A" || strings.EqualFold(dateStr, "recent") ||
		strings.EqualFold(dateStr, "today") || strings.EqualFold(dateStr, "just now") {
		return true
	}

	//case 1: ISO "2026-01-27" or "2026-01-27T10:00:00Z"
	if isoDateRegex.MatchString(dateStr) {
		if jobDate, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return isWithinWindow(now, jobDate)
		}
	}

	//case 2: "3 days ago", "2 weeks ago"
	if m := daysAgoRegex.FindStringSubmatch(dateStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		unit := 24 * time.Hour
		switch strings.ToLower(m[2]) {
		case "week":
			unit *= 7
		case "month":
			unit *= 30
		}
		return time.Duration(n)*unit <= RecentWindow
	}

	//case 3: dd/mm/yyyy
	if strings.Contains(dateStr, "/") {
		parts := strings.Split(dateStr, "/")
		if len(parts) >= 3 {
			day, _ := strconv.Atoi(parts[0])
			month, _ := strconv.Atoi(parts[1])
			year, _ := strconv.Atoi(parts[2])
			jobDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return isWithinWindow(now, jobDate)
		}
	}

	//case 4: year only
	if match := yearOnlyRegex.FindStringSubmatch(dateStr); match != nil {
		year, _ := strconv.Atoi(match[1])
		return year == now.Year() || year == now.Year()-1
	}

	return true
}

func isWithinWindow(now, jobDate time.Time) bool {
	diff := now.Sub(jobDate)
	if diff > RecentWindow {
		return false
	}

	//reject future dates beyond timezone slack
	if diff < -2*24*time.Hour {
		return false
	}
	return true
}
