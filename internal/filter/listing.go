package filter

import (
	"strings"

	"go-internship-automation/internal/models"
)

var techTitleWords = []string{"software", "developer", "programmer"}

// IsITRelated keeps software roles, tech companies and IT departments.
func IsITRelated(l models.Listing) bool {
	title := normalizeText(l.Title)
	for _, w := range techTitleWords {
		if strings.Contains(title, w) {
			return true
		}
	}
	if strings.Contains(normalizeText(l.Company), "tech") {
		return true
	}
	dept := normalizeText(l.Department)
	for _, w := range tokenize(dept) {
		if w == "it" {
			return true
		}
	}
	return strings.Contains(dept, "technology")
}

// StipendInRange reports min <= value <= max. A max of 0 means unbounded.
func StipendInRange(value float64, min, max int) bool {
	if value < float64(min) {
		return false
	}
	return max <= 0 || value <= float64(max)
}
