package portal

import (
	"regexp"
	"strings"

	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/models"
)

var mockStipendRegex = regexp.MustCompile(`₹([\d,]+)`)

var mockListings = []models.ScoredListing{
	{
		Listing: models.Listing{
			Title:     "Software Development Intern",
			Company:   "TechCorp",
			Stipend:   "₹10,000/month",
			DetailURL: "https://internshala.com/internship/detail/software-development-intern",
		},
		Score: 80,
	},
	{
		Listing: models.Listing{
			Title:     "Data Science Intern",
			Company:   "DataWorks",
			Stipend:   "₹8,000/month",
			DetailURL: "https://internshala.com/internship/detail/data-science-intern",
		},
		Score: 75,
	},
	{
		Listing: models.Listing{
			Title:     "Marketing Intern",
			Company:   "Brandify",
			Stipend:   "₹5,000/month",
			DetailURL: "https://internshala.com/internship/detail/marketing-internship",
		},
		Score: 70,
	},
}

// MockRecommendations filters the fixed placeholder dataset used when the
// portal cannot be scraped. Every returned record is flagged Placeholder.
func MockRecommendations(skills string, minStipend, maxStipend int) models.Recommendation {
	if maxStipend <= 0 {
		maxStipend = defaultMaxStipend
	}
	needle := strings.ToLower(strings.TrimSpace(skills))

	out := []models.ScoredListing{}
	for i, m := range mockListings {
		value := 0
		if match := mockStipendRegex.FindStringSubmatch(m.Stipend); match != nil {
			value = atoi(match[1])
		}
		if value < minStipend || value > maxStipend {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}

		l := m
		l.Index = i
		l.StipendValue = float64(value)
		l.Source = "Internshala"
		l.Placeholder = true
		out = append(out, l)
		if len(out) == filter.TopN {
			break
		}
	}
	return models.Recommendation{Recommendations: out, AppliedCount: 0, Fallback: true}
}
