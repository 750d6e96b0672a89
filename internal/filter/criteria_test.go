package filter

import (
	"testing"

	"go-internship-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaScore(t *testing.T) {
	criteria := models.SearchCriteria{
		Role:       "Data Analyst",
		Location:   "Remote",
		MinStipend: 10000,
		Duration:   "3 months",
		Type:       models.Internship,
	}

	tests := []struct {
		name     string
		listing  models.Listing
		criteria models.SearchCriteria
		expected int
	}{
		{
			name: "Perfect match",
			listing: models.Listing{
				Title:        "Data Analyst Intern",
				Location:     "Remote",
				StipendValue: 12000,
				Duration:     "3 months",
			},
			criteria: criteria,
			expected: 100,
		},
		{
			name: "Title and location only",
			listing: models.Listing{
				Title:        "data analyst",
				Location:     "Work from home, Remote",
				StipendValue: 5000,
				Duration:     "6 Months",
			},
			criteria: criteria,
			expected: 60,
		},
		{
			name: "Stipend exactly at minimum",
			listing: models.Listing{
				Title:        "Marketing",
				StipendValue: 10000,
			},
			criteria: criteria,
			expected: 20,
		},
		{
			name: "Accent insensitive location",
			listing: models.Listing{
				Title:    "Backend Intern",
				Location: "Bengalûru",
			},
			criteria: models.SearchCriteria{Role: "backend", Location: "bengaluru"},
			expected: 60,
		},
		{
			name: "Optional criteria left empty",
			listing: models.Listing{
				Title:        "Web Developer",
				Location:     "Delhi",
				StipendValue: 50000,
				Duration:     "2 Months",
			},
			criteria: models.SearchCriteria{Role: "developer"},
			expected: 30,
		},
		{
			name:     "Nothing matches",
			listing:  models.Listing{Title: "Sales"},
			criteria: criteria,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CriteriaScore(tt.listing, tt.criteria))
		})
	}
}

func TestCriteriaScore_Domain(t *testing.T) {
	allowed := map[int]bool{0: true, 20: true, 30: true, 40: true, 50: true, 60: true, 70: true, 80: true, 100: true}
	titles := []string{"Data Analyst", "Designer"}
	locations := []string{"Remote", "Pune"}
	stipends := []float64{0, 15000}
	durations := []string{"3 months", "1 month"}
	criteria := models.SearchCriteria{Role: "analyst", Location: "remote", MinStipend: 10000, Duration: "3 months"}

	for _, title := range titles {
		for _, loc := range locations {
			for _, st := range stipends {
				for _, dur := range durations {
					l := models.Listing{Title: title, Location: loc, StipendValue: st, Duration: dur}
					score := CriteriaScore(l, criteria)
					assert.True(t, allowed[score], "unexpected score %d", score)
					assert.Equal(t, score, CriteriaScore(l, criteria))
				}
			}
		}
	}
}

func TestRankByCriteria(t *testing.T) {
	criteria := models.SearchCriteria{Role: "go", Location: "remote"}
	listings := []models.Listing{
		{Title: "Python", DetailURL: "/0"},
		{Title: "Go Intern", Location: "Remote", DetailURL: "/1"},
		{Title: "Go Dev", DetailURL: "/2"},
		{Title: "Go Backend", DetailURL: "/3"},
		{Title: "Java", Location: "Remote", DetailURL: "/4"},
		{Title: "Go Remote", Location: "remote", DetailURL: "/5"},
		{Title: "Rust", DetailURL: "/6"},
	}

	ranked := RankByCriteria(listings, criteria, TopN)
	require.Len(t, ranked, TopN)

	var order []int
	for _, r := range ranked {
		order = append(order, r.Index)
	}
	//ties keep extraction order
	assert.Equal(t, []int{1, 5, 2, 3, 4}, order)
	assert.Equal(t, float64(60), ranked[0].Score)
	assert.Equal(t, "/1", ranked[0].DetailURL)
}

func TestRankByCriteria_FewerThanN(t *testing.T) {
	ranked := RankByCriteria([]models.Listing{{Title: "a"}}, models.SearchCriteria{Role: "a"}, TopN)
	require.Len(t, ranked, 1)
	assert.Equal(t, float64(30), ranked[0].Score)
}
