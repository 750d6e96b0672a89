package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStipend(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"₹ 10,000 /month", 10000},
		{"₹8,000-12,000 /month", 10000},
		{"₹ 5,000 - ₹ 7,000", 6000},
		{"Unpaid", 0},
		{"", 0},
		{"15000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStipend(tt.raw))
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 10000.0, parseAmount("₹ 10,000 /month"))
	assert.Equal(t, 15000.0, parseAmount("15,000 per month"))
	assert.Equal(t, 0.0, parseAmount("Performance based"))
}

func TestDurationMonths(t *testing.T) {
	assert.Equal(t, "3", durationMonths("3 Months"))
	assert.Equal(t, "6", durationMonths("6 month"))
	assert.Equal(t, "", durationMonths("Flexible"))
}

func TestSearchKeyword(t *testing.T) {
	tests := []struct {
		skills   string
		expected string
	}{
		{"Python, Django", "Software Development"},
		{"HTML CSS", "Software Development"},
		{"SQL, machine learning", "Data Science"},
		{"  Content Writing ", "Content Writing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SearchKeyword(tt.skills), tt.skills)
	}
}

func TestMockRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		skills   string
		min, max int
		titles   []string
	}{
		{
			name:   "every intern matches",
			skills: "Intern",
			titles: []string{"Software Development Intern", "Data Science Intern", "Marketing Intern"},
		},
		{
			name:   "title filter",
			skills: "data",
			titles: []string{"Data Science Intern"},
		},
		{
			name:   "stipend floor",
			skills: "intern",
			min:    9000,
			titles: []string{"Software Development Intern"},
		},
		{
			name:   "stipend ceiling",
			skills: "intern",
			max:    6000,
			titles: []string{"Marketing Intern"},
		},
		{
			name:   "nothing matches",
			skills: "kubernetes",
			titles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := MockRecommendations(tt.skills, tt.min, tt.max)
			assert.True(t, rec.Fallback)
			assert.Zero(t, rec.AppliedCount)
			require.NotNil(t, rec.Recommendations)

			titles := []string{}
			for _, r := range rec.Recommendations {
				assert.True(t, r.Placeholder)
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}
