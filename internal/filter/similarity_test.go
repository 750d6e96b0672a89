package filter

import (
	"testing"

	"go-internship-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBySimilarity(t *testing.T) {
	listings := []models.Listing{
		{Title: "Python Developer", Company: "SQL Labs", DetailURL: "/a"},
		{Title: "Marketing Intern", Company: "Brandify", DetailURL: "/b"},
		{Title: "Python SQL Intern", Company: "DataWorks", DetailURL: "/c"},
		{Title: "Java Developer", Company: "Python Corp", DetailURL: "/d"},
	}

	ranked := ScoreBySimilarity("python, sql", listings, TopN)
	require.Len(t, ranked, 2)
	assert.Equal(t, "/a", ranked[0].DetailURL)
	assert.Equal(t, "/c", ranked[1].DetailURL)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Score, MinSimilarityScore)
		assert.LessOrEqual(t, r.Score, 100.0)
	}
}

func TestScoreBySimilarity_Gate(t *testing.T) {
	listings := []models.Listing{
		{Title: "Sales Executive", Company: "Shop"},
		{Title: "Content Writer", Company: "Blog"},
	}
	assert.Empty(t, ScoreBySimilarity("golang, kubernetes", listings, TopN))
}

func TestScoreBySimilarity_Cap(t *testing.T) {
	var listings []models.Listing
	for i := 0; i < 12; i++ {
		listings = append(listings, models.Listing{Title: "Python Intern", Company: "Snake"})
	}
	listings = append(listings, models.Listing{Title: "Chef"})
	ranked := ScoreBySimilarity("python", listings, TopN)
	assert.Len(t, ranked, TopN)
}

func TestTFIDF_Similarity(t *testing.T) {
	m := NewTFIDF([]string{"go backend", "go backend", "cooking", ""})
	assert.InDelta(t, 1.0, m.Similarity(0, 1), 1e-9)
	assert.Equal(t, 0.0, m.Similarity(0, 2))
	assert.Equal(t, 0.0, m.Similarity(0, 3))
}

func TestTFIDF_SymbolTerms(t *testing.T) {
	m := NewTFIDF([]string{"c++", "c#", "C++ engineer", "web3", "web2"})
	assert.Equal(t, 0.0, m.Similarity(0, 1))
	assert.Greater(t, m.Similarity(0, 2), 0.0)
	assert.Equal(t, 0.0, m.Similarity(3, 4))
}

func TestTFIDF_EmptyCorpus(t *testing.T) {
	m := NewTFIDF([]string{"", "the and of"})
	assert.Equal(t, 0.0, m.Similarity(0, 1))
}

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		cosine   float64
		expected float64
	}{
		{0, 0},
		{0.3, 60},
		{0.35, 70},
		{0.9, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, SimilarityScore(tt.cosine), 1e-9)
	}
}
