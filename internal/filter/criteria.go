package filter

import (
	"sort"

	"go-internship-automation/internal/models"
)

const (
	titleWeight    = 30
	locationWeight = 30
	stipendWeight  = 20
	durationWeight = 20

	// TopN caps how many listings are ranked for applying or recommending.
	TopN = 5
)

// CriteriaScore adds up the matching components. Optional criteria left empty
// (or a zero minimum stipend) contribute nothing.
func CriteriaScore(l models.Listing, c models.SearchCriteria) int {
	score := 0
	if c.Role != "" && containsFold(l.Title, c.Role) {
		score += titleWeight
	}
	if c.Location != "" && containsFold(l.Location, c.Location) {
		score += locationWeight
	}
	if c.MinStipend > 0 && l.StipendValue >= float64(c.MinStipend) {
		score += stipendWeight
	}
	if c.Duration != "" && containsFold(l.Duration, c.Duration) {
		score += durationWeight
	}
	return score
}

// RankByCriteria scores every listing, sorts by score descending keeping
// extraction order on ties, and returns at most n entries.
func RankByCriteria(listings []models.Listing, c models.SearchCriteria, n int) []models.ScoredListing {
	scored := make([]models.ScoredListing, len(listings))
	for i, l := range listings {
		scored[i] = models.ScoredListing{
			Listing: l,
			Score:   float64(CriteriaScore(l, c)),
			Index:   i,
		}
	}
	return top(scored, n)
}

func top(scored []models.ScoredListing, n int) []models.ScoredListing {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if n >= 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
