package filter

import (
	"math"
	"strings"

	"go-internship-automation/internal/models"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

const (
	// MinSimilarityScore is the hard relevance gate for recommendations.
	MinSimilarityScore = 70.0
	// similarityGain scales raw cosine similarity before clamping to 100.
	similarityGain = 200.0
)

// The vectoriser only keeps letter runs, so symbols and digits are spelled out.
var termSpelling = strings.NewReplacer(
	"+", "plus", "#", "sharp",
	"0", "zero", "1", "one", "2", "two", "3", "three", "4", "four",
	"5", "five", "6", "six", "7", "seven", "8", "eight", "9", "nine",
)

// TFIDF is a term-weighting model over a fixed corpus.
type TFIDF struct {
	vectors []*mat.VecDense
}

// NewTFIDF builds raw-count tf times smoothed idf, idf = 1 + ln(N / (1 + df)).
// Term counts come from an nlp count vectoriser; rows are terms, columns documents.
func NewTFIDF(docs []string) *TFIDF {
	m := &TFIDF{vectors: make([]*mat.VecDense, len(docs))}

	terms := make([]string, len(docs))
	var hasTerms bool
	for i, d := range docs {
		toks := tokenize(d)
		for j, t := range toks {
			toks[j] = termSpelling.Replace(t)
		}
		terms[i] = strings.Join(toks, " ")
		hasTerms = hasTerms || len(toks) > 0
	}
	if !hasTerms {
		return m
	}

	counts, err := nlp.NewCountVectoriser().FitTransform(terms...)
	if err != nil {
		return m
	}
	rows, cols := counts.Dims()
	if rows == 0 {
		return m
	}

	n := float64(len(docs))
	idf := make([]float64, rows)
	for r := 0; r < rows; r++ {
		var df int
		for c := 0; c < cols; c++ {
			if counts.At(r, c) > 0 {
				df++
			}
		}
		idf[r] = 1 + math.Log(n/float64(1+df))
	}

	for c := 0; c < cols && c < len(docs); c++ {
		col := mat.Col(nil, c, counts)
		for r := range col {
			col[r] *= idf[r]
		}
		m.vectors[c] = mat.NewVecDense(rows, col)
	}
	return m
}

// Similarity is the cosine of the two document vectors, in [0,1].
func (m *TFIDF) Similarity(a, b int) float64 {
	va, vb := m.vectors[a], m.vectors[b]
	if va == nil || vb == nil {
		return 0
	}
	na, nb := mat.Norm(va, 2), mat.Norm(vb, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(va, vb) / (na * nb)
}

// ListingText is the text a listing is matched on.
func ListingText(l models.Listing) string {
	return l.Title + " " + l.Company + " " + l.Department
}

// SimilarityScore maps a cosine similarity onto [0,100] rounded to 2 decimals.
func SimilarityScore(cosine float64) float64 {
	s := math.Min(100, cosine*similarityGain)
	return math.Round(s*100) / 100
}

// ScoreBySimilarity ranks listings against free-text skills. Listings scoring
// below MinSimilarityScore are dropped; at most n are returned.
func ScoreBySimilarity(skills string, listings []models.Listing, n int) []models.ScoredListing {
	docs := make([]string, 0, len(listings)+1)
	docs = append(docs, skills)
	for _, l := range listings {
		docs = append(docs, ListingText(l))
	}
	model := NewTFIDF(docs)

	scored := make([]models.ScoredListing, 0, len(listings))
	for i, l := range listings {
		score := SimilarityScore(model.Similarity(0, i+1))
		if score < MinSimilarityScore {
			continue
		}
		scored = append(scored, models.ScoredListing{Listing: l, Score: score, Index: i})
	}
	return top(scored, n)
}
