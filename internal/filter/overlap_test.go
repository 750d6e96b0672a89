package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name         string
		userSkills   string
		requirements string
		ratio        float64
		missing      []string
	}{
		{
			name:         "Two of three",
			userSkills:   "python, sql",
			requirements: "python, machine learning, sql",
			ratio:        2.0 / 3.0,
			missing:      []string{"machine learning"},
		},
		{
			name:         "Substring either way",
			userSkills:   "React.js, Go",
			requirements: "react, golang",
			ratio:        1,
			missing:      []string{},
		},
		{
			name:         "Case and spaces",
			userSkills:   "  DOCKER ,",
			requirements: "docker, aws",
			ratio:        0.5,
			missing:      []string{"aws"},
		},
		{
			name:         "No requirements",
			userSkills:   "python",
			requirements: " , ",
			ratio:        0,
			missing:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, missing := KeywordOverlap(tt.userSkills, tt.requirements)
			assert.InDelta(t, tt.ratio, ratio, 1e-9)
			assert.Equal(t, tt.missing, missing)
		})
	}
}
