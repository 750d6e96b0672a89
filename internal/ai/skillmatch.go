package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
)

// ErrMissingInput is returned when either side of the comparison is empty.
var ErrMissingInput = errors.New("user skills and job requirements are required")

const strongMatch = 0.7

// SkillMatcher compares a candidate's skills with a job's requirements.
type SkillMatcher struct {
	client Client
	log    *logging.Logger
}

// NewSkillMatcher accepts a nil client, in which case only keyword overlap
// is used.
func NewSkillMatcher(client Client, log *logging.Logger) *SkillMatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &SkillMatcher{client: client, log: log}
}

// Analyze scores the pair with the similarity backend, falling back to the
// keyword-overlap ratio. Missing skills always come from the overlap tokens.
func (m *SkillMatcher) Analyze(ctx context.Context, userSkills, requirements string) (models.SkillMatch, error) {
	if strings.TrimSpace(userSkills) == "" || strings.TrimSpace(requirements) == "" {
		return models.SkillMatch{}, ErrMissingInput
	}

	ratio, missing := filter.KeywordOverlap(userSkills, requirements)
	score := ratio
	if m.client != nil {
		s, err := m.client.Similarity(ctx, userSkills, requirements)
		if err != nil {
			m.log.Warn("⚠️ Similarity backend failed, using keyword overlap", "error", err)
		} else {
			score = s
		}
	}

	return models.SkillMatch{
		Analysis:        analysis(score),
		SimilarityScore: score,
		MissingSkills:   missing,
		Suggestions:     suggestions(score, missing),
	}, nil
}

func analysis(score float64) string {
	verdict := "You may need to highlight more relevant skills for this job."
	if score > strongMatch {
		verdict = "Your skills are a strong match for this job!"
	}
	return fmt.Sprintf("Similarity score between your skills and the job requirements: %.2f%%. %s", score*100, verdict)
}

func suggestions(score float64, missing []string) string {
	if len(missing) == 0 {
		return "Your skills are well-aligned with the job requirements. Ensure your resume highlights these skills with specific achievements or projects."
	}
	s := fmt.Sprintf("Consider adding or emphasizing the following skills in your resume to better match the job: %s. ", strings.Join(missing, ", "))
	if score < strongMatch {
		return s + "Focus on tailoring your experience to highlight these skills, or consider upskilling in these areas."
	}
	return s + "Adding these skills could make your application even stronger."
}
