package filter

import (
	"strings"
)

// SplitSkills splits a comma-separated list into trimmed, lower-cased tokens.
func SplitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = normalizeText(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// KeywordOverlap returns |matched requirements| / |requirements| and the
// requirements with no match. A match is substring containment either way.
func KeywordOverlap(userSkills, requirements string) (float64, []string) {
	have := SplitSkills(userSkills)
	need := SplitSkills(requirements)
	if len(need) == 0 {
		return 0, []string{}
	}

	matched := 0
	missing := []string{}
	for _, req := range need {
		found := false
		for _, skill := range have {
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				found = true
				break
			}
		}
		if found {
			matched++
		} else {
			missing = append(missing, req)
		}
	}
	return float64(matched) / float64(len(need)), missing
}
