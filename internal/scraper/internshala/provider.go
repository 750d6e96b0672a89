// Package internshala provides placeholder Internshala listings for the
// multi-platform search. Live Internshala data comes from the portal
// package, which drives a logged-in browser.
package internshala

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/scraper"
)

const placeholderCount = 3

type Provider struct {
	clock func() time.Time
}

func NewProvider() *Provider {
	return &Provider{clock: time.Now}
}

func (p *Provider) Name() string {
	return "Internshala"
}

// Fetch returns generated records flagged as placeholders. The records are
// deterministic for a given query.
func (p *Provider) Fetch(ctx context.Context, q scraper.Query) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skills := strings.TrimSpace(q.Skills)
	if skills == "" {
		skills = "Software"
	}
	location := "Remote"
	if q.Field != "" {
		location = "Remote (" + q.Field + ")"
	}
	posted := p.clock().UTC().Format(time.RFC3339)

	out := make([]models.Listing, 0, placeholderCount)
	stipend := scraper.SalaryRange(float64(q.MinStipend), float64(q.MaxStipend), q, "INR")
	for i := 1; i <= placeholderCount; i++ {
		out = append(out, models.Listing{
			Title:        fmt.Sprintf("%s Internship %d", skills, i),
			Company:      fmt.Sprintf("Sample Company %d", i),
			Location:     location,
			Stipend:      stipend,
			StipendValue: float64(q.MinStipend),
			Duration:     fmt.Sprintf("%d Months", i+2),
			DetailURL:    fmt.Sprintf("https://internshala.com/internship/detail/sample-internship-%d", i),
			Source:       p.Name(),
			DatePosted:   posted,
			Description:  description(skills, q.Field),
			Placeholder:  true,
		})
	}
	return out, nil
}

func description(skills, field string) models.Description {
	about := fmt.Sprintf("Work on real projects using %s.", skills)
	if field != "" {
		about = fmt.Sprintf("Work on real %s projects using %s.", field, skills)
	}
	return models.Description{
		{Heading: "About the internship", Content: []models.Block{models.TextBlock(about)}},
		{Heading: "Skills required", Content: []models.Block{models.ListBlock(filter.SplitSkills(skills)...)}},
		{Heading: "Perks", Content: []models.Block{models.ListBlock("Certificate", "Letter of recommendation", "Flexible work hours")}},
	}
}
