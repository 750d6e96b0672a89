package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"go-internship-automation/internal/models"
)

const maxCell = 40

func truncate(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxCell {
		return s
	}
	return string(r[:maxCell-1]) + "…"
}

// formatStipend renders a parsed stipend as "₹12,000" and falls back to the
// raw text when nothing was parsed.
func formatStipend(l models.Listing) string {
	if l.StipendValue > 0 {
		return "₹" + humanize.Comma(int64(l.StipendValue))
	}
	if l.Stipend == "" {
		return "-"
	}
	return l.Stipend
}

func colorStatus(status models.ApplyStatus) string {
	switch status {
	case models.StatusApplied, models.StatusSingleClickApplied:
		return pterm.Green(string(status))
	case models.StatusError, models.StatusNoButtonFound:
		return pterm.Red(string(status))
	case models.StatusNotAttempted:
		return pterm.FgGray.Sprint(string(status))
	default:
		return pterm.Yellow(string(status))
	}
}

func outcomeTable(result *models.ApplyResult) pterm.TableData {
	titles := make(map[int]models.ScoredListing, len(result.Top))
	for _, l := range result.Top {
		titles[l.Index] = l
	}

	data := pterm.TableData{{"#", "Title", "Company", "Score", "Status"}}
	for _, o := range result.Statuses {
		l := titles[o.Index]
		data = append(data, []string{
			fmt.Sprint(o.Index + 1),
			truncate(l.Title),
			truncate(l.Company),
			fmt.Sprintf("%.0f", l.Score),
			colorStatus(o.Status) + messageSuffix(o),
		})
	}
	return data
}

func messageSuffix(o models.ApplicationOutcome) string {
	if o.Message == "" {
		return ""
	}
	return ": " + truncate(o.Message)
}

// summaryTable lists non-zero counts in a stable order.
func summaryTable(summary map[models.ApplyStatus]int) pterm.TableData {
	statuses := make([]string, 0, len(summary))
	for s, n := range summary {
		if n > 0 {
			statuses = append(statuses, string(s))
		}
	}
	sort.Strings(statuses)

	data := pterm.TableData{{"Status", "Count"}}
	for _, s := range statuses {
		data = append(data, []string{s, fmt.Sprint(summary[models.ApplyStatus(s)])})
	}
	return data
}

func recommendationTable(recs []models.ScoredListing) pterm.TableData {
	data := pterm.TableData{{"Score", "Title", "Company", "Stipend", "Link"}}
	for _, r := range recs {
		title := truncate(r.Title)
		if r.Placeholder {
			title += " (sample)"
		}
		data = append(data, []string{
			fmt.Sprintf("%.0f", r.Score),
			title,
			truncate(r.Company),
			formatStipend(r.Listing),
			r.DetailURL,
		})
	}
	return data
}

func listingTable(listings []models.Listing) pterm.TableData {
	data := pterm.TableData{{"Source", "Title", "Company", "Location", "Salary", "Posted"}}
	for _, l := range listings {
		data = append(data, []string{
			l.Source,
			truncate(l.Title),
			truncate(l.Company),
			truncate(l.Location),
			formatStipend(l),
			posted(l.DatePosted),
		})
	}
	return data
}

// posted shows RFC 3339 dates relative to now and anything else verbatim.
func posted(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return humanize.Time(t)
	}
	if date == "" {
		return "-"
	}
	return date
}

func runsTable(runs []models.ApplicationRun) pterm.TableData {
	data := pterm.TableData{{"When", "Type", "Role", "Matched", "Applied"}}
	for _, r := range runs {
		applied := 0
		for _, o := range r.Outcomes {
			if o.Status == models.StatusApplied || o.Status == models.StatusSingleClickApplied {
				applied++
			}
		}
		data = append(data, []string{
			humanize.Time(r.CreatedAt),
			string(r.Type),
			truncate(r.Role),
			humanize.Comma(int64(r.TotalMatched)),
			fmt.Sprint(applied),
		})
	}
	return data
}

func joinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
