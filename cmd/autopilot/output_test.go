package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-internship-automation/internal/models"
)

func TestFormatStipend(t *testing.T) {
	tests := []struct {
		name    string
		listing models.Listing
		want    string
	}{
		{"parsed value", models.Listing{StipendValue: 12000, Stipend: "₹10,000 - 14,000 /month"}, "₹12,000"},
		{"raw text", models.Listing{Stipend: "Unpaid"}, "Unpaid"},
		{"nothing", models.Listing{}, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStipend(tt.listing))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("  short "))

	long := strings.Repeat("x", maxCell+10)
	got := truncate(long)
	assert.Equal(t, maxCell, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPosted(t *testing.T) {
	assert.Equal(t, "-", posted(""))
	assert.Equal(t, "2 days ago", posted("2 days ago"))

	yesterday := time.Now().Add(-25 * time.Hour).Format(time.RFC3339)
	assert.Equal(t, "1 day ago", posted(yesterday))
}

func TestSummaryTable(t *testing.T) {
	summary := map[models.ApplyStatus]int{
		models.StatusNotAttempted: 3,
		models.StatusApplied:      2,
		models.StatusError:        0,
	}

	data := summaryTable(summary)

	require.Len(t, data, 3)
	assert.Equal(t, []string{"Status", "Count"}, data[0])
	assert.Equal(t, []string{"Applied", "2"}, data[1])
	assert.Equal(t, []string{"Not attempted", "3"}, data[2])
}

func TestRunsTable(t *testing.T) {
	runs := []models.ApplicationRun{{
		Type:         models.Internship,
		Role:         "Backend",
		TotalMatched: 1250,
		CreatedAt:    time.Now(),
		Outcomes: []models.TrackedApplication{
			{Status: models.StatusApplied},
			{Status: models.StatusSingleClickApplied},
			{Status: models.StatusNoButtonFound},
		},
	}}

	data := runsTable(runs)

	require.Len(t, data, 2)
	assert.Equal(t, "internship", data[1][1])
	assert.Equal(t, "1,250", data[1][3])
	assert.Equal(t, "2", data[1][4])
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "****6789", mask("secret-6789"))
	assert.Contains(t, mask(""), "unset")
}
