package main

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-internship-automation/internal/scraper"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search several job boards at once",
	RunE:  runSearch,
}

var searchFlags struct {
	platforms  []string
	skills     string
	field      string
	minStipend int
	maxStipend int
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&searchFlags.platforms, "platforms", nil, "Platforms to query (default: all enabled)")
	f.StringVarP(&searchFlags.skills, "skills", "s", "", "Skills to search for (required)")
	f.StringVarP(&searchFlags.field, "field", "f", "", "Field or category, e.g. \"software-dev\"")
	f.IntVar(&searchFlags.minStipend, "min-stipend", 0, "Minimum salary")
	f.IntVar(&searchFlags.maxStipend, "max-stipend", 0, "Maximum salary (0 for no limit)")
	if err := searchCmd.MarkFlagRequired("skills"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(searchCmd)
}

func searchQuery() scraper.Query {
	return scraper.Query{
		Skills:     searchFlags.skills,
		Field:      searchFlags.field,
		MinStipend: searchFlags.minStipend,
		MaxStipend: searchFlags.maxStipend,
	}
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	platforms := searchFlags.platforms
	if len(platforms) == 0 {
		platforms = a.Aggregator.Platforms()
	}

	spinner, _ := pterm.DefaultSpinner.Start("Searching " + strings.Join(platforms, ", ") + "...")
	listings := a.Aggregator.Fetch(cmd.Context(), platforms, searchQuery())
	spinner.Success("Found ", len(listings), " listings")

	if len(listings) == 0 {
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(listingTable(listings)).Render()
}
