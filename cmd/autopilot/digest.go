package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send new listings to Telegram",
	Long:  "Searches the enabled job boards, drops listings sent in the last 30 days and posts the rest to the configured Telegram chat. Meant for cron.",
	RunE:  runDigest,
}

func init() {
	f := digestCmd.Flags()
	f.StringSliceVar(&searchFlags.platforms, "platforms", nil, "Platforms to query (default: all enabled)")
	f.StringVarP(&searchFlags.skills, "skills", "s", "", "Skills to search for (required)")
	f.StringVarP(&searchFlags.field, "field", "f", "", "Field or category")
	f.IntVar(&searchFlags.minStipend, "min-stipend", 0, "Minimum salary")
	f.IntVar(&searchFlags.maxStipend, "max-stipend", 0, "Maximum salary (0 for no limit)")
	if err := digestCmd.MarkFlagRequired("skills"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if a.Bot == nil {
		pterm.Warning.Println("Telegram is not configured; running dry")
	}

	platforms := searchFlags.platforms
	if len(platforms) == 0 {
		platforms = a.Aggregator.Platforms()
	}

	report, err := a.Digest().Run(cmd.Context(), platforms, searchQuery())
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Fetched %d, new %d, recent %d, sent %d", report.Fetched, report.Fresh, report.Recent, report.Sent)
	if a.Bot == nil && len(report.Listings) > 0 {
		return pterm.DefaultTable.WithHasHeader().WithData(listingTable(report.Listings)).Render()
	}
	return nil
}
