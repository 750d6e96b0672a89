package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/portal"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend internships for a set of skills",
	Long:  "Scrapes the portal's internship listings and ranks IT listings in the stipend range by text similarity to the skills.",
	RunE:  runRecommend,
}

var recommendFlags struct {
	skills          string
	minStipend      int
	maxStipend      int
	email, password string
}

func init() {
	f := recommendCmd.Flags()
	f.StringVarP(&recommendFlags.skills, "skills", "s", "", "Skills, e.g. \"python, sql\" (required)")
	f.IntVar(&recommendFlags.minStipend, "min-stipend", 0, "Minimum monthly stipend")
	f.IntVar(&recommendFlags.maxStipend, "max-stipend", 0, "Maximum monthly stipend (0 for no limit)")
	f.StringVarP(&recommendFlags.email, "email", "e", "", "Portal account email, used when no session is stored")
	f.StringVarP(&recommendFlags.password, "password", "p", "", "Portal account password")
	if err := recommendCmd.MarkFlagRequired("skills"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := a.Portal.Recommend(cmd.Context(), portal.RecommendRequest{
		Skills:      recommendFlags.skills,
		MinStipend:  recommendFlags.minStipend,
		MaxStipend:  recommendFlags.maxStipend,
		Credentials: models.Credentials{Email: recommendFlags.email, Password: recommendFlags.password},
	})
	if err != nil {
		return err
	}

	if rec.Fallback {
		pterm.Warning.Println("Portal scrape failed; showing sample listings")
	}
	if len(rec.Recommendations) == 0 {
		pterm.Info.Println("No matching internships found")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(recommendationTable(rec.Recommendations)).Render()
}
