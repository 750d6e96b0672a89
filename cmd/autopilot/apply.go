package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/portal"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to the best matching listings",
	Long:  "Logs in (reusing the stored session when possible), filters the portal's listings by the given criteria and applies to the five best matches.",
	RunE:  runApply,
}

var applyFlags struct {
	email, password string
	role, location  string
	duration        string
	listingType     string
	minStipend      int
	resume          string
}

func init() {
	f := applyCmd.Flags()
	f.StringVarP(&applyFlags.email, "email", "e", "", "Portal account email (required)")
	f.StringVarP(&applyFlags.password, "password", "p", "", "Portal account password (required)")
	f.StringVarP(&applyFlags.role, "role", "r", "", "Role to search for (required)")
	f.StringVarP(&applyFlags.location, "location", "l", "", "Preferred location")
	f.StringVarP(&applyFlags.duration, "duration", "d", "", "Preferred duration, e.g. \"3 months\"")
	f.StringVarP(&applyFlags.listingType, "type", "t", string(models.Internship), "internship or job")
	f.IntVar(&applyFlags.minStipend, "min-stipend", 0, "Minimum monthly stipend")
	f.StringVar(&applyFlags.resume, "resume", "", "Resume file to upload where a form asks for one")

	for _, name := range []string{"email", "password", "role"} {
		if err := applyCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	spinner, _ := pterm.DefaultSpinner.Start("Applying to listings...")
	result, err := a.Portal.AutoApply(cmd.Context(), portal.ApplyRequest{
		Credentials: models.Credentials{Email: applyFlags.email, Password: applyFlags.password},
		Criteria: models.SearchCriteria{
			Role:       applyFlags.role,
			Location:   applyFlags.location,
			MinStipend: applyFlags.minStipend,
			Duration:   applyFlags.duration,
			Type:       models.ListingType(applyFlags.listingType),
		},
		ResumePath: applyFlags.resume,
	})
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(result.Message)

	if err := pterm.DefaultTable.WithHasHeader().WithData(outcomeTable(result)).Render(); err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(summaryTable(result.Summary)).Render()
}
