package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var skillMatchCmd = &cobra.Command{
	Use:   "skill-match <your skills> <job requirements>",
	Short: "Compare your skills with a job's requirements",
	Args:  cobra.ExactArgs(2),
	RunE:  runSkillMatch,
}

func init() {
	rootCmd.AddCommand(skillMatchCmd)
}

func runSkillMatch(cmd *cobra.Command, args []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	match, err := a.Skills.Analyze(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println(fmt.Sprintf("Similarity %.0f%%", match.SimilarityScore*100))
	pterm.Info.Println(match.Analysis)
	if len(match.MissingSkills) > 0 {
		pterm.Warning.Println("Missing: " + joinSkills(match.MissingSkills))
	}
	pterm.Println(match.Suggestions)
	return nil
}
