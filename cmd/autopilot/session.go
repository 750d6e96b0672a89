package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session [email]",
	Short: "Check whether the stored session is still logged in",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	var user string
	if len(args) == 1 {
		user = args[0]
	}

	ok, err := a.Portal.CheckSession(cmd.Context(), user)
	if err != nil {
		return err
	}
	if ok {
		pterm.Success.Println("Stored session is logged in")
	} else {
		pterm.Warning.Println("No valid session stored; run `autopilot login`")
	}
	return nil
}
