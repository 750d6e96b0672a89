package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-internship-automation/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a visible browser and store the session",
	Long:  "Opens a visible browser so a CAPTCHA can be solved by hand, then stores the session cookies for later headless runs.",
	RunE:  runLogin,
}

var loginFlags struct {
	email, password string
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.email, "email", "e", "", "Portal account email (required)")
	loginCmd.Flags().StringVarP(&loginFlags.password, "password", "p", "", "Portal account password (required)")
	for _, name := range []string{"email", "password"} {
		if err := loginCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	msg, err := a.Portal.Login(cmd.Context(), models.Credentials{Email: loginFlags.email, Password: loginFlags.password})
	if err != nil {
		return err
	}
	pterm.Success.Println(msg)
	return nil
}
