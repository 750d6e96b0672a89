package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-internship-automation/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Loads .env, the YAML file and environment overrides and prints the result with secrets masked.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithHasHeader().WithData(configTable(cfg)).Render()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return pterm.FgGray.Sprint("(unset)")
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 4) + secret[len(secret)-4:]
}

func configTable(cfg *config.Config) pterm.TableData {
	return pterm.TableData{
		{"Key", "Value"},
		{"log_level", cfg.LogLevel},
		{"http.port", cfg.HTTP.Port},
		{"portal.base_url", cfg.Portal.BaseURL},
		{"portal.headless", fmt.Sprint(cfg.Portal.Headless)},
		{"sessions.dir", cfg.Sessions.Dir},
		{"cache.ttl", cfg.Cache.TTL.String()},
		{"timeouts.apply_request", cfg.Timeouts.ApplyRequest.String()},
		{"timeouts.manual_login", cfg.Timeouts.ManualLogin.String()},
		{"providers.enabled", strings.Join(cfg.Providers.Enabled, ", ")},
		{"providers.rapidapi_key", mask(cfg.Providers.RapidAPIKey)},
		{"providers.adzuna.app_key", mask(cfg.Providers.Adzuna.AppKey)},
		{"database_url", mask(cfg.DatabaseURL)},
		{"huggingface_api_key", mask(cfg.HuggingFaceAPIKey)},
		{"telegram_token", mask(cfg.TelegramToken)},
		{"alerts", fmt.Sprint(cfg.AlertsEnabled())},
	}
}
