package main

import (
	"log"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/gateway"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token in the config file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		creds, err := gateway.Login(cmd.Context(), cfg.APIBaseURL, loginEmail, loginPassword, http.DefaultClient)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}

		cfg.APIToken = creds.Token
		cfg.CompanyID = creds.CompanyID
		if err := cfg.Save(configPath); err != nil {
			log.Fatalf("failed to save config: %v", err)
		}
		color.Green("logged in as %s", loginEmail)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
