package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/config"
	"github.com/gestorhub/taskdesk/internal/gateway"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "taskdesk",
	Short:        "Command line client for the taskdesk API",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
}

// loadConfig reads the configuration or exits. Commands call it lazily so
// that `taskdesk help` works without any config at all.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func newGateway(cfg *config.Config) *gateway.Client {
	return gateway.NewClient(cfg.APIBaseURL, cfg.APIToken, http.DefaultClient)
}
