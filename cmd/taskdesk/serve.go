package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/devserver"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

var serveNoBroker bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development API server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		store, err := devserver.OpenStore(cfg.DevServerDB)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		if err := store.SeedDefaults(); err != nil {
			log.Fatalf("failed to seed defaults: %v", err)
		}

		var pub realtime.Publisher = realtime.NopPublisher{}
		if !serveNoBroker {
			channel, err := realtime.DialAMQP(cfg.AMQPURL)
			if err != nil {
				log.Printf("broker unavailable, realtime events disabled: %v", err)
			} else {
				defer channel.Close()
				p, err := channel.NewPublisher()
				if err != nil {
					log.Fatalf("failed to open publisher channel: %v", err)
				}
				defer p.Close()
				pub = p
			}
		}

		server := devserver.New(store, pub)
		log.Printf("taskdesk dev server listening on %s", cfg.DevServerAddr)
		if err := server.Run(cfg.DevServerAddr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoBroker, "no-broker", false, "run without the message broker")
	rootCmd.AddCommand(serveCmd)
}
