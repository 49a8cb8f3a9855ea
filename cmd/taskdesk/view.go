package main

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/prefs"
)

var viewCmd = &cobra.Command{
	Use:   "view [list|kanban]",
	Short: "Show or set the preferred task view",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := prefs.NewStore(cfg.PrefsPath)

		if len(args) == 0 {
			fmt.Println(store.ViewMode())
			return
		}

		mode := prefs.ViewMode(args[0])
		if mode != prefs.ViewList && mode != prefs.ViewKanban {
			log.Fatalf("unknown view %q, want list or kanban", args[0])
		}
		if err := store.SetViewMode(mode); err != nil {
			log.Fatalf("failed to save view preference: %v", err)
		}
		color.Green("view set to %s", mode)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
