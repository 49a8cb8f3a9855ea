package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/gateway"
	"github.com/gestorhub/taskdesk/internal/query"
)

var (
	exportFormat string
	exportOut    string
	exportTab    string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Bulk import tasks from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("failed to open %s: %v", args[0], err)
		}
		defer f.Close()

		result, err := gw.ImportTasks(cmd.Context(), filepath.Base(args[0]), f)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}

		color.Green("imported %d tasks (batch %s)", result.Imported, result.BatchID)
		if result.Skipped > 0 {
			color.Yellow("skipped %d rows", result.Skipped)
			for _, msg := range result.Errors {
				log.Printf("  %s", msg)
			}
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the task list to a file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		format := gateway.ExportFormat(exportFormat)
		out := exportOut
		if out == "" {
			ext := "pdf"
			if format == gateway.ExportExcel {
				ext = "csv"
			}
			out = "tasks." + ext
		}

		f, err := os.Create(out)
		if err != nil {
			log.Fatalf("failed to create %s: %v", out, err)
		}
		defer f.Close()

		params := query.Resolve(query.Tab(exportTab), query.Filters{}, "")
		n, err := gw.ExportTasks(cmd.Context(), format, params, f)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		color.Green("wrote %s (%d bytes)", out, n)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "excel", "export format (pdf or excel)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file")
	exportCmd.Flags().StringVar(&exportTab, "tab", "all", "tab to export")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
