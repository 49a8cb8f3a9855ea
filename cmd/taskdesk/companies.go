package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/gateway"
)

var companiesExportFormat string

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Tenant administration (admin only)",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		page, err := gw.ListCompanies(cmd.Context(), 1, cfg.PageSize)
		if err != nil {
			log.Fatalf("failed to list companies: %v", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Plan", "Users", "Status"})
		for _, company := range page.Companies {
			status := text.FgHiGreen.Sprint("active")
			if company.Blocked {
				status = text.FgHiRed.Sprint("blocked")
			}
			t.AppendRow(table.Row{company.ID, company.Name, company.Plan, company.UsersCount, status})
		}
		t.Render()
	},
}

var companiesBlockCmd = &cobra.Command{
	Use:   "block [id]",
	Short: "Block a company",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.BlockCompany(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to block company: %v", err)
		}
		color.Green("blocked company %s", args[0])
	},
}

var companiesUnblockCmd = &cobra.Command{
	Use:   "unblock [id]",
	Short: "Unblock a company",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.UnblockCompany(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to unblock company: %v", err)
		}
		color.Green("unblocked company %s", args[0])
	},
}

var companiesRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a company and all of its data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteCompany(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to delete company: %v", err)
		}
		color.Green("deleted company %s", args[0])
	},
}

var companiesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the company list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		f, err := os.Create(args[0])
		if err != nil {
			log.Fatalf("failed to create %s: %v", args[0], err)
		}
		defer f.Close()

		n, err := gw.ExportCompanies(cmd.Context(), gateway.ExportFormat(companiesExportFormat), f)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		color.Green("wrote %s (%d bytes)", args[0], n)
	},
}

func init() {
	companiesExportCmd.Flags().StringVar(&companiesExportFormat, "format", "excel", "export format (pdf or excel)")

	companiesCmd.AddCommand(companiesListCmd)
	companiesCmd.AddCommand(companiesBlockCmd)
	companiesCmd.AddCommand(companiesUnblockCmd)
	companiesCmd.AddCommand(companiesRmCmd)
	companiesCmd.AddCommand(companiesExportCmd)
	rootCmd.AddCommand(companiesCmd)
}
