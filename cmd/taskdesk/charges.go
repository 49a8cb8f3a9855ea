package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/models"
)

var (
	chargeNotes   string
	payDate       string
	reportFrom    string
	reportTo      string
	chargePDFPath string
)

var chargesCmd = &cobra.Command{
	Use:   "charges",
	Short: "Billing on tasks",
}

var chargesAddCmd = &cobra.Command{
	Use:   "add [task-id] [value]",
	Short: "Attach a charge to a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatalf("invalid charge value %q", args[1])
		}

		task, err := gw.AddCharge(cmd.Context(), args[0], models.Charge{
			Value: value,
			Notes: chargeNotes,
		})
		if err != nil {
			log.Fatalf("failed to add charge: %v", err)
		}
		color.Green("added charge of %.2f to task %s", value, task.ID)
	},
}

var chargesPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List tasks with unpaid charges",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		page, err := gw.PendingCharges(cmd.Context(), 1, cfg.PageSize)
		if err != nil {
			log.Fatalf("failed to list pending charges: %v", err)
		}
		renderTasks(page.Tasks, page.Count)
	},
}

var chargesPaidCmd = &cobra.Command{
	Use:   "paid",
	Short: "List tasks with settled charges",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		page, err := gw.PaidCharges(cmd.Context(), 1, cfg.PageSize)
		if err != nil {
			log.Fatalf("failed to list paid charges: %v", err)
		}
		renderTasks(page.Tasks, page.Count)
	},
}

var chargesReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Billing report over a date range",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		from, err := time.Parse("2006-01-02", reportFrom)
		if err != nil {
			log.Fatalf("invalid --from date %q, want YYYY-MM-DD", reportFrom)
		}
		to, err := time.Parse("2006-01-02", reportTo)
		if err != nil {
			log.Fatalf("invalid --to date %q, want YYYY-MM-DD", reportTo)
		}

		rows, err := gw.ChargeReport(cmd.Context(), from, to)
		if err != nil {
			log.Fatalf("failed to fetch report: %v", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Task", "Title", "Value", "Paid", "Payment date"})
		var total, settled float64
		for _, row := range rows {
			paid := "no"
			if row.Paid {
				paid = "yes"
				settled += row.Value
			}
			total += row.Value
			t.AppendRow(table.Row{row.TaskID, row.TaskTitle, row.Value, paid, formatDate(row.PaymentDate)})
		}
		t.AppendFooter(table.Row{"", "total", total, "settled", settled})
		t.Render()
	},
}

var chargesPDFCmd = &cobra.Command{
	Use:   "pdf [task-id]",
	Short: "Download a charge document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		out := chargePDFPath
		if out == "" {
			out = "charge-" + args[0] + ".pdf"
		}
		f, err := os.Create(out)
		if err != nil {
			log.Fatalf("failed to create %s: %v", out, err)
		}
		defer f.Close()

		n, err := gw.ChargePDF(cmd.Context(), args[0], f)
		if err != nil {
			log.Fatalf("failed to download charge document: %v", err)
		}
		color.Green("wrote %s (%d bytes)", out, n)
	},
}

var chargesEmailCmd = &cobra.Command{
	Use:   "email [task-id]",
	Short: "Email the charge document to the employer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.EmailCharge(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to email charge: %v", err)
		}
		color.Green("charge for task %s queued for delivery", args[0])
	},
}

var chargesPayCmd = &cobra.Command{
	Use:   "pay [task-id]",
	Short: "Register a payment for a charge",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		when := time.Now()
		if payDate != "" {
			parsed, err := time.Parse("2006-01-02", payDate)
			if err != nil {
				log.Fatalf("invalid --date %q, want YYYY-MM-DD", payDate)
			}
			when = parsed
		}

		task, err := gw.RegisterPayment(cmd.Context(), args[0], when, chargeNotes)
		if err != nil {
			log.Fatalf("failed to register payment: %v", err)
		}
		color.Green("payment registered for task %s", task.ID)
	},
}

func init() {
	chargesAddCmd.Flags().StringVar(&chargeNotes, "notes", "", "notes on the charge")
	chargesPayCmd.Flags().StringVar(&payDate, "date", "", "payment date (YYYY-MM-DD, defaults to today)")
	chargesReportCmd.Flags().StringVar(&reportFrom, "from", "", "start of the range (YYYY-MM-DD)")
	chargesReportCmd.Flags().StringVar(&reportTo, "to", "", "end of the range (YYYY-MM-DD)")
	chargesReportCmd.MarkFlagRequired("from")
	chargesReportCmd.MarkFlagRequired("to")
	chargesPDFCmd.Flags().StringVar(&chargePDFPath, "out", "", "output file (defaults to charge-<id>.pdf)")

	chargesCmd.AddCommand(chargesAddCmd)
	chargesCmd.AddCommand(chargesPendingCmd)
	chargesCmd.AddCommand(chargesPaidCmd)
	chargesCmd.AddCommand(chargesReportCmd)
	chargesCmd.AddCommand(chargesPDFCmd)
	chargesCmd.AddCommand(chargesEmailCmd)
	chargesCmd.AddCommand(chargesPayCmd)
	rootCmd.AddCommand(chargesCmd)
}
