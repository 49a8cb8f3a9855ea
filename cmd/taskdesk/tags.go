package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage task categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		categories, err := gw.ListCategories(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list categories: %v", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Tasks"})
		for _, category := range categories {
			t.AppendRow(table.Row{category.ID, category.Name, category.TasksCount})
		}
		t.Render()
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		category, err := gw.CreateCategory(cmd.Context(), args[0])
		if err != nil {
			log.Fatalf("failed to create category: %v", err)
		}
		color.Green("created category %s", category.ID)
	},
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if _, err := gw.UpdateCategory(cmd.Context(), args[0], args[1]); err != nil {
			log.Fatalf("failed to rename category: %v", err)
		}
		color.Green("renamed category %s", args[0])
	},
}

var categoriesRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a category (refused while tasks use it)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteCategory(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to delete category: %v", err)
		}
		color.Green("deleted category %s", args[0])
	},
}

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Manage task subjects",
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		subjects, err := gw.ListSubjects(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list subjects: %v", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Tasks"})
		for _, subject := range subjects {
			t.AppendRow(table.Row{subject.ID, subject.Name, subject.TasksCount})
		}
		t.Render()
	},
}

var subjectsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		subject, err := gw.CreateSubject(cmd.Context(), args[0])
		if err != nil {
			log.Fatalf("failed to create subject: %v", err)
		}
		color.Green("created subject %s", subject.ID)
	},
}

var subjectsRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a subject",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if _, err := gw.UpdateSubject(cmd.Context(), args[0], args[1]); err != nil {
			log.Fatalf("failed to rename subject: %v", err)
		}
		color.Green("renamed subject %s", args[0])
	},
}

var subjectsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a subject (refused while tasks use it)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteSubject(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to delete subject: %v", err)
		}
		color.Green("deleted subject %s", args[0])
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRenameCmd)
	categoriesCmd.AddCommand(categoriesRmCmd)
	rootCmd.AddCommand(categoriesCmd)

	subjectsCmd.AddCommand(subjectsListCmd)
	subjectsCmd.AddCommand(subjectsAddCmd)
	subjectsCmd.AddCommand(subjectsRenameCmd)
	subjectsCmd.AddCommand(subjectsRmCmd)
	rootCmd.AddCommand(subjectsCmd)
}
