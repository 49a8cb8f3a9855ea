package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var attachmentOut string

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Notes on tasks",
}

var notesAddCmd = &cobra.Command{
	Use:   "add [task-id] [content]",
	Short: "Add a note to a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		note, err := gw.AddNote(cmd.Context(), args[0], args[1])
		if err != nil {
			log.Fatalf("failed to add note: %v", err)
		}
		color.Green("added note %s", note.ID)
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm [task-id] [note-id]",
	Short: "Delete a note (authors only)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteNote(cmd.Context(), args[0], args[1]); err != nil {
			log.Fatalf("failed to delete note: %v", err)
		}
		color.Green("deleted note %s", args[1])
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "File attachments on tasks",
}

var attachUpCmd = &cobra.Command{
	Use:   "up [task-id] [file]",
	Short: "Upload a file to a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		f, err := os.Open(args[1])
		if err != nil {
			log.Fatalf("failed to open %s: %v", args[1], err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			log.Fatalf("failed to stat %s: %v", args[1], err)
		}

		attachment, err := gw.UploadAttachment(cmd.Context(), args[0],
			filepath.Base(args[1]), f, info.Size(), nil)
		if err != nil {
			log.Fatalf("failed to upload: %v", err)
		}
		color.Green("uploaded attachment %s", attachment.ID)
	},
}

var attachDownCmd = &cobra.Command{
	Use:   "down [task-id] [attachment-id]",
	Short: "Download an attachment",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		out := attachmentOut
		if out == "" {
			out = args[1]
		}
		f, err := os.Create(out)
		if err != nil {
			log.Fatalf("failed to create %s: %v", out, err)
		}
		defer f.Close()

		n, err := gw.DownloadAttachment(cmd.Context(), args[0], args[1], f)
		if err != nil {
			log.Fatalf("failed to download: %v", err)
		}
		color.Green("wrote %s (%d bytes)", out, n)
	},
}

var attachRmCmd = &cobra.Command{
	Use:   "rm [task-id] [attachment-id]",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteAttachment(cmd.Context(), args[0], args[1]); err != nil {
			log.Fatalf("failed to delete attachment: %v", err)
		}
		color.Green("deleted attachment %s", args[1])
	},
}

func init() {
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesRmCmd)
	rootCmd.AddCommand(notesCmd)

	attachDownCmd.Flags().StringVar(&attachmentOut, "out", "", "output file (defaults to the attachment ID)")
	attachCmd.AddCommand(attachUpCmd)
	attachCmd.AddCommand(attachDownCmd)
	attachCmd.AddCommand(attachRmCmd)
	rootCmd.AddCommand(attachCmd)
}
