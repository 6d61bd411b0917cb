package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Manage the server's download queue",
}

var downloadQueueCmd = &cobra.Command{
	Use:   "queue <manga-id> <index>",
	Short: "Queue a chapter for download on the server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseChapterKey(args[0], args[1])
		if err != nil {
			return err
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.chapters().QueueChapterDownload(cmd.Context(), key); err != nil {
			return fmt.Errorf("failed to queue download: %w", err)
		}
		fmt.Printf("Queued chapter %d of manga %d\n", key.Index, key.MangaID)
		return nil
	},
}

var downloadDeleteCmd = &cobra.Command{
	Use:   "delete <manga-id> <index>",
	Short: "Delete a downloaded chapter from the server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseChapterKey(args[0], args[1])
		if err != nil {
			return err
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.chapters().DeleteChapterDownload(cmd.Context(), key); err != nil {
			return fmt.Errorf("failed to delete download: %w", err)
		}
		fmt.Printf("Deleted download of chapter %d of manga %d\n", key.Index, key.MangaID)
		return nil
	},
}

func init() {
	downloadCmd.AddCommand(downloadQueueCmd)
	downloadCmd.AddCommand(downloadDeleteCmd)
}
