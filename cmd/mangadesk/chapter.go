package cmd

import (
	"fmt"
	"time"

	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/spf13/cobra"
)

var (
	updateRead       bool
	updateBookmarked bool
	updateLastPage   int
	updatePrevRead   bool
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Inspect and update a single chapter",
}

var chapterShowCmd = &cobra.Command{
	Use:   "show <manga-id> <index>",
	Short: "Show a chapter",
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

		c, err := e.chapters().GetChapter(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get chapter: %w", err)
		}

		fmt.Printf("Manga:      %d\n", c.MangaID)
		fmt.Printf("Index:      %d\n", c.Index)
		fmt.Printf("Number:     %s\n", formatNumber(c.ChapterNumber))
		fmt.Printf("Name:       %s\n", c.Name)
		if c.Scanlator != "" {
			fmt.Printf("Scanlator:  %s\n", c.Scanlator)
		}
		if c.UploadDate > 0 {
			fmt.Printf("Uploaded:   %s\n", time.UnixMilli(c.UploadDate).Format(time.DateOnly))
		}
		fmt.Printf("Pages:      %d\n", c.PageCount)
		fmt.Printf("Read:       %t (last page %d)\n", c.Read, c.LastPageRead)
		fmt.Printf("Bookmarked: %t\n", c.Bookmarked)
		return nil
	},
}

var chapterUpdateCmd = &cobra.Command{
	Use:   "update <manga-id> <index>",
	Short: "Update the read state of a chapter",
	Long: `Update the read state of a chapter. Only the flags given are sent.

Examples:
  mangadesk chapter update 12 3 --read
  mangadesk chapter update 12 3 --bookmarked=false --last-page 7
  mangadesk chapter update 12 3 --mark-prev-read`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseChapterKey(args[0], args[1])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var update interactions.ChapterUpdate
		if flags.Changed("read") {
			update.Read = interactions.Bool(updateRead)
		}
		if flags.Changed("bookmarked") {
			update.Bookmarked = interactions.Bool(updateBookmarked)
		}
		if flags.Changed("last-page") {
			if updateLastPage < 0 {
				return fmt.Errorf("invalid last page %d", updateLastPage)
			}
			update.LastPageRead = interactions.Int(updateLastPage)
		}
		if flags.Changed("mark-prev-read") {
			update.MarkPreviousRead = interactions.Bool(updatePrevRead)
		}
		if update.Form().Len() == 0 {
			return fmt.Errorf("nothing to update: pass at least one of --read, --bookmarked, --last-page, --mark-prev-read")
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.chapters().UpdateChapter(cmd.Context(), key, update); err != nil {
			return fmt.Errorf("failed to update chapter: %w", err)
		}
		fmt.Printf("Updated chapter %d of manga %d\n", key.Index, key.MangaID)
		return nil
	},
}

var chapterMetaCmd = &cobra.Command{
	Use:   "meta <manga-id> <index> <key> <value>",
	Short: "Set a metadata entry on a chapter",
	Args:  cobra.ExactArgs(4),
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

		if err := e.chapters().UpdateChapterMeta(cmd.Context(), key, args[2], args[3]); err != nil {
			return fmt.Errorf("failed to update chapter meta: %w", err)
		}
		fmt.Printf("Set %s on chapter %d of manga %d\n", args[2], key.Index, key.MangaID)
		return nil
	},
}

func init() {
	f := chapterUpdateCmd.Flags()
	f.BoolVar(&updateRead, "read", false, "mark the chapter read or unread")
	f.BoolVar(&updateBookmarked, "bookmarked", false, "bookmark or unbookmark the chapter")
	f.IntVar(&updateLastPage, "last-page", 0, "last page read")
	f.BoolVar(&updatePrevRead, "mark-prev-read", false, "also mark every previous chapter read")

	chapterCmd.AddCommand(chapterShowCmd)
	chapterCmd.AddCommand(chapterUpdateCmd)
	chapterCmd.AddCommand(chapterMetaCmd)
}
