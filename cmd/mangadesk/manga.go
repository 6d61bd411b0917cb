package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/spf13/cobra"
)

var (
	mangaRefresh    bool
	chaptersRefresh bool
)

var mangaCmd = &cobra.Command{
	Use:   "manga <manga-id>",
	Short: "Show the details of a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mangaID, err := parseID(args[0], "manga id")
		if err != nil {
			return err
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		m, err := e.mangas().GetManga(cmd.Context(), mangaID, mangaRefresh)
		if err != nil {
			return fmt.Errorf("failed to get manga %d: %w", mangaID, err)
		}

		fmt.Println(styles.TitleStyle.Render(m.Title))
		fmt.Printf("ID:      %d\n", m.ID)
		fmt.Printf("Source:  %d\n", m.SourceID)
		if m.Author != "" {
			fmt.Printf("Author:  %s\n", m.Author)
		}
		if m.Artist != "" && m.Artist != m.Author {
			fmt.Printf("Artist:  %s\n", m.Artist)
		}
		fmt.Printf("Status:  %s\n", styles.StatusStyle(m.Status).Render(m.Status))
		if len(m.Genre) > 0 {
			fmt.Printf("Genres:  %s\n", strings.Join(m.Genre, ", "))
		}
		if m.Description != "" {
			fmt.Printf("\n%s\n", m.Description)
		}
		return nil
	},
}

var chaptersCmd = &cobra.Command{
	Use:   "chapters <manga-id>",
	Short: "List the chapters of a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mangaID, err := parseID(args[0], "manga id")
		if err != nil {
			return err
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		chapters, err := e.chapters().GetChapters(cmd.Context(), mangaID, chaptersRefresh)
		if err != nil {
			return fmt.Errorf("failed to list chapters of manga %d: %w", mangaID, err)
		}
		if len(chapters) == 0 {
			fmt.Println("No chapters found")
			return nil
		}

		t := newTable("Index", "Number", "Name", "Scanlator", "Uploaded", "Read", "Bookmark", "Page")
		for _, c := range chapters {
			uploaded := ""
			if c.UploadDate > 0 {
				uploaded = time.UnixMilli(c.UploadDate).Format(time.DateOnly)
			}
			page := ""
			if c.LastPageRead > 0 {
				page = strconv.Itoa(c.LastPageRead)
			}
			t.Row(
				strconv.Itoa(c.Index),
				formatNumber(c.ChapterNumber),
				truncateString(c.Name, 40),
				truncateString(c.Scanlator, 20),
				uploaded,
				check(c.Read),
				check(c.Bookmarked),
				page,
			)
		}
		fmt.Println(t)
		fmt.Printf("\n%d chapters\n", len(chapters))
		return nil
	},
}

func init() {
	mangaCmd.Flags().BoolVar(&mangaRefresh, "refresh", false, "fetch the manga from its source")
	chaptersCmd.Flags().BoolVar(&chaptersRefresh, "refresh", false, "fetch the chapter list from the source")
}
