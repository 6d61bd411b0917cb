package cmd

import (
	"fmt"
	"strconv"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/spf13/cobra"
)

var (
	browseLatest bool
	browsePage   int
	browseQuery  string
)

var browseCmd = &cobra.Command{
	Use:   "browse <source-id>",
	Short: "List the mangas of a source",
	Long: `List one page of a source's popular mangas.

Examples:
  mangadesk browse 2499283573021220255
  mangadesk browse 2499283573021220255 --latest --page 2
  mangadesk browse 2499283573021220255 --query "one piece"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceID, err := parseID(args[0], "source id")
		if err != nil {
			return err
		}
		if browsePage < 1 {
			return fmt.Errorf("invalid page %d: pages start at 1", browsePage)
		}
		if browseLatest && browseQuery != "" {
			return fmt.Errorf("--latest and --query are mutually exclusive")
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		h := e.sources()
		var page data.MangaPage
		switch {
		case browseQuery != "":
			page, err = h.GetSearchResults(ctx, sourceID, browseQuery, browsePage)
		case browseLatest:
			page, err = h.GetLatestManga(ctx, sourceID, browsePage)
		default:
			page, err = h.GetPopularManga(ctx, sourceID, browsePage)
		}
		if err != nil {
			return fmt.Errorf("failed to browse source %d: %w", sourceID, err)
		}
		if len(page.Mangas) == 0 {
			fmt.Println("No mangas found")
			return nil
		}

		t := newTable("ID", "Title", "Author", "Status", "Library")
		for _, m := range page.Mangas {
			t.Row(
				strconv.FormatInt(m.ID, 10),
				truncateString(m.Title, 50),
				truncateString(m.Author, 20),
				m.Status,
				check(m.InLibrary),
			)
		}
		fmt.Println(t)
		if page.HasNextPage {
			fmt.Printf("\nMore results: --page %d\n", browsePage+1)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().BoolVar(&browseLatest, "latest", false, "list the latest mangas instead of the popular ones")
	browseCmd.Flags().IntVarP(&browsePage, "page", "p", 1, "page to fetch")
	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "search the source")
}
