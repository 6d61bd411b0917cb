package cmd

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/kerbaras/mangadesk/pkg/app/components"
	"github.com/kerbaras/mangadesk/pkg/services"
	"github.com/spf13/cobra"
)

var (
	exportOutput   string
	exportMarkRead bool
)

var exportCmd = &cobra.Command{
	Use:   "export <manga-id> <index...>",
	Short: "Export chapters as EPUB files",
	Long: `Fetch the pages of one or more chapters from the server and write one EPUB per chapter.

Examples:
  mangadesk export 12 0
  mangadesk export 12 0 1 2 -o ~/Books --mark-read`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mangaID, err := parseID(args[0], "manga id")
		if err != nil {
			return err
		}
		indexes := make([]int, 0, len(args)-1)
		for _, arg := range args[1:] {
			index, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid chapter index %q: %w", arg, err)
			}
			indexes = append(indexes, index)
		}

		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		outputDir := e.cfg.Data.ExportDir
		if exportOutput != "" {
			outputDir = exportOutput
		}

		exporter := services.NewExporter(e.chapters(), e.mangas(), outputDir, e.logger)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range exporter.Progress() {
				printProgress(p)
			}
		}()

		paths, err := exporter.ExportChapters(cmd.Context(), mangaID, indexes, services.ExportOptions{MarkRead: exportMarkRead})
		exporter.Close()
		wg.Wait()

		for _, path := range paths {
			if path != "" {
				fmt.Printf("Saved %s\n", path)
			}
		}
		return err
	},
}

func printProgress(p services.ExportProgress) {
	switch p.Status {
	case services.StatusDownloading:
		fmt.Printf("\rChapter %d: %s %d/%d", p.Key.Index, components.SimpleProgress(p.CurrentPage, p.TotalPages, 30), p.CurrentPage, p.TotalPages)
	case services.StatusProcessing:
		fmt.Printf("\rChapter %d: writing EPUB...%20s", p.Key.Index, "")
	case services.StatusComplete:
		fmt.Printf("\rChapter %d: done%30s\n", p.Key.Index, "")
	case services.StatusError:
		fmt.Printf("\rChapter %d: %v\n", p.Key.Index, p.Error)
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportMarkRead, "mark-read", false, "mark chapters read after exporting")
}
