package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/kerbaras/mangadesk/pkg/config"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/spf13/cobra"
)

var sourcesAll bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the sources installed on the server",
	Long:  "List the installed sources whose language is enabled. Use --all to ignore the language filter.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		sources, err := e.sources().GetSourceList(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		if !sourcesAll {
			sources = filterSources(sources, e.cfg.Catalog.Languages)
		}
		if len(sources) == 0 {
			fmt.Println("No sources found")
			return nil
		}

		t := newTable("ID", "Name", "Lang", "Latest", "Configurable")
		for _, s := range sources {
			t.Row(
				strconv.FormatInt(s.ID, 10),
				truncateString(s.Name, 40),
				s.Lang,
				check(s.SupportsLatest),
				check(s.IsConfigurable),
			)
		}
		fmt.Println(t)
		fmt.Printf("\n%d sources\n", len(sources))
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages [lang...]",
	Short: "Show or set the enabled source languages",
	Long:  "Without arguments, list the languages of the installed sources and mark the enabled ones. With arguments, replace the enabled languages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		store := config.NewStore(e.cfg)
		if len(args) > 0 {
			if err := store.SetLanguages(args); err != nil {
				return err
			}
			fmt.Printf("Enabled languages: %v\n", store.Languages())
			return nil
		}

		sources, err := e.sources().GetSourceList(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		counts := map[string]int{}
		for _, s := range sources {
			counts[s.Lang]++
		}
		langs := make([]string, 0, len(counts))
		for lang := range counts {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		enabled := store.Languages()
		t := newTable("Lang", "Sources", "Enabled")
		for _, lang := range langs {
			t.Row(lang, strconv.Itoa(counts[lang]), check(slices.Contains(enabled, lang)))
		}
		fmt.Println(t)
		return nil
	},
}

func filterSources(sources []data.Source, langs []string) []data.Source {
	var out []data.Source
	for _, s := range sources {
		if slices.Contains(langs, s.Lang) {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesAll, "all", false, "include sources of every language")
}
