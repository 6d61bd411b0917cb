package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	serverURL  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "mangadesk",
	Short:        "A terminal client for a Tachidesk manga server",
	Long:         "Browse the sources of a Tachidesk server, track chapters and export them as EPUB",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	// Launch TUI by default
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/mangadesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL, overrides the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(mangaCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tabsCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
