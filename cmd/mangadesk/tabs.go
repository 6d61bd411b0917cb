package cmd

import (
	"fmt"
	"strconv"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
	"github.com/spf13/cobra"
)

var tabsClear bool

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Show the saved source tabs of the TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		repo, err := data.OpenRepository(e.cfg.Data.Path)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		defer repo.Close()

		if tabsClear {
			if err := repo.DeleteBundle(viewmodel.SourcesMenuScope); err != nil {
				return err
			}
			fmt.Println("Cleared saved tabs")
			return nil
		}

		b, err := repo.LoadBundle(viewmodel.SourcesMenuScope)
		if err != nil {
			return err
		}
		ids, _ := b.Int64s(viewmodel.SourceTabsKey)
		if len(ids) == 0 {
			fmt.Println("No saved tabs")
			return nil
		}
		selected := b.Int64(viewmodel.SelectedSourceTabKey, -1)

		t := newTable("Source", "Selected", "Query")
		for _, id := range ids {
			query, _ := b.String(viewmodel.TabStateKey(id))
			t.Row(strconv.FormatInt(id, 10), check(id == selected), query)
		}
		fmt.Println(t)
		return nil
	},
}

func init() {
	tabsCmd.Flags().BoolVar(&tabsClear, "clear", false, "forget the saved tabs")
}
