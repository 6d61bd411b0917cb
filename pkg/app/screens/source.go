package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangadesk/pkg/app/components"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
)

// SourceView renders the browse state of one open source tab.
type SourceView struct {
	vm        *viewmodel.SourceScreen
	mangaList *components.List[data.Manga]
	unsubs    []func()
}

func NewSourceView(ctx context.Context, deps Deps, source data.Source, w *watcher) *SourceView {
	vm := viewmodel.NewSourceScreen(ctx, viewmodel.SourceScreenParams{
		Bundle:  deps.Bundle,
		Browser: deps.Browser,
		Source:  source,
		Logger:  deps.Logger,
	})
	return &SourceView{
		vm:        vm,
		mangaList: components.NewMangaList(),
		unsubs: []func(){
			watchFlow(w, vm.Mangas()),
			watchFlow(w, vm.IsLoading()),
			watchFlow(w, vm.HasNextPage()),
			watchFlow(w, vm.Query()),
		},
	}
}

// Search is registered as the sources menu search callback while this tab
// is selected.
func (v *SourceView) Search(query *string) {
	v.vm.SetQuery(query)
}

func (v *SourceView) SetSize(width, height int) {
	v.mangaList.Width = width - 4
	v.mangaList.Height = height - 10
}

func (v *SourceView) Sync() {
	v.mangaList.SetItems(v.vm.Mangas().Value())
}

func (v *SourceView) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		v.mangaList.Prev()
	case "down", "j":
		if v.mangaList.AtEnd() {
			v.vm.LoadNextPage()
			return nil
		}
		v.mangaList.Next()
	case "n":
		v.vm.LoadNextPage()
	case "r":
		v.vm.SetQuery(v.vm.Query().Value())
	case "enter":
		if manga, ok := v.mangaList.Selected(); ok {
			return func() tea.Msg { return openDetailsMsg{manga: manga} }
		}
	}
	return nil
}

func (v *SourceView) View() string {
	source := v.vm.Source()
	title := fmt.Sprintf("%s (%s) • popular", source.Name, source.Lang)
	if q := v.vm.Query().Value(); q != nil {
		title = fmt.Sprintf("%s (%s) • search: %q", source.Name, source.Lang, *q)
	}

	body := v.mangaList.View()
	if v.vm.IsLoading().Value() {
		body += styles.StatusDownloading.Render("Loading...") + "\n"
	} else if v.vm.HasNextPage().Value() {
		body += styles.MutedStyle.Render("n: more") + "\n"
	}

	help := styles.HelpStyle.Render("↑/k ↓/j: navigate • enter: details • r: reload • /: search")
	return styles.SubtitleStyle.Render(title) + "\n\n" + body + help
}

// Close stops the view model and detaches it from the watcher.
func (v *SourceView) Close() error {
	unsubscribeAll(v.unsubs)
	return v.vm.Close()
}
