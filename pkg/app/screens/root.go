package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangadesk/pkg/app/components"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/bundle"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/kerbaras/mangadesk/pkg/services"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
	"github.com/rs/zerolog"
)

type MangaLoader interface {
	GetManga(ctx context.Context, mangaID int64, refresh bool) (data.Manga, error)
}

type ChapterActions interface {
	GetMangaChapters(ctx context.Context, manga data.Manga, refresh bool) ([]data.Chapter, error)
	UpdateChapter(ctx context.Context, key data.ChapterKey, update interactions.ChapterUpdate) error
	QueueChapterDownload(ctx context.Context, key data.ChapterKey) error
	DeleteChapterDownload(ctx context.Context, key data.ChapterKey) error
}

type ChapterExporter interface {
	ExportChapter(ctx context.Context, key data.ChapterKey, opts services.ExportOptions) (string, error)
	Progress() <-chan services.ExportProgress
}

// Deps are the collaborators of the sources screens.
type Deps struct {
	Menu     *viewmodel.SourcesMenu
	Browser  viewmodel.SourceBrowser
	Mangas   MangaLoader
	Chapters ChapterActions
	Exporter ChapterExporter
	Bundle   *bundle.Bundle
	Logger   zerolog.Logger
}

// RootScreen renders the sources menu: a tab bar with the "all sources" tab
// followed by one tab per open source, and the search bar.
type RootScreen struct {
	ctx   context.Context
	deps  Deps
	menu  *viewmodel.SourcesMenu
	watch *watcher

	catalog *CatalogScreen
	sources map[int64]*SourceView
	details *DetailsScreen
	search  textinput.Model

	width  int
	height int
}

func NewRootScreen(ctx context.Context, deps Deps) *RootScreen {
	ti := textinput.New()
	ti.Placeholder = "Search source..."
	ti.CharLimit = 100
	ti.Width = 50

	r := &RootScreen{
		ctx:     ctx,
		deps:    deps,
		menu:    deps.Menu,
		watch:   newWatcher(),
		catalog: NewCatalogScreen(deps.Menu),
		sources: map[int64]*SourceView{},
		search:  ti,
	}

	watchFlow(r.watch, r.menu.IsLoading())
	watchFlow(r.watch, r.menu.Sources())
	watchFlow(r.watch, r.menu.Languages())
	watchFlow(r.watch, r.menu.SourceTabs())
	watchFlow(r.watch, r.menu.SelectedSourceTab())
	watchFlow(r.watch, r.menu.SourceSearchEnabled())
	watchFlow(r.watch, r.menu.SourceSearchQuery())

	r.sync()
	return r
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(r.watch.Wait(), r.listenForProgress)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.catalog.SetSize(msg.Width, msg.Height)
		for _, view := range r.sources {
			view.SetSize(msg.Width, msg.Height)
		}
		if r.details != nil {
			r.details.SetSize(msg.Width, msg.Height)
		}
		return r, nil

	case stateChangedMsg:
		r.sync()
		return r, r.watch.Wait()

	case services.ExportProgress:
		if r.details != nil {
			r.details, _ = r.details.Update(msg)
		}
		return r, r.listenForProgress

	case openDetailsMsg:
		r.details = NewDetailsScreen(r.ctx, r.deps, msg.manga)
		r.details.SetSize(r.width, r.height)
		return r, r.details.Init()

	case closeDetailsMsg:
		r.details = nil
		return r, nil

	case tea.KeyMsg:
		return r, r.handleKey(msg)
	}

	if r.details != nil {
		var cmd tea.Cmd
		r.details, cmd = r.details.Update(msg)
		return r, cmd
	}
	if r.search.Focused() {
		var cmd tea.Cmd
		r.search, cmd = r.search.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *RootScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if r.details != nil {
		var cmd tea.Cmd
		r.details, cmd = r.details.Update(msg)
		return cmd
	}

	if r.menu.SourceSearchEnabled().Value() {
		switch msg.String() {
		case "enter":
			r.menu.Search(r.search.Value())
			r.menu.SubmitSearch()
			r.closeSearch()
			return nil
		case "esc":
			r.closeSearch()
			return nil
		}
		var cmd tea.Cmd
		r.search, cmd = r.search.Update(msg)
		r.menu.Search(r.search.Value())
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		if r.menu.SelectedSourceTab().Value() != nil {
			return r.openSearch()
		}
	case "tab":
		r.cycleTab(1)
		return nil
	case "shift+tab":
		r.cycleTab(-1)
		return nil
	case "x":
		if selected := r.menu.SelectedSourceTab().Value(); selected != nil {
			r.menu.CloseTab(*selected)
		}
		return nil
	}

	if view := r.activeSource(); view != nil {
		return view.Update(msg)
	}
	return r.catalog.Update(msg)
}

func (r *RootScreen) openSearch() tea.Cmd {
	value := ""
	if q := r.menu.SourceSearchQuery().Value(); q != nil {
		value = *q
	}
	r.search.SetValue(value)
	r.search.CursorEnd()
	r.menu.EnableSearch(true)
	return r.search.Focus()
}

func (r *RootScreen) closeSearch() {
	r.search.Blur()
	r.menu.EnableSearch(false)
}

func (r *RootScreen) cycleTab(step int) {
	tabs := r.menu.SourceTabs().Value()
	if len(tabs) == 0 {
		return
	}
	next := (r.activeTabIndex() + step + len(tabs)) % len(tabs)
	r.menu.SelectTab(tabs[next])
}

func (r *RootScreen) activeTabIndex() int {
	selected := r.menu.SelectedSourceTab().Value()
	if selected == nil {
		return 0
	}
	for i, tab := range r.menu.SourceTabs().Value() {
		if tab != nil && tab.ID == selected.ID {
			return i
		}
	}
	return 0
}

func (r *RootScreen) activeSource() *SourceView {
	selected := r.menu.SelectedSourceTab().Value()
	if selected == nil {
		return nil
	}
	return r.sources[selected.ID]
}

// sync reconciles the open source views with the menu's tabs and points the
// menu's search at the selected tab.
func (r *RootScreen) sync() {
	open := map[int64]bool{}
	for _, tab := range r.menu.SourceTabs().Value() {
		if tab == nil {
			continue
		}
		open[tab.ID] = true
		if _, ok := r.sources[tab.ID]; !ok {
			view := NewSourceView(r.ctx, r.deps, *tab, r.watch)
			view.SetSize(r.width, r.height)
			r.sources[tab.ID] = view
		}
	}
	for id, view := range r.sources {
		if !open[id] {
			if err := view.Close(); err != nil {
				r.deps.Logger.Warn().Err(err).Int64("source", id).Msg("closing source tab")
			}
			delete(r.sources, id)
		}
	}

	if view := r.activeSource(); view != nil {
		r.menu.SetSearch(view.Search)
		view.Sync()
	} else {
		r.menu.SetSearch(nil)
	}
	r.catalog.Sync()
}

func (r *RootScreen) View() string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		styles.TitleStyle.Render("mangadesk"),
		styles.MutedStyle.Render("  "+r.menu.ServerURL()),
	)

	if r.details != nil {
		return fmt.Sprintf("%s\n\n%s", header, r.details.View())
	}

	labels := []string{"All"}
	for _, tab := range r.menu.SourceTabs().Value() {
		if tab != nil {
			labels = append(labels, tab.Name)
		}
	}
	tabs := components.RenderTabs(labels, r.activeTabIndex())

	var searchBar string
	if r.menu.SourceSearchEnabled().Value() {
		searchBar = styles.FocusedInputStyle.Render(r.search.View()) + "\n"
	}

	var content string
	if view := r.activeSource(); view != nil {
		content = view.View()
	} else {
		content = r.catalog.View()
	}

	help := styles.HelpStyle.Render("tab/shift+tab: switch tab • x: close tab • q: quit")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabs, searchBar, content, help)
}

// Close stops every open source view.
func (r *RootScreen) Close() {
	for id, view := range r.sources {
		_ = view.Close()
		delete(r.sources, id)
	}
}

func (r *RootScreen) listenForProgress() tea.Msg {
	progress, ok := <-r.deps.Exporter.Progress()
	if !ok {
		return nil
	}
	return progress
}
