package screens

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangadesk/pkg/bundle"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/kerbaras/mangadesk/pkg/services"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct{ sources []data.Source }

func (m *mockLister) GetSourceList(ctx context.Context) ([]data.Source, error) {
	return m.sources, nil
}

type mockLanguages struct{ langs []string }

func (m *mockLanguages) Languages() []string               { return m.langs }
func (m *mockLanguages) SetLanguages(langs []string) error { m.langs = langs; return nil }

type mockBrowser struct {
	mu       sync.Mutex
	searches []string
}

func (m *mockBrowser) GetPopularManga(ctx context.Context, sourceID int64, pageNum int) (data.MangaPage, error) {
	return data.MangaPage{Mangas: []data.Manga{{ID: 1, Title: "Popular"}}}, nil
}

func (m *mockBrowser) GetSearchResults(ctx context.Context, sourceID int64, searchTerm string, pageNum int) (data.MangaPage, error) {
	m.mu.Lock()
	m.searches = append(m.searches, searchTerm)
	m.mu.Unlock()
	return data.MangaPage{Mangas: []data.Manga{{ID: 2, Title: "Found " + searchTerm}}}, nil
}

func (m *mockBrowser) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

type mockChapters struct {
	updates []interactions.ChapterUpdate
}

func (m *mockChapters) GetMangaChapters(ctx context.Context, manga data.Manga, refresh bool) ([]data.Chapter, error) {
	return []data.Chapter{{MangaID: manga.ID, Index: 1, Name: "First"}, {MangaID: manga.ID, Index: 2, Name: "Second"}}, nil
}

func (m *mockChapters) UpdateChapter(ctx context.Context, key data.ChapterKey, update interactions.ChapterUpdate) error {
	m.updates = append(m.updates, update)
	return nil
}

func (m *mockChapters) QueueChapterDownload(ctx context.Context, key data.ChapterKey) error {
	return nil
}
func (m *mockChapters) DeleteChapterDownload(ctx context.Context, key data.ChapterKey) error {
	return nil
}

type mockMangas struct{}

func (mockMangas) GetManga(ctx context.Context, mangaID int64, refresh bool) (data.Manga, error) {
	return data.Manga{ID: mangaID, Title: "Loaded"}, nil
}

type mockExporter struct{ progress chan services.ExportProgress }

func (m *mockExporter) ExportChapter(ctx context.Context, key data.ChapterKey, opts services.ExportOptions) (string, error) {
	return "/tmp/out.epub", nil
}

func (m *mockExporter) Progress() <-chan services.ExportProgress { return m.progress }

var rootSources = []data.Source{
	{ID: 10, Name: "MangaDex", Lang: "en"},
	{ID: 20, Name: "Comick", Lang: "en"},
}

func newTestRoot(t *testing.T) (*RootScreen, *mockBrowser, *mockChapters) {
	t.Helper()
	b := bundle.New()
	menu := viewmodel.NewSourcesMenu(context.Background(), viewmodel.SourcesMenuParams{
		Bundle:    b,
		Sources:   &mockLister{sources: rootSources},
		Languages: &mockLanguages{langs: []string{"en"}},
		ServerURL: "http://localhost:4567",
		Logger:    zerolog.Nop(),
	})
	require.Eventually(t, func() bool { return !menu.IsLoading().Value() }, time.Second, 5*time.Millisecond)

	browser := &mockBrowser{}
	chapters := &mockChapters{}
	root := NewRootScreen(context.Background(), Deps{
		Menu:     menu,
		Browser:  browser,
		Mangas:   mockMangas{},
		Chapters: chapters,
		Exporter: &mockExporter{progress: make(chan services.ExportProgress)},
		Bundle:   b,
		Logger:   zerolog.Nop(),
	})
	root.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	t.Cleanup(func() {
		root.Close()
		_ = menu.Close()
	})
	return root, browser, chapters
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds msg to the root and executes the returned command when it
// produces one of the screen's own messages.
func run(root *RootScreen, msg tea.Msg) {
	_, cmd := root.Update(msg)
	if cmd == nil {
		return
	}
	switch next := cmd().(type) {
	case openDetailsMsg, closeDetailsMsg, detailsLoadedMsg, chapterActionMsg:
		run(root, next)
	}
}

func TestRootOpensSourceTab(t *testing.T) {
	root, _, _ := newTestRoot(t)
	root.Update(stateChangedMsg{})

	assert.Contains(t, root.View(), "MangaDex")
	root.Update(key("j"))
	root.Update(key("enter"))
	root.Update(stateChangedMsg{})

	selected := root.menu.SelectedSourceTab().Value()
	require.NotNil(t, selected)
	assert.Equal(t, int64(20), selected.ID)
	require.Contains(t, root.sources, int64(20))

	require.Eventually(t, func() bool {
		return !root.sources[20].vm.IsLoading().Value()
	}, time.Second, 5*time.Millisecond)
	root.Update(stateChangedMsg{})
	assert.Contains(t, root.View(), "Popular")
}

func TestRootSearchSubmitsToSelectedTab(t *testing.T) {
	root, browser, _ := newTestRoot(t)
	root.menu.AddTab(rootSources[0])
	root.Update(stateChangedMsg{})

	root.Update(key("/"))
	assert.True(t, root.menu.SourceSearchEnabled().Value())

	root.Update(key("berserk"))
	q := root.menu.SourceSearchQuery().Value()
	require.NotNil(t, q)
	assert.Equal(t, "berserk", *q)

	root.Update(key("enter"))
	assert.False(t, root.menu.SourceSearchEnabled().Value())
	require.Eventually(t, func() bool {
		return len(browser.Searches()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"berserk"}, browser.Searches())
}

func TestRootSearchNeedsSourceTab(t *testing.T) {
	root, _, _ := newTestRoot(t)

	root.Update(key("/"))
	assert.False(t, root.menu.SourceSearchEnabled().Value())
}

func TestRootCyclesAndClosesTabs(t *testing.T) {
	root, _, _ := newTestRoot(t)
	root.menu.AddTab(rootSources[0])
	root.menu.AddTab(rootSources[1])
	root.Update(stateChangedMsg{})
	assert.Len(t, root.sources, 2)

	root.Update(key("tab"))
	assert.Nil(t, root.menu.SelectedSourceTab().Value())

	root.Update(key("tab"))
	require.NotNil(t, root.menu.SelectedSourceTab().Value())
	assert.Equal(t, int64(10), root.menu.SelectedSourceTab().Value().ID)

	root.Update(key("x"))
	root.Update(stateChangedMsg{})
	assert.Nil(t, root.menu.SelectedSourceTab().Value())
	assert.Len(t, root.sources, 1)
	assert.NotContains(t, root.sources, int64(10))
}

func TestRootDetailsActions(t *testing.T) {
	root, _, chapters := newTestRoot(t)
	root.menu.AddTab(rootSources[0])
	root.Update(stateChangedMsg{})
	view := root.sources[10]
	require.Eventually(t, func() bool { return !view.vm.IsLoading().Value() }, time.Second, 5*time.Millisecond)
	root.Update(stateChangedMsg{})

	run(root, key("enter"))
	require.NotNil(t, root.details)
	assert.Contains(t, root.View(), "Loaded")
	assert.Contains(t, root.View(), "First")

	run(root, key("r"))
	require.Len(t, chapters.updates, 1)
	assert.Equal(t, "read=true", chapters.updates[0].Form().Encode())

	run(root, key("e"))
	assert.True(t, strings.Contains(root.View(), "/tmp/out.epub"))

	run(root, key("esc"))
	assert.Nil(t, root.details)
}
