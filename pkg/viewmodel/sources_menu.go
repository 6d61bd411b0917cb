package viewmodel

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kerbaras/mangadesk/pkg/bundle"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/state"
	"github.com/rs/zerolog"
)

// SourcesMenuScope is the scope the sources menu bundle is persisted under.
const SourcesMenuScope = "sources_menu"

// Bundle keys owned by the sources menu.
const (
	SourceTabsKey        = "source_tabs"
	SelectedSourceTabKey = "selected_tab"
)

// TabStateKey is the bundle key holding the sub-state of the tab for sourceID.
func TabStateKey(sourceID int64) string {
	return strconv.FormatInt(sourceID, 10)
}

// SourceLister lists the sources installed on the server.
type SourceLister interface {
	GetSourceList(ctx context.Context) ([]data.Source, error)
}

// LanguageStore persists the enabled catalog languages.
type LanguageStore interface {
	Languages() []string
	SetLanguages(langs []string) error
}

type SourcesMenuParams struct {
	Bundle    *bundle.Bundle
	Sources   SourceLister
	Languages LanguageStore
	ServerURL string
	Logger    zerolog.Logger
}

// SourcesMenu is the state behind the sources screen: the installed sources
// filtered by language, the open source tabs and the search bar.
//
// Subscribers of its flows are called synchronously and must not call back
// into the SourcesMenu.
type SourcesMenu struct {
	scope     *Scope
	bundle    *bundle.Bundle
	lister    SourceLister
	langStore LanguageStore
	serverURL string
	logger    zerolog.Logger

	mu               sync.Mutex
	installedSources []data.Source
	searchSource     func(query *string)

	languages           *state.MutableStateFlow[[]string]
	isLoading           *state.MutableStateFlow[bool]
	sources             *state.MutableStateFlow[[]data.Source]
	sourceTabs          *state.MutableStateFlow[[]*data.Source]
	selectedSourceTab   *state.MutableStateFlow[*data.Source]
	sourceSearchEnabled *state.MutableStateFlow[bool]
	sourceSearchQuery   *state.MutableStateFlow[*string]
}

// NewSourcesMenu starts loading the source list in the background. Tabs saved
// in p.Bundle are restored once that load finishes, successfully or not.
func NewSourcesMenu(ctx context.Context, p SourcesMenuParams) *SourcesMenu {
	if p.Bundle == nil {
		p.Bundle = bundle.New()
	}

	m := &SourcesMenu{
		scope:     NewScope(ctx, p.Logger),
		bundle:    p.Bundle,
		lister:    p.Sources,
		langStore: p.Languages,
		serverURL: p.ServerURL,
		logger:    p.Logger.With().Str("viewmodel", "sources_menu").Logger(),

		languages:           state.New(slices.Clone(p.Languages.Languages()), slices.Equal[[]string]),
		isLoading:           state.Comparable(true),
		sources:             state.New([]data.Source{}, slices.Equal[[]data.Source]),
		sourceTabs:          state.New([]*data.Source{nil}, tabsEqual),
		selectedSourceTab:   state.New[*data.Source](nil, sameSource),
		sourceSearchEnabled: state.Comparable(false),
		sourceSearchQuery:   state.New[*string](nil, sameQuery),
	}

	m.sourceTabs.Subscribe(func(tabs []*data.Source) {
		ids := make([]int64, 0, len(tabs))
		for _, tab := range tabs {
			if tab != nil {
				ids = append(ids, tab.ID)
			}
		}
		m.bundle.PutInt64s(SourceTabsKey, ids)
	})

	m.selectedSourceTab.Subscribe(func(source *data.Source) {
		if source != nil {
			m.bundle.PutInt64(SelectedSourceTabKey, source.ID)
		} else {
			m.bundle.Remove(SelectedSourceTabKey)
		}
	})

	m.scope.Launch("load sources", m.loadSources)

	return m
}

func (m *SourcesMenu) ServerURL() string                       { return m.serverURL }
func (m *SourcesMenu) Languages() state.StateFlow[[]string]    { return m.languages.ReadOnly() }
func (m *SourcesMenu) IsLoading() state.StateFlow[bool]        { return m.isLoading.ReadOnly() }
func (m *SourcesMenu) Sources() state.StateFlow[[]data.Source] { return m.sources.ReadOnly() }
func (m *SourcesMenu) SourceTabs() state.StateFlow[[]*data.Source] {
	return m.sourceTabs.ReadOnly()
}
func (m *SourcesMenu) SelectedSourceTab() state.StateFlow[*data.Source] {
	return m.selectedSourceTab.ReadOnly()
}
func (m *SourcesMenu) SourceSearchEnabled() state.StateFlow[bool] {
	return m.sourceSearchEnabled.ReadOnly()
}
func (m *SourcesMenu) SourceSearchQuery() state.StateFlow[*string] {
	return m.sourceSearchQuery.ReadOnly()
}

func (m *SourcesMenu) loadSources(ctx context.Context) error {
	defer func() {
		m.restoreTabs()
		m.isLoading.Set(false)
	}()

	sources, err := m.lister.GetSourceList(ctx)
	if err != nil {
		if IsCancellation(err) {
			return err
		}
		m.logger.Warn().Err(err).Msg("failed to load sources")
		return nil
	}

	m.mu.Lock()
	m.installedSources = sources
	m.setSources()
	m.mu.Unlock()

	m.logger.Info().
		Int("installed", len(sources)).
		Int("shown", len(m.sources.Value())).
		Msg("sources loaded")
	return nil
}

// restoreTabs rebuilds the tabs and selection saved in the bundle against the
// sources currently shown. Saved ids without a matching source are dropped.
func (m *SourcesMenu) restoreTabs() {
	ids, ok := m.bundle.Int64s(SourceTabsKey)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	shown := m.sources.Value()
	tabs := []*data.Source{nil}
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if source := findSource(shown, id); source != nil {
			tabs = append(tabs, source)
			seen[id] = true
		}
	}
	m.sourceTabs.Set(tabs)

	var selected *data.Source
	if id := m.bundle.Int64(SelectedSourceTabKey, -1); id != -1 {
		selected = findSource(shown, id)
	}
	m.selectedSourceTab.Set(selected)
}

// setSources filters the installed sources by the enabled languages.
// Callers hold m.mu.
func (m *SourcesMenu) setSources() {
	langs := m.languages.Value()
	enabled := make(map[string]bool, len(langs))
	for _, lang := range langs {
		enabled[lang] = true
	}

	filtered := make([]data.Source, 0, len(m.installedSources))
	for _, source := range m.installedSources {
		if enabled[source.Lang] {
			filtered = append(filtered, source)
		}
	}
	m.sources.Set(filtered)
}

func (m *SourcesMenu) SelectTab(source *data.Source) {
	m.selectedSourceTab.Set(source)
}

// AddTab opens a tab for source unless one is already open, then selects it.
func (m *SourcesMenu) AddTab(source data.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab := &source
	m.sourceTabs.Update(func(tabs []*data.Source) []*data.Source {
		if slices.ContainsFunc(tabs, func(t *data.Source) bool { return sameSource(t, tab) }) {
			return tabs
		}
		return append(slices.Clone(tabs), tab)
	})
	m.selectedSourceTab.Set(tab)
}

// CloseTab closes the tab for source, clears the selection if it was the
// selected tab, and drops the tab's saved sub-state.
func (m *SourcesMenu) CloseTab(source data.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sourceTabs.Update(func(tabs []*data.Source) []*data.Source {
		i := slices.IndexFunc(tabs, func(t *data.Source) bool { return t != nil && t.ID == source.ID })
		if i < 0 {
			return tabs
		}
		return slices.Delete(slices.Clone(tabs), i, i+1)
	})
	if selected := m.selectedSourceTab.Value(); selected != nil && selected.ID == source.ID {
		m.selectedSourceTab.Set(nil)
	}
	m.bundle.Remove(TabStateKey(source.ID))
}

// SetSearch registers the callback SubmitSearch hands the query to.
func (m *SourcesMenu) SetSearch(fn func(query *string)) {
	m.mu.Lock()
	m.searchSource = fn
	m.mu.Unlock()
}

func (m *SourcesMenu) EnableSearch(enabled bool) {
	m.sourceSearchEnabled.Set(enabled)
}

// Search sets the pending query. Blank input clears it.
func (m *SourcesMenu) Search(query string) {
	if strings.TrimSpace(query) == "" {
		m.sourceSearchQuery.Set(nil)
		return
	}
	m.sourceSearchQuery.Set(&query)
}

// SubmitSearch passes the pending query to the registered callback, if any.
func (m *SourcesMenu) SubmitSearch() {
	m.mu.Lock()
	fn := m.searchSource
	m.mu.Unlock()

	if fn != nil {
		fn(m.sourceSearchQuery.Value())
	}
}

// GetSourceLanguages returns the languages of all installed sources, sorted.
func (m *SourcesMenu) GetSourceLanguages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := map[string]bool{}
	for _, source := range m.installedSources {
		set[source.Lang] = true
	}
	langs := make([]string, 0, len(set))
	for lang := range set {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (m *SourcesMenu) SetEnabledLanguages(langs []string) {
	m.logger.Info().Strs("languages", langs).Msg("enabled languages changed")
	langs = slices.Clone(langs)
	m.mu.Lock()
	m.languages.Set(langs)
	m.setSources()
	m.mu.Unlock()

	if err := m.langStore.SetLanguages(langs); err != nil {
		m.logger.Error().Err(err).Msg("failed to save languages")
	}
}

// Close cancels the view model's background work and waits for it to stop.
func (m *SourcesMenu) Close() error {
	return m.scope.Close()
}

func findSource(sources []data.Source, id int64) *data.Source {
	for i := range sources {
		if sources[i].ID == id {
			source := sources[i]
			return &source
		}
	}
	return nil
}

func sameSource(a, b *data.Source) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func tabsEqual(a, b []*data.Source) bool {
	return slices.EqualFunc(a, b, sameSource)
}

func sameQuery(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
