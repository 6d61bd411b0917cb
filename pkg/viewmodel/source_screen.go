package viewmodel

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kerbaras/mangadesk/pkg/bundle"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/state"
	"github.com/rs/zerolog"
)

// SourceBrowser pages through a source's catalog.
type SourceBrowser interface {
	GetPopularManga(ctx context.Context, sourceID int64, pageNum int) (data.MangaPage, error)
	GetSearchResults(ctx context.Context, sourceID int64, searchTerm string, pageNum int) (data.MangaPage, error)
}

type SourceScreenParams struct {
	Bundle  *bundle.Bundle
	Browser SourceBrowser
	Source  data.Source
	Logger  zerolog.Logger
}

// SourceScreen holds the browse state of one source tab. The active query is
// kept in the bundle under TabStateKey(source.ID).
type SourceScreen struct {
	scope   *Scope
	bundle  *bundle.Bundle
	browser SourceBrowser
	source  data.Source
	logger  zerolog.Logger

	mu         sync.Mutex
	page       int
	generation uint64
	cancelLoad context.CancelFunc

	mangas      *state.MutableStateFlow[[]data.Manga]
	hasNextPage *state.MutableStateFlow[bool]
	isLoading   *state.MutableStateFlow[bool]
	query       *state.MutableStateFlow[*string]
}

func NewSourceScreen(ctx context.Context, p SourceScreenParams) *SourceScreen {
	if p.Bundle == nil {
		p.Bundle = bundle.New()
	}

	s := &SourceScreen{
		scope:   NewScope(ctx, p.Logger),
		bundle:  p.Bundle,
		browser: p.Browser,
		source:  p.Source,
		logger: p.Logger.With().
			Str("viewmodel", "source_screen").
			Int64("source", p.Source.ID).
			Logger(),

		mangas:      state.New([]data.Manga{}, mangasEqual),
		hasNextPage: state.Comparable(false),
		isLoading:   state.Comparable(true),
		query:       state.New[*string](nil, sameQuery),
	}

	if q, ok := s.bundle.String(TabStateKey(p.Source.ID)); ok {
		s.query.Set(normalizeQuery(&q))
	}

	s.query.Subscribe(func(q *string) {
		if q != nil {
			s.bundle.PutString(TabStateKey(s.source.ID), *q)
		} else {
			s.bundle.Remove(TabStateKey(s.source.ID))
		}
	})

	s.reload()
	return s
}

func (s *SourceScreen) Source() data.Source                   { return s.source }
func (s *SourceScreen) Mangas() state.StateFlow[[]data.Manga] { return s.mangas.ReadOnly() }
func (s *SourceScreen) HasNextPage() state.StateFlow[bool]    { return s.hasNextPage.ReadOnly() }
func (s *SourceScreen) IsLoading() state.StateFlow[bool]      { return s.isLoading.ReadOnly() }
func (s *SourceScreen) Query() state.StateFlow[*string]       { return s.query.ReadOnly() }

// SetQuery replaces the active query and reloads from the first page. A nil
// or blank query browses the popular listing.
func (s *SourceScreen) SetQuery(q *string) {
	s.query.Set(normalizeQuery(q))
	s.reload()
}

// LoadNextPage appends the next page unless a load is running or the
// listing is exhausted.
func (s *SourceScreen) LoadNextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isLoading.Value() || !s.hasNextPage.Value() {
		return
	}
	s.startLoad(s.page+1, false)
}

func (s *SourceScreen) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startLoad(1, true)
}

// startLoad must be called with s.mu held. It cancels the previous load so
// only the latest one may publish results.
func (s *SourceScreen) startLoad(page int, reset bool) {
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.generation++
	gen := s.generation
	query := s.query.Value()
	s.isLoading.Set(true)

	ctx, cancel := context.WithCancel(s.scope.Context())
	s.cancelLoad = cancel

	s.scope.Launch(fmt.Sprintf("load page %d", page), func(context.Context) error {
		defer cancel()
		return s.load(ctx, gen, query, page, reset)
	})
}

func (s *SourceScreen) load(ctx context.Context, gen uint64, query *string, page int, reset bool) error {
	var (
		result data.MangaPage
		err    error
	)
	if query != nil {
		result, err = s.browser.GetSearchResults(ctx, s.source.ID, *query, page)
	} else {
		result, err = s.browser.GetPopularManga(ctx, s.source.ID, page)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return nil
	}
	s.isLoading.Set(false)

	if err != nil {
		if IsCancellation(err) {
			return err
		}
		s.logger.Warn().Err(err).Int("page", page).Msg("failed to load mangas")
		return nil
	}

	s.page = page
	s.hasNextPage.Set(result.HasNextPage)
	if reset {
		s.mangas.Set(slices.Clone(result.Mangas))
	} else {
		s.mangas.Update(func(mangas []data.Manga) []data.Manga {
			return append(slices.Clone(mangas), result.Mangas...)
		})
	}
	return nil
}

// Close cancels any running load and waits for it to stop.
func (s *SourceScreen) Close() error {
	return s.scope.Close()
}

func mangasEqual(a, b []data.Manga) bool {
	return slices.EqualFunc(a, b, func(x, y data.Manga) bool { return x.ID == y.ID })
}

func normalizeQuery(q *string) *string {
	if q == nil || strings.TrimSpace(*q) == "" {
		return nil
	}
	v := *q
	return &v
}
