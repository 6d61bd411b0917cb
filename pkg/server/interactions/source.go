package interactions

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server"
	"github.com/kerbaras/mangadesk/pkg/server/requests"
)

type SourceHandler struct {
	baseHandler
}

func NewSourceHandler(client *server.Client) *SourceHandler {
	return &SourceHandler{baseHandler{client: client}}
}

// GetSourceList returns every source installed on the server, unfiltered.
func (h *SourceHandler) GetSourceList(ctx context.Context) ([]data.Source, error) {
	return server.WithIO(ctx, func(ctx context.Context) ([]data.Source, error) {
		var sources []data.Source
		err := h.client.GetRepeat(ctx, requests.SourceList(), nil, &sources)
		return sources, err
	})
}

func (h *SourceHandler) GetSourceInfo(ctx context.Context, sourceID int64) (data.Source, error) {
	return server.WithIO(ctx, func(ctx context.Context) (data.Source, error) {
		var source data.Source
		err := h.client.GetRepeat(ctx, requests.Source(sourceID), nil, &source)
		return source, err
	})
}

func (h *SourceHandler) GetPopularManga(ctx context.Context, sourceID int64, pageNum int) (data.MangaPage, error) {
	return h.getPage(ctx, requests.SourcePopular(sourceID, pageNum), nil)
}

func (h *SourceHandler) GetLatestManga(ctx context.Context, sourceID int64, pageNum int) (data.MangaPage, error) {
	return h.getPage(ctx, requests.SourceLatest(sourceID, pageNum), nil)
}

func (h *SourceHandler) GetSearchResults(ctx context.Context, sourceID int64, searchTerm string, pageNum int) (data.MangaPage, error) {
	query := url.Values{
		requests.ParamSearchTerm: {searchTerm},
		requests.ParamPageNum:    {strconv.Itoa(pageNum)},
	}
	return h.getPage(ctx, requests.SourceSearch(sourceID), query)
}

func (h *SourceHandler) getPage(ctx context.Context, path string, query url.Values) (data.MangaPage, error) {
	return server.WithIO(ctx, func(ctx context.Context) (data.MangaPage, error) {
		var page data.MangaPage
		err := h.client.GetRepeat(ctx, path, query, &page)
		return page, err
	})
}
