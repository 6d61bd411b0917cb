package interactions

import (
	"context"
	"net/url"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server"
	"github.com/kerbaras/mangadesk/pkg/server/requests"
)

type MangaHandler struct {
	baseHandler
}

func NewMangaHandler(client *server.Client) *MangaHandler {
	return &MangaHandler{baseHandler{client: client}}
}

func (h *MangaHandler) GetManga(ctx context.Context, mangaID int64, refresh bool) (data.Manga, error) {
	return server.WithIO(ctx, func(ctx context.Context) (data.Manga, error) {
		var query url.Values
		if refresh {
			query = url.Values{requests.ParamOnlineFetch: {"true"}}
		}
		var manga data.Manga
		err := h.client.GetRepeat(ctx, requests.Manga(mangaID), query, &manga)
		return manga, err
	})
}

// GetThumbnail fetches the manga's cover image.
func (h *MangaHandler) GetThumbnail(ctx context.Context, mangaID int64) (*Image, error) {
	return server.WithIO(ctx, func(ctx context.Context) (*Image, error) {
		body, header, err := h.client.GetBytesRepeat(ctx, requests.MangaThumbnail(mangaID))
		if err != nil {
			return nil, err
		}
		return &Image{Data: body, ContentType: header.Get("Content-Type")}, nil
	})
}
