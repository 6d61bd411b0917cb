package interactions

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server"
	"github.com/kerbaras/mangadesk/pkg/server/requests"
)

// ChapterUpdate is a sparse patch: nil fields are left untouched on the server.
type ChapterUpdate struct {
	Read             *bool
	Bookmarked       *bool
	LastPageRead     *int
	MarkPreviousRead *bool
}

// Form encodes only the fields that are set.
func (u ChapterUpdate) Form() *server.Form {
	return server.NewForm().
		SetBool("read", u.Read).
		SetBool("bookmarked", u.Bookmarked).
		SetInt("lastPageRead", u.LastPageRead).
		SetBool("markPrevRead", u.MarkPreviousRead)
}

// Image is a raw page image as served.
type Image struct {
	Data        []byte
	ContentType string
}

type ChapterHandler struct {
	baseHandler
}

func NewChapterHandler(client *server.Client) *ChapterHandler {
	return &ChapterHandler{baseHandler{client: client}}
}

// GetChapters lists a manga's chapters. refresh asks the server to fetch the
// list from the source instead of its database.
func (h *ChapterHandler) GetChapters(ctx context.Context, mangaID int64, refresh bool) ([]data.Chapter, error) {
	return server.WithIO(ctx, func(ctx context.Context) ([]data.Chapter, error) {
		var query url.Values
		if refresh {
			query = url.Values{requests.ParamOnlineFetch: {"true"}}
		}
		var chapters []data.Chapter
		err := h.client.GetRepeat(ctx, requests.MangaChapters(mangaID), query, &chapters)
		return chapters, err
	})
}

func (h *ChapterHandler) GetMangaChapters(ctx context.Context, manga data.Manga, refresh bool) ([]data.Chapter, error) {
	return h.GetChapters(ctx, manga.ID, refresh)
}

func (h *ChapterHandler) GetChapter(ctx context.Context, key data.ChapterKey) (data.Chapter, error) {
	return server.WithIO(ctx, func(ctx context.Context) (data.Chapter, error) {
		var chapter data.Chapter
		err := h.client.GetRepeat(ctx, requests.Chapter(key.MangaID, key.Index), nil, &chapter)
		return chapter, err
	})
}

func (h *ChapterHandler) UpdateChapter(ctx context.Context, key data.ChapterKey, update ChapterUpdate) error {
	return server.DoIO(ctx, func(ctx context.Context) error {
		return h.client.SubmitFormRepeat(ctx, http.MethodPatch,
			requests.UpdateChapter(key.MangaID, key.Index), update.Form(), nil)
	})
}

// GetPage fetches one page image. opts are applied to the request as-is.
func (h *ChapterHandler) GetPage(ctx context.Context, key data.ChapterKey, pageNum int, opts ...server.RequestOption) (*Image, error) {
	return server.WithIO(ctx, func(ctx context.Context) (*Image, error) {
		body, header, err := h.client.GetBytesRepeat(ctx, requests.Page(key.MangaID, key.Index, pageNum), opts...)
		if err != nil {
			return nil, err
		}
		return &Image{Data: body, ContentType: header.Get("Content-Type")}, nil
	})
}

func (h *ChapterHandler) QueueChapterDownload(ctx context.Context, key data.ChapterKey) error {
	return server.DoIO(ctx, func(ctx context.Context) error {
		return h.client.GetRepeat(ctx, requests.QueueDownloadChapter(key.MangaID, key.Index), nil, nil)
	})
}

func (h *ChapterHandler) DeleteChapterDownload(ctx context.Context, key data.ChapterKey) error {
	return server.DoIO(ctx, func(ctx context.Context) error {
		return h.client.DeleteRepeat(ctx, requests.DeleteDownloadChapter(key.MangaID, key.Index), nil)
	})
}

func (h *ChapterHandler) UpdateChapterMeta(ctx context.Context, key data.ChapterKey, metaKey, value string) error {
	return server.DoIO(ctx, func(ctx context.Context) error {
		form := server.NewForm().
			Set("key", metaKey).
			Set("value", value)
		return h.client.SubmitFormRepeat(ctx, http.MethodPatch,
			requests.ChapterMeta(key.MangaID, key.Index), form, nil)
	})
}
