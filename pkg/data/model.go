package data

// Manga mirrors the server's manga record. Metadata is refreshed by re-fetching,
// never patched locally.
type Manga struct {
	ID           int64    `json:"id"`
	SourceID     int64    `json:"sourceId,string"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Initialized  bool     `json:"initialized"`
	Artist       string   `json:"artist,omitempty"`
	Author       string   `json:"author,omitempty"`
	Description  string   `json:"description,omitempty"`
	Genre        []string `json:"genre,omitempty"`
	Status       string   `json:"status"`
	InLibrary    bool     `json:"inLibrary"`
}

// ChapterKey returns the key of the chapter at index in this manga.
func (m Manga) ChapterKey(index int) ChapterKey {
	return ChapterKey{MangaID: m.ID, Index: index}
}

// Chapter is identified by (MangaID, Index). Index is the server's ordering
// index, not a surrogate id.
type Chapter struct {
	MangaID       int64   `json:"mangaId"`
	Index         int     `json:"index"`
	URL           string  `json:"url"`
	Name          string  `json:"name"`
	UploadDate    int64   `json:"uploadDate"`
	ChapterNumber float64 `json:"chapterNumber"`
	Scanlator     string  `json:"scanlator,omitempty"`
	Read          bool    `json:"read"`
	Bookmarked    bool    `json:"bookmarked"`
	LastPageRead  int     `json:"lastPageRead"`
	PageCount     int     `json:"pageCount"`
	ChapterCount  int     `json:"chapterCount"`
}

func (c Chapter) Key() ChapterKey {
	return ChapterKey{MangaID: c.MangaID, Index: c.Index}
}

// ChapterKey is the identity of a chapter on the server.
type ChapterKey struct {
	MangaID int64
	Index   int
}

// KeyFor returns the key of chapter within manga. The chapter's own MangaID is
// ignored in favor of the manga's.
func KeyFor(manga Manga, chapter Chapter) ChapterKey {
	return manga.ChapterKey(chapter.Index)
}

type Source struct {
	ID             int64  `json:"id,string"`
	Name           string `json:"name"`
	Lang           string `json:"lang"`
	IconURL        string `json:"iconUrl"`
	SupportsLatest bool   `json:"supportsLatest"`
	IsConfigurable bool   `json:"isConfigurable"`
}

// MangaPage is one page of a source's popular, latest or search listing.
type MangaPage struct {
	Mangas      []Manga `json:"mangaList"`
	HasNextPage bool    `json:"hasNextPage"`
}
