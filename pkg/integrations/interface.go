package integrations

import "github.com/kerbaras/mangadesk/pkg/data"

// Page is one fetched chapter page.
type Page struct {
	Data        []byte
	ContentType string
}

// Processor turns the pages of one chapter into an output file.
type Processor interface {
	Init(manga data.Manga, chapter data.Chapter) error
	SetCover(cover Page) error
	Next(page Page) error
	Done() (string, error)
}
