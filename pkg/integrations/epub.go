package integrations

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/mangadesk/pkg/data"
)

var ErrNotInitialized = errors.New("epub builder not initialized")

// EPubBuilder writes a single chapter as an EPUB. Pages are embedded as data
// URLs in the order they are passed to Next.
type EPubBuilder struct {
	outputDir string

	book    *epub.Epub
	manga   data.Manga
	chapter data.Chapter
	cover   string
	pages   []string
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir}
}

var _ Processor = (*EPubBuilder)(nil)

func (p *EPubBuilder) Init(manga data.Manga, chapter data.Chapter) error {
	book, err := epub.NewEpub(fmt.Sprintf("%s - %s", manga.Title, chapterTitle(chapter)))
	if err != nil {
		return fmt.Errorf("failed to create EPub: %w", err)
	}

	author := manga.Author
	if author == "" {
		author = manga.Artist
	}
	if author != "" {
		book.SetAuthor(author)
	}
	if manga.Description != "" {
		book.SetDescription(manga.Description)
	}

	p.book = book
	p.manga = manga
	p.chapter = chapter
	p.cover = ""
	p.pages = nil
	return nil
}

// SetCover adds cover, typically the manga thumbnail, as a section ahead of
// the chapter pages.
func (p *EPubBuilder) SetCover(cover Page) error {
	if p.book == nil {
		return ErrNotInitialized
	}
	if len(cover.Data) == 0 {
		return errors.New("empty cover image")
	}

	internal, err := p.book.AddImage(dataURL(cover), "cover"+imageExt(cover.ContentType))
	if err != nil {
		return fmt.Errorf("failed to add cover: %w", err)
	}
	p.cover = internal
	return nil
}

func (p *EPubBuilder) Next(page Page) error {
	if p.book == nil {
		return ErrNotInitialized
	}
	if len(page.Data) == 0 {
		return fmt.Errorf("page %d is empty", len(p.pages)+1)
	}

	name := fmt.Sprintf("page-%04d%s", len(p.pages)+1, imageExt(page.ContentType))
	internal, err := p.book.AddImage(dataURL(page), name)
	if err != nil {
		return fmt.Errorf("failed to add image %s: %w", name, err)
	}
	p.pages = append(p.pages, internal)
	return nil
}

// Done writes the book into the output directory and returns its path. The
// builder must be initialized again before reuse.
func (p *EPubBuilder) Done() (string, error) {
	if p.book == nil {
		return "", ErrNotInitialized
	}
	defer func() { p.book = nil }()

	if len(p.pages) == 0 {
		return "", errors.New("no pages to compile")
	}

	if p.cover != "" {
		cover := fmt.Sprintf(`<div class="cover"><img src="%s" alt="Cover" style="width:100%%;height:auto;"/></div>`, p.cover)
		if _, err := p.book.AddSection(cover, "Cover", "cover.xhtml", ""); err != nil {
			return "", fmt.Errorf("failed to add cover section: %w", err)
		}
	}

	title := chapterTitle(p.chapter)
	var content strings.Builder
	fmt.Fprintf(&content, "<h1>%s</h1>\n", html.EscapeString(title))
	for i, page := range p.pages {
		fmt.Fprintf(&content,
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>`+"\n",
			page, i+1,
		)
	}
	if _, err := p.book.AddSection(content.String(), title, "", ""); err != nil {
		return "", fmt.Errorf("failed to add section: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := sanitizeFilename(fmt.Sprintf("%s - %s", p.manga.Title, title))
	outputPath := filepath.Join(p.outputDir, name+".epub")
	if err := p.book.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func chapterTitle(chapter data.Chapter) string {
	if chapter.Name != "" {
		return chapter.Name
	}
	return fmt.Sprintf("Chapter %g", chapter.ChapterNumber)
}

func dataURL(page Page) string {
	contentType := page.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(page.Data)
}

func imageExt(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
