package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/integrations"
	"github.com/kerbaras/mangadesk/pkg/server"
	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Export statuses reported on the progress channel.
const (
	StatusDownloading = "downloading"
	StatusProcessing  = "processing"
	StatusComplete    = "complete"
	StatusError       = "error"
)

// ExportProgress represents the progress of one chapter export
type ExportProgress struct {
	Key         data.ChapterKey
	CurrentPage int
	TotalPages  int
	Status      string
	Path        string
	Error       error
}

// ChapterSource is the part of the chapter handler the exporter needs.
type ChapterSource interface {
	GetChapter(ctx context.Context, key data.ChapterKey) (data.Chapter, error)
	GetPage(ctx context.Context, key data.ChapterKey, pageNum int, opts ...server.RequestOption) (*interactions.Image, error)
	UpdateChapter(ctx context.Context, key data.ChapterKey, update interactions.ChapterUpdate) error
}

// MangaSource is the part of the manga handler the exporter needs.
type MangaSource interface {
	GetManga(ctx context.Context, mangaID int64, refresh bool) (data.Manga, error)
	GetThumbnail(ctx context.Context, mangaID int64) (*interactions.Image, error)
}

type ExportOptions struct {
	// MarkRead marks the chapter read on the server once the file is written.
	MarkRead bool
}

// ProcessorFactory builds the output processor for one chapter.
type ProcessorFactory func(outputDir string) integrations.Processor

func EPubProcessor(outputDir string) integrations.Processor {
	return integrations.NewEPubBuilder(outputDir)
}

// maxConcurrentChapters bounds ExportChapters.
const maxConcurrentChapters = 3

// Exporter streams chapter pages from the server into a Processor.
type Exporter struct {
	chapters     ChapterSource
	mangas       MangaSource
	newProcessor ProcessorFactory
	outputDir    string
	logger       zerolog.Logger

	mu           sync.Mutex
	progressChan chan ExportProgress
	closed       bool
}

func NewExporter(chapters ChapterSource, mangas MangaSource, outputDir string, logger zerolog.Logger) *Exporter {
	return &Exporter{
		chapters:     chapters,
		mangas:       mangas,
		newProcessor: EPubProcessor,
		outputDir:    outputDir,
		logger:       logger.With().Str("service", "exporter").Logger(),
		progressChan: make(chan ExportProgress, 100),
	}
}

// WithProcessor replaces the EPUB processor.
func (e *Exporter) WithProcessor(factory ProcessorFactory) *Exporter {
	e.newProcessor = factory
	return e
}

// Progress returns the channel receiving export progress updates. Updates
// are dropped while the channel is full.
func (e *Exporter) Progress() <-chan ExportProgress {
	return e.progressChan
}

// ExportChapters exports the given chapters of a manga, a few at a time, and
// returns the written paths in the order of indexes.
func (e *Exporter) ExportChapters(ctx context.Context, mangaID int64, indexes []int, opts ExportOptions) ([]string, error) {
	paths := make([]string, len(indexes))
	errs := make([]error, len(indexes))

	var g errgroup.Group
	g.SetLimit(maxConcurrentChapters)
	for i, index := range indexes {
		g.Go(func() error {
			key := data.ChapterKey{MangaID: mangaID, Index: index}
			path, err := e.ExportChapter(ctx, key, opts)
			if err != nil {
				errs[i] = fmt.Errorf("chapter %d: %w", index, err)
				return nil
			}
			paths[i] = path
			return nil
		})
	}
	_ = g.Wait()

	return paths, errors.Join(errs...)
}

// ExportChapter writes a single chapter and returns the output path.
func (e *Exporter) ExportChapter(ctx context.Context, key data.ChapterKey, opts ExportOptions) (string, error) {
	path, err := e.exportChapter(ctx, key, opts)
	if err != nil {
		e.sendProgress(ExportProgress{Key: key, Status: StatusError, Error: err})
		e.logger.Error().Err(err).
			Int64("manga", key.MangaID).
			Int("chapter", key.Index).
			Msg("export failed")
	}
	return path, err
}

func (e *Exporter) exportChapter(ctx context.Context, key data.ChapterKey, opts ExportOptions) (string, error) {
	e.sendProgress(ExportProgress{Key: key, Status: StatusDownloading})

	manga, err := e.mangas.GetManga(ctx, key.MangaID, false)
	if err != nil {
		return "", fmt.Errorf("failed to get manga: %w", err)
	}

	// Fetching the chapter makes the server resolve its page list.
	chapter, err := e.chapters.GetChapter(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get chapter: %w", err)
	}
	if chapter.PageCount <= 0 {
		return "", fmt.Errorf("no pages found for chapter")
	}

	builder := e.newProcessor(e.outputDir)
	if err := builder.Init(manga, chapter); err != nil {
		return "", fmt.Errorf("failed to initialize processor: %w", err)
	}

	// Non-fatal, continue without a cover.
	if cover, err := e.mangas.GetThumbnail(ctx, key.MangaID); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		e.logger.Debug().Err(err).Int64("manga", key.MangaID).Msg("no cover")
	} else if err := builder.SetCover(integrations.Page{Data: cover.Data, ContentType: cover.ContentType}); err != nil {
		e.logger.Debug().Err(err).Int64("manga", key.MangaID).Msg("cover rejected")
	}

	for page := 0; page < chapter.PageCount; page++ {
		e.sendProgress(ExportProgress{
			Key:         key,
			CurrentPage: page + 1,
			TotalPages:  chapter.PageCount,
			Status:      StatusDownloading,
		})

		img, err := e.chapters.GetPage(ctx, key, page)
		if err != nil {
			return "", fmt.Errorf("failed to download page %d: %w", page, err)
		}
		if err := builder.Next(integrations.Page{Data: img.Data, ContentType: img.ContentType}); err != nil {
			return "", fmt.Errorf("failed to add page %d: %w", page, err)
		}
	}

	e.sendProgress(ExportProgress{Key: key, TotalPages: chapter.PageCount, Status: StatusProcessing})

	path, err := builder.Done()
	if err != nil {
		return "", fmt.Errorf("failed to finalize output: %w", err)
	}

	if opts.MarkRead {
		update := interactions.ChapterUpdate{Read: interactions.Bool(true)}
		if err := e.chapters.UpdateChapter(ctx, key, update); err != nil {
			return path, fmt.Errorf("failed to mark chapter read: %w", err)
		}
	}

	e.sendProgress(ExportProgress{
		Key:        key,
		TotalPages: chapter.PageCount,
		Status:     StatusComplete,
		Path:       path,
	})
	e.logger.Info().
		Int64("manga", key.MangaID).
		Int("chapter", key.Index).
		Str("path", path).
		Msg("chapter exported")
	return path, nil
}

// sendProgress sends a progress update (non-blocking). Updates sent after
// Close are dropped.
func (e *Exporter) sendProgress(progress ExportProgress) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.progressChan <- progress:
	default:
	}
}

// Close closes the progress channel. Exports still running keep going but
// no longer report progress.
func (e *Exporter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.progressChan)
}
