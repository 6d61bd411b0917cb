package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangadesk/pkg/app/components"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/kerbaras/mangadesk/pkg/services"
)

// DetailsScreen shows one manga with its chapters and the chapter actions.
type DetailsScreen struct {
	ctx      context.Context
	mangas   MangaLoader
	chapters ChapterActions
	exporter ChapterExporter

	manga           data.Manga
	loaded          bool
	chapterList     *components.List[data.Chapter]
	progressTracker *components.ProgressTracker
	status          string
	width           int
	height          int
	err             error
}

func NewDetailsScreen(ctx context.Context, deps Deps, manga data.Manga) *DetailsScreen {
	return &DetailsScreen{
		ctx:             ctx,
		mangas:          deps.Mangas,
		chapters:        deps.Chapters,
		exporter:        deps.Exporter,
		manga:           manga,
		chapterList:     components.NewChapterList(),
		progressTracker: components.NewProgressTracker(80),
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return s.loadDetails(false)
}

func (s *DetailsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.chapterList.Width = width - 4
	s.progressTracker.SetWidth(width - 4)
}

func (s *DetailsScreen) Update(msg tea.Msg) (*DetailsScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		chapter, ok := s.chapterList.Selected()
		switch msg.String() {
		case "up", "k":
			s.chapterList.Prev()
		case "down", "j":
			s.chapterList.Next()
		case "R":
			return s, s.loadDetails(true)
		case "r":
			if ok {
				return s, s.updateChapter(chapter, interactions.ChapterUpdate{Read: interactions.Bool(!chapter.Read)})
			}
		case "b":
			if ok {
				return s, s.updateChapter(chapter, interactions.ChapterUpdate{Bookmarked: interactions.Bool(!chapter.Bookmarked)})
			}
		case "p":
			if ok {
				return s, s.updateChapter(chapter, interactions.ChapterUpdate{MarkPreviousRead: interactions.Bool(true)})
			}
		case "d":
			if ok {
				return s, s.queueDownload(chapter)
			}
		case "D":
			if ok {
				return s, s.deleteDownload(chapter)
			}
		case "e":
			if ok {
				return s, s.exportChapter(chapter)
			}
		case "esc", "backspace":
			return s, func() tea.Msg { return closeDetailsMsg{} }
		}

	case detailsLoadedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.manga = msg.manga
			s.loaded = true
			s.chapterList.SetItems(msg.chapters)
		}

	case chapterActionMsg:
		s.err = msg.err
		if msg.err == nil {
			s.status = msg.status
			if msg.reload {
				return s, s.loadDetails(false)
			}
		}

	case services.ExportProgress:
		if msg.Key.MangaID == s.manga.ID {
			s.progressTracker.Update(msg)
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	header := styles.TitleStyle.Render(s.manga.Title)
	if !s.loaded && s.err == nil {
		return header + "\n\n" + styles.StatusDownloading.Render("Loading chapters...")
	}

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n"
	} else if s.status != "" {
		errorMsg = styles.StatusCompleted.Render(s.status) + "\n"
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • r: read • b: bookmark • p: mark previous read • d/D: queue/delete download • e: export EPUB • R: refresh • esc: back",
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		s.renderMangaInfo(),
		styles.SubtitleStyle.Render(fmt.Sprintf("Chapters (%d total)", len(s.chapterList.Items))),
		s.chapterList.View(),
		s.progressTracker.View(),
		errorMsg,
		help,
	)
}

func (s *DetailsScreen) renderMangaInfo() string {
	status := styles.StatusStyle(s.manga.Status).Render(s.manga.Status)

	desc := s.manga.Description
	if len(desc) > 200 {
		desc = desc[:197] + "..."
	}

	info := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TextStyle.Render(desc),
		styles.MutedStyle.Render(fmt.Sprintf("Author: %s • Artist: %s", s.manga.Author, s.manga.Artist)),
		status,
	)
	return styles.CardStyle.Width(max(s.width-4, 10)).Render(info)
}

// Messages
type detailsLoadedMsg struct {
	manga    data.Manga
	chapters []data.Chapter
	err      error
}

type chapterActionMsg struct {
	status string
	reload bool
	err    error
}

type openDetailsMsg struct {
	manga data.Manga
}

type closeDetailsMsg struct{}

// Commands
func (s *DetailsScreen) loadDetails(refresh bool) tea.Cmd {
	mangaID := s.manga.ID
	return func() tea.Msg {
		manga, err := s.mangas.GetManga(s.ctx, mangaID, refresh)
		if err != nil {
			return detailsLoadedMsg{err: err}
		}
		chapters, err := s.chapters.GetMangaChapters(s.ctx, manga, refresh)
		if err != nil {
			return detailsLoadedMsg{err: err}
		}
		return detailsLoadedMsg{manga: manga, chapters: chapters}
	}
}

func (s *DetailsScreen) updateChapter(chapter data.Chapter, update interactions.ChapterUpdate) tea.Cmd {
	return func() tea.Msg {
		err := s.chapters.UpdateChapter(s.ctx, chapter.Key(), update)
		return chapterActionMsg{status: "Chapter updated", reload: true, err: err}
	}
}

func (s *DetailsScreen) queueDownload(chapter data.Chapter) tea.Cmd {
	return func() tea.Msg {
		err := s.chapters.QueueChapterDownload(s.ctx, chapter.Key())
		return chapterActionMsg{status: "Download queued on server", err: err}
	}
}

func (s *DetailsScreen) deleteDownload(chapter data.Chapter) tea.Cmd {
	return func() tea.Msg {
		err := s.chapters.DeleteChapterDownload(s.ctx, chapter.Key())
		return chapterActionMsg{status: "Download deleted on server", err: err}
	}
}

func (s *DetailsScreen) exportChapter(chapter data.Chapter) tea.Cmd {
	return func() tea.Msg {
		path, err := s.exporter.ExportChapter(s.ctx, chapter.Key(), services.ExportOptions{})
		return chapterActionMsg{status: "Exported to " + path, err: err}
	}
}
