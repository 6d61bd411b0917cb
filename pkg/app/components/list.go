package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/data"
)

// List is a selectable list that renders a window of PageSize items around
// the selection.
type List[T any] struct {
	Items         []T
	SelectedIndex int
	Width         int
	Height        int
	PageSize      int
	Empty         string

	render func(item T, selected bool, width int) string
}

func NewList[T any](empty string, pageSize int, render func(item T, selected bool, width int) string) *List[T] {
	return &List[T]{
		Items:    []T{},
		Width:    80,
		Height:   20,
		PageSize: pageSize,
		Empty:    empty,
		render:   render,
	}
}

func (l *List[T]) SetItems(items []T) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *List[T]) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *List[T]) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *List[T]) Selected() (T, bool) {
	var zero T
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return zero, false
	}
	return l.Items[l.SelectedIndex], true
}

// AtEnd reports whether the last item is selected.
func (l *List[T]) AtEnd() bool {
	return len(l.Items) > 0 && l.SelectedIndex == len(l.Items)-1
}

// window returns the bounds of the visible items.
func (l *List[T]) window() (int, int) {
	size := l.PageSize
	if size <= 0 || size > len(l.Items) {
		size = len(l.Items)
	}
	start := l.SelectedIndex - size/2
	if start < 0 {
		start = 0
	}
	if start+size > len(l.Items) {
		start = len(l.Items) - size
	}
	return start, start + size
}

func (l *List[T]) View() string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(l.Empty)
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	start, end := l.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(l.render(l.Items[i], i == l.SelectedIndex, l.Width))
		b.WriteString("\n")
	}
	if end-start < len(l.Items) {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d/%d", l.SelectedIndex+1, len(l.Items))))
		b.WriteString("\n")
	}
	return b.String()
}

func NewMangaList() *List[data.Manga] {
	return NewList("No manga found", 4, renderManga)
}

func renderManga(manga data.Manga, selected bool, width int) string {
	cardStyle := styles.CardStyle
	if selected {
		cardStyle = styles.ActiveCardStyle
	}

	title := styles.TitleStyle.Render(manga.Title)

	byline := manga.Author
	if manga.Artist != "" && manga.Artist != manga.Author {
		byline = strings.TrimPrefix(byline+" / "+manga.Artist, " / ")
	}

	desc := manga.Description
	if len(desc) > 80 {
		desc = desc[:77] + "..."
	}

	status := manga.Status
	if status == "" {
		status = "UNKNOWN"
	}
	if manga.InLibrary {
		status += " • in library"
	}

	cardContent := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		styles.SubtitleStyle.Render(byline),
		styles.TextStyle.Render(desc),
		styles.MutedStyle.Render(status),
	)
	return cardStyle.Width(max(width-4, 10)).Render(cardContent)
}

func NewSourceList() *List[data.Source] {
	return NewList("No sources for the enabled languages", 15, renderSource)
}

func renderSource(source data.Source, selected bool, _ int) string {
	line := fmt.Sprintf("%s %s", source.Name, styles.MutedStyle.Render("("+source.Lang+")"))
	if source.SupportsLatest {
		line += styles.MutedStyle.Render(" • latest")
	}
	if selected {
		return styles.SelectedStyle.Render(line)
	}
	return styles.TextStyle.Render("  " + line)
}

func NewChapterList() *List[data.Chapter] {
	return NewList("No chapters", 12, renderChapter)
}

func renderChapter(chapter data.Chapter, selected bool, _ int) string {
	marks := ""
	if chapter.Bookmarked {
		marks += "★ "
	}
	name := chapter.Name
	if name == "" {
		name = fmt.Sprintf("Chapter %g", chapter.ChapterNumber)
	}
	line := marks + name
	if chapter.Scanlator != "" {
		line += styles.MutedStyle.Render(" • " + chapter.Scanlator)
	}
	if chapter.LastPageRead > 0 && !chapter.Read {
		line += styles.MutedStyle.Render(fmt.Sprintf(" • page %d", chapter.LastPageRead+1))
	}

	style := styles.TextStyle
	if chapter.Read {
		style = styles.MutedStyle
	}
	if selected {
		return styles.SelectedStyle.Render(line)
	}
	return style.Render("  " + line)
}
