package components

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/services"
)

// ProgressTracker keeps the latest export update per chapter.
type ProgressTracker struct {
	exports map[data.ChapterKey]services.ExportProgress
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		exports: make(map[data.ChapterKey]services.ExportProgress),
		width:   width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

// Update records progress. Completed exports are dropped.
func (p *ProgressTracker) Update(progress services.ExportProgress) {
	if progress.Status == services.StatusComplete {
		delete(p.exports, progress.Key)
		return
	}
	p.exports[progress.Key] = progress
}

func (p *ProgressTracker) Clear() {
	p.exports = make(map[data.ChapterKey]services.ExportProgress)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.exports) > 0
}

func (p *ProgressTracker) View() string {
	if len(p.exports) == 0 {
		return ""
	}

	keys := make([]data.ChapterKey, 0, len(p.exports))
	for key := range p.exports {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b data.ChapterKey) int {
		if c := cmp.Compare(a.MangaID, b.MangaID); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Exports"))
	b.WriteString("\n")

	for _, key := range keys {
		progress := p.exports[key]
		b.WriteString(styles.TextStyle.Render(fmt.Sprintf("Chapter %d", key.Index)))
		b.WriteString("\n")

		statusText := progress.Status
		if progress.TotalPages > 0 && progress.CurrentPage > 0 {
			percentage := float64(progress.CurrentPage) / float64(progress.TotalPages) * 100
			statusText = fmt.Sprintf("%s (%d/%d pages - %.0f%%)",
				progress.Status, progress.CurrentPage, progress.TotalPages, percentage)

			b.WriteString(renderProgressBar(progress.CurrentPage, progress.TotalPages, p.width-4))
			b.WriteString("\n")
		}

		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
