package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/services"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(80)

	if tracker.width != 80 {
		t.Errorf("Expected width 80, got %d", tracker.width)
	}
	if tracker.HasActive() {
		t.Error("Expected no active exports")
	}
}

func TestUpdate(t *testing.T) {
	tracker := NewProgressTracker(80)
	key := data.ChapterKey{MangaID: 1, Index: 5}

	tracker.Update(services.ExportProgress{Key: key, Status: services.StatusDownloading, CurrentPage: 5, TotalPages: 10})
	if !tracker.HasActive() {
		t.Fatal("Expected active export after update")
	}

	tracker.Update(services.ExportProgress{Key: key, Status: services.StatusDownloading, CurrentPage: 6, TotalPages: 10})
	if got := tracker.exports[key].CurrentPage; got != 6 {
		t.Errorf("Expected latest update to win, got page %d", got)
	}

	tracker.Update(services.ExportProgress{Key: key, Status: services.StatusComplete})
	if tracker.HasActive() {
		t.Error("Expected completed export to be removed")
	}
}

func TestClear(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Update(services.ExportProgress{Key: data.ChapterKey{MangaID: 1, Index: 1}, Status: services.StatusDownloading})
	tracker.Clear()

	if tracker.HasActive() {
		t.Error("Expected no active exports after clear")
	}
}

func TestViewEmpty(t *testing.T) {
	tracker := NewProgressTracker(80)

	if view := tracker.View(); view != "" {
		t.Errorf("Expected empty view, got: %s", view)
	}
}

func TestViewWithProgress(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Update(services.ExportProgress{
		Key:         data.ChapterKey{MangaID: 1, Index: 5},
		Status:      services.StatusDownloading,
		CurrentPage: 10,
		TotalPages:  20,
	})

	view := tracker.View()
	for _, want := range []string{"Exports", "Chapter 5", "downloading", "10/20", "50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view:\n%s", want, view)
		}
	}
}

func TestViewOrdersChapters(t *testing.T) {
	tracker := NewProgressTracker(80)
	for _, index := range []int{3, 1, 2} {
		tracker.Update(services.ExportProgress{
			Key:    data.ChapterKey{MangaID: 1, Index: index},
			Status: services.StatusDownloading,
		})
	}

	view := tracker.View()
	first := strings.Index(view, "Chapter 1")
	second := strings.Index(view, "Chapter 2")
	third := strings.Index(view, "Chapter 3")
	if first < 0 || !(first < second && second < third) {
		t.Errorf("Expected chapters in index order:\n%s", view)
	}
}

func TestProgressWithError(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Update(services.ExportProgress{
		Key:    data.ChapterKey{MangaID: 1, Index: 1},
		Status: services.StatusError,
		Error:  errors.New("page 3: HTTP 500"),
	})

	view := tracker.View()
	if !strings.Contains(view, "Error:") || !strings.Contains(view, "page 3: HTTP 500") {
		t.Errorf("Expected error details in view:\n%s", view)
	}
}

func TestRenderProgressBar(t *testing.T) {
	if bar := renderProgressBar(0, 0, 20); bar != "" {
		t.Errorf("Expected empty string for zero total, got: %s", bar)
	}
	if bar := renderProgressBar(1, 2, 0); bar != "" {
		t.Errorf("Expected empty string for zero width, got: %s", bar)
	}

	full := renderProgressBar(100, 100, 20)
	if got := strings.Count(full, "█"); got != 20 {
		t.Errorf("Expected 20 filled chars, got %d", got)
	}
}

func TestSimpleProgress(t *testing.T) {
	bar := SimpleProgress(25, 100, 40)

	filled := strings.Count(bar, "█")
	empty := strings.Count(bar, "░")
	if filled != 10 {
		t.Errorf("Expected 10 filled chars, got %d", filled)
	}
	if empty != 30 {
		t.Errorf("Expected 30 empty chars, got %d", empty)
	}
}
