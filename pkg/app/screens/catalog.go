package screens

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangadesk/pkg/app/components"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/viewmodel"
)

// CatalogScreen is the "all sources" tab: the language-filtered source list
// and the language picker.
type CatalogScreen struct {
	menu       *viewmodel.SourcesMenu
	sourceList *components.List[data.Source]

	picking    bool
	languages  []string
	enabled    map[string]bool
	langCursor int

	width  int
	height int
}

func NewCatalogScreen(menu *viewmodel.SourcesMenu) *CatalogScreen {
	return &CatalogScreen{
		menu:       menu,
		sourceList: components.NewSourceList(),
	}
}

func (s *CatalogScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.sourceList.Width = width - 4
	s.sourceList.Height = height - 10
}

// Sync copies the menu's current sources into the list.
func (s *CatalogScreen) Sync() {
	s.sourceList.SetItems(s.menu.Sources().Value())
}

func (s *CatalogScreen) Update(msg tea.KeyMsg) tea.Cmd {
	if s.picking {
		s.updatePicker(msg)
		return nil
	}

	switch msg.String() {
	case "up", "k":
		s.sourceList.Prev()
	case "down", "j":
		s.sourceList.Next()
	case "enter":
		if source, ok := s.sourceList.Selected(); ok {
			s.menu.AddTab(source)
		}
	case "l":
		s.openPicker()
	}
	return nil
}

func (s *CatalogScreen) openPicker() {
	s.languages = s.menu.GetSourceLanguages()
	s.enabled = map[string]bool{}
	for _, lang := range s.menu.Languages().Value() {
		s.enabled[lang] = true
	}
	s.langCursor = 0
	s.picking = true
}

func (s *CatalogScreen) updatePicker(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if s.langCursor > 0 {
			s.langCursor--
		}
	case "down", "j":
		if s.langCursor < len(s.languages)-1 {
			s.langCursor++
		}
	case " ", "space":
		if len(s.languages) > 0 {
			lang := s.languages[s.langCursor]
			s.enabled[lang] = !s.enabled[lang]
		}
	case "enter":
		var langs []string
		for lang, on := range s.enabled {
			if on {
				langs = append(langs, lang)
			}
		}
		slices.Sort(langs)
		s.menu.SetEnabledLanguages(langs)
		s.picking = false
	case "esc":
		s.picking = false
	}
}

func (s *CatalogScreen) View() string {
	if s.menu.IsLoading().Value() {
		return styles.StatusDownloading.Render("Loading sources...")
	}
	if s.picking {
		return s.pickerView()
	}

	header := styles.SubtitleStyle.Render(fmt.Sprintf(
		"%d sources • languages: %s", len(s.sourceList.Items), strings.Join(s.menu.Languages().Value(), ", "),
	))
	help := styles.HelpStyle.Render("↑/k ↓/j: navigate • enter: open tab • l: languages")
	return header + "\n\n" + s.sourceList.View() + help
}

func (s *CatalogScreen) pickerView() string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Enabled languages"))
	b.WriteString("\n\n")
	if len(s.languages) == 0 {
		b.WriteString(styles.MutedStyle.Render("No installed sources"))
		b.WriteString("\n")
	}
	for i, lang := range s.languages {
		box := "[ ]"
		if s.enabled[lang] {
			box = "[x]"
		}
		line := box + " " + lang
		if i == s.langCursor {
			b.WriteString(styles.SelectedStyle.Render(line))
		} else {
			b.WriteString(styles.TextStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("space: toggle • enter: apply • esc: cancel"))
	return b.String()
}
