package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain composes the full screen: header, active view, command bar.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.currentView {
	case ViewCategories:
		b.WriteString(m.renderCategories())
	default:
		b.WriteString(m.renderProducts())
	}

	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return b.String()
}

// renderHeader draws the top status line.
func (m Model) renderHeader() string {
	s := m.theme.Styles()

	parts := []string{s.Logo.Render("shopkeep")}

	switch m.currentView {
	case ViewCategories:
		parts = append(parts, s.AccentText.Render("Categories"))
	default:
		parts = append(parts, s.AccentText.Render("Products"))
		parts = append(parts, s.MutedText.Render(fmt.Sprintf("page %d", m.page)))
	}

	switch {
	case m.mutating:
		parts = append(parts, s.WarningText.Render("saving…"))
	case m.productsStatus.Loading || m.categoriesStatus.Loading:
		parts = append(parts, s.MutedText.Render("refreshing…"))
	}

	if m.notice != "" {
		parts = append(parts, s.DangerText.Render(m.notice))
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, s.FaintText.Render("updated "+m.lastUpdated.Format("15:04:05")))
	}

	line := strings.Join(parts, "  ")
	if m.width > 0 {
		return s.Header.Width(m.width).Render(line)
	}
	return s.Header.Render(line)
}

// renderCommandBar draws the bottom hint line for the current mode.
func (m Model) renderCommandBar() string {
	s := m.theme.Styles()

	var hints []string
	switch {
	case m.adding:
		hints = []string{
			"tab: switch field",
			"←/→: category",
			"enter: create",
			"esc: close",
		}
	case m.editing:
		hints = []string{
			"tab: switch field",
			"←/→: category",
			"enter: save",
			"esc: cancel",
		}
	case m.currentView == ViewCategories:
		hints = []string{
			"j/k: move",
			"p: products",
			"r: refresh",
			"?: help",
			"q: quit",
		}
	default:
		hints = []string{
			"j/k: move",
			"[/]: page",
			"a: add",
			"e: edit",
			"d: delete",
			"c: categories",
			"?: help",
			"q: quit",
		}
	}

	bar := s.FaintText.Render(strings.Join(hints, "  ·  "))
	return lipgloss.NewStyle().Padding(0, 1).Render(bar)
}
