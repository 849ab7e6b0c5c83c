package ui

import (
	"fmt"
	"strings"
)

// renderCategories draws the read-only category listing.
func (m Model) renderCategories() string {
	s := m.theme.Styles()

	if !m.categoriesStatus.HasValue {
		if m.categoriesStatus.Errored {
			return "  " + s.DangerText.Render("Error loading data.")
		}
		return "  " + s.MutedText.Render("Loading categories…")
	}

	var b strings.Builder

	if m.categoriesStatus.Errored {
		b.WriteString("  " + s.WarningText.Render("Server unreachable, showing cached data") + "\n\n")
	}

	if len(m.categories) == 0 {
		b.WriteString("  " + s.MutedText.Render("No categories available") + "\n")
		return b.String()
	}

	nameWidth := clampWidth(m.width/2, 16, 48)
	for i, c := range m.categories {
		cursor := "  "
		name := truncate(c.Name, nameWidth)
		line := fmt.Sprintf("%-*s  %s", nameWidth, name, s.FaintText.Render(c.ID))
		if i == m.selectedRow {
			cursor = s.AccentText.Render("> ")
			line = s.Selected.Render(fmt.Sprintf("%-*s", nameWidth, name)) + "  " + s.FaintText.Render(c.ID)
		}
		b.WriteString(cursor + line + "\n")
	}

	return b.String()
}
