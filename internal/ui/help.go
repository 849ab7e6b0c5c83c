package ui

import (
	"fmt"
	"strings"
)

type helpEntry struct {
	keys string
	desc string
}

// renderHelp draws the full-screen help overlay. Any key dismisses it.
func (m Model) renderHelp() string {
	s := m.theme.Styles()

	sections := []struct {
		title   string
		entries []helpEntry
	}{
		{
			title: "Navigation",
			entries: []helpEntry{
				{"j / k", "Move selection"},
				{"g / G", "Jump to top / bottom"},
				{"[ / ]", "Previous / next page"},
				{"p", "Products view"},
				{"c", "Categories view"},
			},
		},
		{
			title: "Products",
			entries: []helpEntry{
				{"a", "Add a product"},
				{"e", "Edit the selected product"},
				{"d", "Delete the selected product"},
				{"r", "Refresh from the server"},
			},
		},
		{
			title: "Forms",
			entries: []helpEntry{
				{"tab", "Switch between name and category"},
				{"← / →", "Change category"},
				{"enter", "Submit"},
				{"esc", "Close / cancel edit"},
			},
		},
		{
			title: "General",
			entries: []helpEntry{
				{"T", "Cycle color theme"},
				{"?", "Toggle this help"},
				{"q", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(s.Logo.Render("shopkeep") + s.MutedText.Render("  key bindings") + "\n\n")

	for _, sec := range sections {
		b.WriteString("  " + s.AccentText.Render(sec.title) + "\n")
		for _, e := range sec.entries {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				s.Text.Render(fmt.Sprintf("%-8s", e.keys)),
				s.MutedText.Render(e.desc)))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + s.FaintText.Render("press any key to close"))
	return b.String()
}
