package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// Theme definitions

var themes = map[string]Theme{
	"Slate":  slateTheme(),
	"Harbor": harborTheme(),
	"Paper":  paperTheme(),
}

var themeOrder = []string{"Slate", "Harbor", "Paper"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return slateTheme()
}

// NextTheme returns the name of the theme after the given one.
func NextTheme(name string) string {
	for i, n := range themeOrder {
		if n == name {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func slateTheme() Theme {
	return Theme{
		Name:          "Slate",
		Background:    "#0f172a",
		Surface:       "#1e293b",
		SelectionBg:   "#334155",
		SelectionText: "#f1f5f9",
		Border:        "#475569",
		BorderFocus:   "#38bdf8",
		Text:          "#e2e8f0",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#4ade80",
		Warning:       "#facc15",
		Danger:        "#f87171",
	}
}

func harborTheme() Theme {
	return Theme{
		Name:          "Harbor",
		Background:    "#16161d",
		Surface:       "#1f1f28",
		SelectionBg:   "#2d4f67",
		SelectionText: "#dcd7ba",
		Border:        "#54546d",
		BorderFocus:   "#7e9cd8",
		Text:          "#dcd7ba",
		Muted:         "#938aa9",
		Faint:         "#727169",
		Accent:        "#7e9cd8",
		Success:       "#98bb6c",
		Warning:       "#e6c384",
		Danger:        "#e46876",
	}
}

func paperTheme() Theme {
	return Theme{
		Name:          "Paper",
		Background:    "#f8f8f4",
		Surface:       "#ececdf",
		SelectionBg:   "#d8d8c8",
		SelectionText: "#1c1c16",
		Border:        "#b8b8a8",
		BorderFocus:   "#1d6fa5",
		Text:          "#2c2c24",
		Muted:         "#6c6c5c",
		Faint:         "#9c9c8c",
		Accent:        "#1d6fa5",
		Success:       "#2e7d32",
		Warning:       "#a06800",
		Danger:        "#b3261e",
	}
}
