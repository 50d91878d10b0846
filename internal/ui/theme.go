package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderMuted string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles returns the lipgloss styles derived from the palette.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)),

		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		FocusPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Background(lipgloss.Color(t.FocusBg)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),
	}
}

// Styles holds the rendered styles for one theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header     lipgloss.Style
	Footer     lipgloss.Style
	Logo       lipgloss.Style
	Selected   lipgloss.Style
	Panel      lipgloss.Style
	FocusPanel lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
}

// WithBackground returns a copy of s whose text styles paint bgColor behind
// them. Bars use it so that segments do not leave gaps.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// DefaultTheme is used when no preference is saved.
const DefaultTheme = "Nightfox"

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func nightfoxTheme() Theme {
	// https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24",
		Surface:    "#192330",
		SurfaceAlt: "#212e3f",
		FocusBg:    "#29394f",

		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",

		Border:      "#39506d",
		BorderMuted: "#212e3f",
		BorderFocus: "#719cd6",

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",
	}
}

func kanagawaTheme() Theme {
	// https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D",
		Surface:    "#1F1F28",
		SurfaceAlt: "#2A2A37",
		FocusBg:    "#2A2A37",

		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",

		Border:      "#54546D",
		BorderMuted: "#2A2A37",
		BorderFocus: "#7E9CD8",

		Text:    "#DCD7BA",
		Muted:   "#C8C093",
		Faint:   "#727169",
		Accent:  "#7E9CD8",
		Success: "#98BB6C",
		Warning: "#E6C384",
		Danger:  "#E46876",
		Info:    "#7FB4CA",
	}
}

func slateTheme() Theme {
	// Tailwind slate and sky
	return Theme{
		Name: "Slate",

		Background: "#020617",
		Surface:    "#0f172a",
		SurfaceAlt: "#1e293b",
		FocusBg:    "#283548",

		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",

		Border:      "#334155",
		BorderMuted: "#1e293b",
		BorderFocus: "#38bdf8",

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",
	}
}
