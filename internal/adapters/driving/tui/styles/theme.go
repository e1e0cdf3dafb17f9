// Package styles holds the colour palette and lipgloss styles shared by the
// TUI views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Relevance bands for scored passages, as integer percentages.
const (
	StrongMatch = 70
	WeakMatch   = 40
)

// Theme is the colour palette. Green and red follow the Bangladesh flag.
type Theme struct {
	Primary    lipgloss.Color // accents, titles, answer rule
	Secondary  lipgloss.Color // book titles and citations
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color // status bar fill
	Border     lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color // keyword-only retrieval, weak matches
	Error   lipgloss.Color
}

// DefaultTheme returns the dark palette used unless a caller supplies one.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#1B9E5A"),
		Secondary:  lipgloss.Color("#4FB3BF"),
		Foreground: lipgloss.Color("#E4E7EB"),
		Muted:      lipgloss.Color("#7A8290"),
		Surface:    lipgloss.Color("#1A1D23"),
		Border:     lipgloss.Color("#3B4250"),
		Success:    lipgloss.Color("#7BD88F"),
		Warning:    lipgloss.Color("#E8C468"),
		Error:      lipgloss.Color("#E5484D"),
	}
}

// Styles are the rendered styles built from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	Border     lipgloss.Style
	StatusBar  lipgloss.Style

	// Answer frames generated answers with a left rule.
	Answer lipgloss.Style
	// Citation renders the numbered source lines under an answer.
	Citation lipgloss.Style
}

// NewStyles builds styles from theme, falling back to DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Help:     fg(theme.Muted).Italic(true),

		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		StatusBar: fg(theme.Muted).Background(theme.Surface).Padding(0, 1),

		Answer: fg(theme.Foreground).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),
		Citation: fg(theme.Secondary),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Relevance picks a style for a score given as an integer percentage.
func (s *Styles) Relevance(percent int) lipgloss.Style {
	switch {
	case percent >= StrongMatch:
		return s.Success
	case percent >= WeakMatch:
		return s.Warning
	default:
		return s.Muted
	}
}
