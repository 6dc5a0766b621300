// Package tui hosts the bubbletea presentation layer. It only reads
// session state and forwards user input; the review state machine lives
// in internal/metajudge.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles shared across views.
type Styles struct {
	Accent lipgloss.Color

	Title  lipgloss.Style
	Panel  lipgloss.Style
	Label  lipgloss.Style
	Status lipgloss.Style
	Help   lipgloss.Style

	Pending  lipgloss.Style
	Reviewed lipgloss.Style
	Warning  lipgloss.Style

	LevelNo    lipgloss.Style
	LevelMinor lipgloss.Style
	LevelMajor lipgloss.Style
	Selected   lipgloss.Style
}

// NewStyles builds the style set around the configured accent color.
func NewStyles(accent string) Styles {
	ac := lipgloss.Color(accent)

	return Styles{
		Accent: ac,

		Title: lipgloss.NewStyle().Bold(true).Foreground(ac),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "250", Dark: "238"}).
			Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "246"}),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"}),

		Pending:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "226"}),
		Reviewed: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "46"}),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"}).Bold(true),

		LevelNo:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "46"}),
		LevelMinor: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "226"}),
		LevelMajor: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"}),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(ac),
	}
}
