package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/metajudge/internal/core/config"
	"github.com/colonyops/metajudge/internal/metajudge"
	"github.com/colonyops/metajudge/internal/tui/views/review"
)

// Run opens the review view and blocks until the user quits.
func Run(sess *metajudge.Session, report *metajudge.LoadReport, cfg *config.Config) error {
	model := review.New(sess, report, NewStyles(cfg.TUI.Accent).Review())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// Review converts the shared style set into the review view's styles.
func (s Styles) Review() review.Styles {
	return review.Styles{
		Title:      s.Title,
		Panel:      s.Panel,
		Label:      s.Label,
		Status:     s.Status,
		Help:       s.Help,
		Pending:    s.Pending,
		Reviewed:   s.Reviewed,
		Warning:    s.Warning,
		LevelNo:    s.LevelNo,
		LevelMinor: s.LevelMinor,
		LevelMajor: s.LevelMajor,
		Selected:   s.Selected,
	}
}
