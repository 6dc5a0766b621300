package review

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	corereview "github.com/colonyops/metajudge/internal/core/review"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == modeStats {
		return m.statsView.View() + "\n" + m.styles.Help.Render("esc back • ↑/↓ scroll")
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.insightPanel())
	b.WriteString("\n")
	b.WriteString(m.judgePanel())
	b.WriteString("\n")
	b.WriteString(m.workoutPanel())
	b.WriteString("\n")
	b.WriteString(m.assessmentView())
	b.WriteString("\n")
	b.WriteString(m.explanationView())
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString(m.styles.Warning.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) headerView() string {
	state := m.sess.State()
	completed, total := m.sess.Progress()

	title := m.styles.Title.Render("Metajudge")
	dataset := m.styles.Status.Render(filepath.Base(state.InsightsFile))
	progress := m.styles.Status.Render(fmt.Sprintf("%d/%d reviewed", completed, total))

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", dataset, "  ", progress)
}

func (m *Model) insightPanel() string {
	state := m.sess.State()
	ins := m.sess.Insights()

	header := m.styles.Label.Render(fmt.Sprintf("Insight %d/%d", state.Insight+1, state.TotalInsights))
	meta := m.styles.Status.Render(fmt.Sprintf("%s — goal: %s",
		ins.Email(state.Insight, "N/A"),
		ins.Goal(state.Insight, "N/A"),
	))
	text := ins.Text(state.Insight, "No insight text.")

	body := header + "  " + meta + "\n" + text
	return m.panel(body)
}

func (m *Model) judgePanel() string {
	state := m.sess.State()
	category := m.sess.Category()
	ins := m.sess.Insights()

	status := m.styles.Pending.Render("PENDING")
	if _, ok := m.sess.CurrentRecord(); ok {
		status = m.styles.Reviewed.Render("REVIEWED")
	}

	header := m.styles.Label.Render(fmt.Sprintf("%s Judge (%d/%d) - Score: %s",
		titleCase(category),
		state.Judge+1, state.TotalJudges,
		ins.Score(state.Insight, category, "N/A"),
	))
	reasoning := ins.Reasoning(state.Insight, category, "No reasoning recorded.")

	body := header + "  " + status + "\n" + reasoning
	return m.panel(body)
}

func (m *Model) workoutPanel() string {
	header := m.styles.Label.Render("Workout History")
	if m.mode == modeSearch {
		header += "  " + m.searchInput.View()
	} else if m.query != "" {
		match := "no matches"
		if len(m.matches) > 0 {
			match = fmt.Sprintf("match %d/%d", m.matchIdx+1, len(m.matches))
		}
		header += "  " + m.styles.Status.Render(fmt.Sprintf("/%s (%s, a/d to cycle)", m.query, match))
	}

	return m.panel(header + "\n" + m.workout.View())
}

func (m *Model) assessmentView() string {
	render := func(label string, level corereview.IssueLevel, style lipgloss.Style) string {
		if m.level == level {
			return m.styles.Selected.Render("[" + label + "]")
		}
		return style.Render(" " + label + " ")
	}

	return m.styles.Label.Render("Assessment: ") +
		render("1 No Issues", corereview.LevelNo, m.styles.LevelNo) + " " +
		render("2 Minor Issues", corereview.LevelMinor, m.styles.LevelMinor) + " " +
		render("3 Major Issues", corereview.LevelMajor, m.styles.LevelMajor)
}

func (m *Model) explanationView() string {
	label := m.styles.Label.Render("Explanation")
	if m.mode == modeExplain {
		label += m.styles.Status.Render(" (esc to finish)")
	}
	return label + "\n" + m.explanation.View()
}

func (m *Model) statusView() string {
	parts := []string{m.savedStatus()}

	if m.flash != "" {
		parts = append(parts, m.flash)
	}
	if m.mode == modeJumpInsight {
		parts = append(parts, "Go to insight: "+m.jumpInput.View())
	}
	if m.mode == modeJumpJudge {
		parts = append(parts, "Go to judge: "+m.jumpInput.View())
	}
	parts = append(parts, m.notices...)

	return m.styles.Status.Render(strings.Join(parts, " • "))
}

func (m *Model) savedStatus() string {
	last := m.sess.LastSaved()
	if last.IsZero() {
		return "not saved yet"
	}

	elapsed := m.now.Sub(last)
	switch {
	case elapsed < 2*time.Second:
		return "saved just now"
	case elapsed < time.Minute:
		return fmt.Sprintf("saved %ds ago", int(elapsed.Seconds()))
	default:
		return "saved at " + last.Format("15:04:05")
	}
}

func (m *Model) panel(body string) string {
	width := m.width - 2
	if width < 20 {
		width = 78
	}
	return m.styles.Panel.Width(width).Render(body)
}

// titleCase uppercases the first letter of a category name for the
// judge header.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
