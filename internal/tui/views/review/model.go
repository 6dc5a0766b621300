// Package review implements the interactive review view: the insight,
// judge, and workout panels plus the assessment controls. All state
// changes go through the session; the view never mutates review data
// directly.
package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	corereview "github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/metajudge"
	statsview "github.com/colonyops/metajudge/internal/tui/views/stats"
)

// Styles holds the lipgloss styles the view renders with. The root tui
// package builds them from the shared palette.
type Styles struct {
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

type mode int

const (
	modeBrowse mode = iota
	modeExplain
	modeJumpInsight
	modeJumpJudge
	modeSearch
	modeStats
)

type tickMsg time.Time

// Model is the review view.
type Model struct {
	sess   *metajudge.Session
	styles Styles
	keys   keyMap
	help   help.Model

	width  int
	height int
	mode   mode

	level       corereview.IssueLevel
	explanation textarea.Model

	workout        viewport.Model
	workoutText    string
	workoutWrapped string
	searchInput textinput.Model
	query       string
	matches     []int
	matchIdx    int

	jumpInput textinput.Model

	statsView viewport.Model

	warning string
	flash   string
	notices []string
	now     time.Time
}

// New builds the review view for an open session.
func New(sess *metajudge.Session, report *metajudge.LoadReport, styles Styles) *Model {
	ta := textarea.New()
	ta.Placeholder = "Explanation (required for Minor/Major Issues)"
	ta.SetHeight(4)
	ta.CharLimit = 0

	search := textinput.New()
	search.Placeholder = "search workouts"

	jump := textinput.New()
	jump.Placeholder = "number"
	jump.CharLimit = 6

	m := &Model{
		sess:        sess,
		styles:      styles,
		keys:        defaultKeyMap(),
		help:        help.New(),
		explanation: ta,
		workout:     viewport.New(0, 0),
		searchInput: search,
		jumpInput:   jump,
		statsView:   viewport.New(0, 0),
		notices:     startupNotices(sess, report),
		now:         time.Now(),
	}
	m.syncUnit()

	return m
}

// startupNotices turns the load report into status-line messages.
func startupNotices(sess *metajudge.Session, report *metajudge.LoadReport) []string {
	var notices []string

	if report.Resumed {
		completed, _ := sess.Progress()
		notices = append(notices, fmt.Sprintf("Resumed %d recorded reviews", completed))
	}
	if report.CursorReset {
		notices = append(notices, "Saved position was out of range; starting from the first unit")
	}
	if len(report.MissingInsightColumns) > 0 {
		notices = append(notices, "Insights file missing columns: "+strings.Join(report.MissingInsightColumns, ", "))
	}
	if len(report.MissingWorkoutColumns) > 0 {
		notices = append(notices, "Workout file missing columns: "+strings.Join(report.MissingWorkoutColumns, ", "))
	}
	if sess.Workouts() != nil {
		notices = append(notices, fmt.Sprintf("%d/%d insights have workout history", report.MatchedEmails, report.TotalEmails))
	}

	return notices
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case tea.KeyMsg:
		switch m.mode {
		case modeExplain:
			return m.updateExplain(msg)
		case modeJumpInsight, modeJumpJudge:
			return m.updateJump(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeStats:
			return m.updateStats(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.explanation.SetWidth(inner)
	m.workout.Width = inner
	m.workout.Height = 6
	m.statsView.Width = width
	m.statsView.Height = height - 2

	m.setWorkoutContent(m.workoutText)
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextUnit):
		m.move(m.sess.NextUnit)
	case key.Matches(msg, m.keys.PrevUnit):
		m.move(m.sess.PrevUnit)
	case key.Matches(msg, m.keys.NextInsight):
		m.move(m.sess.NextInsight)
	case key.Matches(msg, m.keys.PrevInsight):
		m.move(m.sess.PrevInsight)
	case key.Matches(msg, m.keys.NextJudge):
		m.move(m.sess.NextJudge)
	case key.Matches(msg, m.keys.PrevJudge):
		m.move(m.sess.PrevJudge)

	case key.Matches(msg, m.keys.LevelNo):
		m.setLevel(corereview.LevelNo)
	case key.Matches(msg, m.keys.LevelMinor):
		m.setLevel(corereview.LevelMinor)
	case key.Matches(msg, m.keys.LevelMajor):
		m.setLevel(corereview.LevelMajor)

	case key.Matches(msg, m.keys.Explain):
		m.mode = modeExplain
		return m, m.explanation.Focus()

	case key.Matches(msg, m.keys.Save):
		if err := m.sess.ManualSave(); err != nil {
			m.warning = warningText(err)
		} else {
			m.warning = ""
			m.flash = "Saved"
		}

	case key.Matches(msg, m.keys.Stats):
		m.statsView.SetContent(statsview.Render(m.sess.Stats(), m.width-2))
		m.statsView.GotoTop()
		m.mode = modeStats

	case key.Matches(msg, m.keys.JumpIns):
		m.jumpInput.SetValue("")
		m.mode = modeJumpInsight
		return m, m.jumpInput.Focus()

	case key.Matches(msg, m.keys.JumpJudge):
		m.jumpInput.SetValue("")
		m.mode = modeJumpJudge
		return m, m.jumpInput.Focus()

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.gotoMatch(m.matchIdx + 1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.gotoMatch(m.matchIdx - 1)
	}

	return m, nil
}

func (m *Model) updateExplain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.explanation.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.explanation, cmd = m.explanation.Update(msg)
	m.sess.SetDraft(m.level, m.explanation.Value())
	return m, cmd
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.jumpInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		n, err := strconv.Atoi(strings.TrimSpace(m.jumpInput.Value()))
		if err != nil {
			m.warning = "Enter a number"
			return m, nil
		}
		if m.mode == modeJumpInsight {
			m.move(func() error { return m.sess.JumpToInsight(n) })
		} else {
			m.move(func() error { return m.sess.JumpToJudge(n) })
		}
		m.mode = modeBrowse
		m.jumpInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.query = ""
		m.matches = nil
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.query = strings.TrimSpace(m.searchInput.Value())
		m.computeMatches()
		m.gotoMatch(0)
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "s":
		m.mode = modeBrowse
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.statsView, cmd = m.statsView.Update(msg)
	return m, cmd
}

// move runs a navigation operation. A draft that fails validation blocks
// the move and surfaces inline.
func (m *Model) move(fn func() error) {
	m.flash = ""
	if err := fn(); err != nil {
		m.warning = warningText(err)
		return
	}
	m.warning = ""
	m.syncUnit()
}

func warningText(err error) string {
	if errors.Is(err, corereview.ErrExplanationRequired) {
		return "Explanation is required for Minor and Major Issues."
	}
	return err.Error()
}

// setLevel records the assessment choice and arms the autosave.
func (m *Model) setLevel(level corereview.IssueLevel) {
	m.level = level
	m.warning = ""
	m.sess.SetDraft(level, m.explanation.Value())
}

// syncUnit reloads the input fields and panels from the session after
// the cursor moved.
func (m *Model) syncUnit() {
	if rec, ok := m.sess.CurrentRecord(); ok {
		m.level = rec.IssueLevel
		m.explanation.SetValue(rec.Explanation)
	} else {
		m.level = corereview.LevelNone
		m.explanation.SetValue("")
	}

	state := m.sess.State()
	email := m.sess.Insights().Email(state.Insight, "N/A")
	m.setWorkoutContent(m.sess.Workouts().Summary(email))

	if m.query != "" {
		m.computeMatches()
		m.gotoMatch(0)
	}
}

func (m *Model) setWorkoutContent(text string) {
	m.workoutText = text
	width := m.workout.Width
	if width <= 0 {
		width = 78
	}
	m.workoutWrapped = lipgloss.NewStyle().Width(width).Render(text)
	m.workout.SetContent(m.workoutWrapped)
}

// computeMatches finds the wrapped lines containing the search query, so
// match offsets line up with the viewport's scroll positions.
func (m *Model) computeMatches() {
	m.matches = nil
	m.matchIdx = 0
	if m.query == "" {
		return
	}

	needle := strings.ToLower(m.query)
	for i, line := range strings.Split(m.workoutWrapped, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			m.matches = append(m.matches, i)
		}
	}
}

// gotoMatch scrolls the workout panel to the nth match, cycling.
func (m *Model) gotoMatch(n int) {
	if len(m.matches) == 0 {
		return
	}

	m.matchIdx = ((n % len(m.matches)) + len(m.matches)) % len(m.matches)
	m.workout.SetYOffset(m.matches[m.matchIdx])
}
