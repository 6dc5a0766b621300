package review

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corereview "github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/metajudge"
	"github.com/colonyops/metajudge/internal/store/savefile"
)

const modelInsightsCSV = `insight_text,email,goal,factuality_score,factuality_reasoning,safety_score,safety_reasoning
"Pace is trending up",alice@example.com,run a marathon,2,Numbers are off,5,No risky advice
"Strong lifting week",bob@example.com,build muscle,4,Matches the log,4,Loads are reasonable
`

func newTestModel(t *testing.T) *Model {
	t.Helper()

	insightsPath := filepath.Join(t.TempDir(), "insights.csv")
	require.NoError(t, os.WriteFile(insightsPath, []byte(modelInsightsCSV), 0o644))

	sess, report, err := metajudge.Start(metajudge.Options{
		Categories:    []string{"factuality", "safety"},
		Saves:         savefile.NewStore(t.TempDir()),
		AutosaveDelay: time.Hour, // keep the timer out of these tests
		Logger:        zerolog.Nop(),
	}, insightsPath, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	return New(sess, report, Styles{})
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, _ = m.Update(msg)
	}
}

func TestAssessAndAdvance(t *testing.T) {
	m := newTestModel(t)

	press(m, "1", "n")

	assert.Equal(t, corereview.UnitKey{Insight: 0, Judge: 1}, m.sess.Unit())
	rec, ok := m.sess.Record(corereview.UnitKey{Insight: 0, Judge: 0})
	require.True(t, ok)
	assert.Equal(t, corereview.LevelNo, rec.IssueLevel)
	assert.Empty(t, m.warning)
}

func TestMajorWithoutExplanationBlocks(t *testing.T) {
	m := newTestModel(t)

	press(m, "3", "n")

	assert.Equal(t, corereview.UnitKey{Insight: 0, Judge: 0}, m.sess.Unit(), "navigation is blocked")
	assert.Contains(t, m.warning, "Explanation is required")

	press(m, "e")
	press(m, "claim has no basis")
	press(m, "esc", "n")

	assert.Equal(t, corereview.UnitKey{Insight: 0, Judge: 1}, m.sess.Unit())
	assert.Empty(t, m.warning)
}

func TestManualSave(t *testing.T) {
	m := newTestModel(t)

	press(m, "1", "ctrl+s")

	assert.Equal(t, "Saved", m.flash)
	assert.False(t, m.sess.LastSaved().IsZero())
}

func TestJumpToInsight(t *testing.T) {
	m := newTestModel(t)

	press(m, "g")
	assert.Equal(t, modeJumpInsight, m.mode)

	press(m, "2", "enter")
	assert.Equal(t, corereview.UnitKey{Insight: 1, Judge: 0}, m.sess.Unit())
	assert.Equal(t, modeBrowse, m.mode)

	press(m, "g", "9", "enter")
	assert.Equal(t, corereview.UnitKey{Insight: 1, Judge: 0}, m.sess.Unit(), "out of range keeps the cursor")
	assert.NotEmpty(t, m.warning)
}

func TestSyncLoadsStoredRecord(t *testing.T) {
	m := newTestModel(t)

	press(m, "e")
	press(m, "slightly off")
	press(m, "esc", "2", "n", "p")

	assert.Equal(t, corereview.LevelMinor, m.level)
	assert.Equal(t, "slightly off", m.explanation.Value())
}
