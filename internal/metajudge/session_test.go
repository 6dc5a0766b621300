package metajudge

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/metajudge/internal/core/export"
	"github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/store/savefile"
)

var testCategories = []string{"factuality", "safety"}

const testInsightsCSV = `insight_text,email,goal,factuality_score,factuality_reasoning,safety_score,safety_reasoning
"Pace is trending up",alice@example.com,run a marathon,2,Numbers are off,5,No risky advice
"Strong lifting week",bob@example.com,build muscle,4,Matches the log,4,Loads are reasonable
`

const testWorkoutsCSV = `email,workout_summary
alice@example.com,"3 runs, 25km total"
`

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Categories:    testCategories,
		Saves:         savefile.NewStore(t.TempDir()),
		AutosaveDelay: 20 * time.Millisecond,
		Logger:        zerolog.Nop(),
	}
}

func writeDatasets(t *testing.T) (insightsPath, workoutsPath string) {
	t.Helper()
	dir := t.TempDir()

	insightsPath = filepath.Join(dir, "insights.csv")
	require.NoError(t, os.WriteFile(insightsPath, []byte(testInsightsCSV), 0o644))

	workoutsPath = filepath.Join(dir, "workouts.csv")
	require.NoError(t, os.WriteFile(workoutsPath, []byte(testWorkoutsCSV), 0o644))

	return insightsPath, workoutsPath
}

func startSession(t *testing.T, opts Options) *Session {
	t.Helper()
	insightsPath, workoutsPath := writeDatasets(t)

	s, report, err := Start(opts, insightsPath, workoutsPath)
	require.NoError(t, err)
	require.False(t, report.Resumed)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStart_LoadReport(t *testing.T) {
	insightsPath, workoutsPath := writeDatasets(t)

	s, report, err := Start(testOptions(t), insightsPath, workoutsPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Empty(t, report.MissingInsightColumns)
	assert.Equal(t, 1, report.MatchedEmails, "only alice has workout history")
	assert.Equal(t, 2, report.TotalEmails)
	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 0}, s.Unit())
	assert.Equal(t, "factuality", s.Category())
}

func TestStart_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("insight_text,email,goal\n"), 0o644))

	_, _, err := Start(testOptions(t), path, "")
	assert.ErrorIs(t, err, ErrNoInsights)
}

func TestCommit_RecordsAndPersists(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelNo, "")
	require.NoError(t, s.Commit())

	rec, ok := s.CurrentRecord()
	require.True(t, ok)
	assert.Equal(t, review.LevelNo, rec.IssueLevel)
	assert.False(t, s.LastSaved().IsZero())

	completed, total := s.Progress()
	assert.Equal(t, 1, completed)
	assert.Equal(t, 4, total)
}

func TestCommit_EmptyDraftIsNoOp(t *testing.T) {
	s := startSession(t, testOptions(t))

	require.NoError(t, s.Commit())
	completed, _ := s.Progress()
	assert.Equal(t, 0, completed)
}

func TestNavigation_CommitsThenMoves(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelMinor, "score looks generous")
	require.NoError(t, s.NextUnit())

	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 1}, s.Unit())
	rec, ok := s.Record(review.UnitKey{Insight: 0, Judge: 0})
	require.True(t, ok)
	assert.Equal(t, review.LevelMinor, rec.IssueLevel)
}

func TestNavigation_InvalidDraftBlocksMove(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelMajor, "   ")
	err := s.NextUnit()
	require.ErrorIs(t, err, review.ErrExplanationRequired)

	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 0}, s.Unit(), "cursor stays put")
	_, ok := s.CurrentRecord()
	assert.False(t, ok, "nothing was recorded")
}

func TestNavigation_ClearedDraftMovesFreely(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelMajor, "")
	s.ClearDraft()
	require.NoError(t, s.NextUnit())
	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 1}, s.Unit())
}

func TestJump_OutOfRange(t *testing.T) {
	s := startSession(t, testOptions(t))

	err := s.JumpToInsight(3)
	require.Error(t, err)
	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 0}, s.Unit())

	require.NoError(t, s.JumpToInsight(2))
	assert.Equal(t, review.UnitKey{Insight: 1, Judge: 0}, s.Unit())
}

func TestAutosave_FlushesDraft(t *testing.T) {
	opts := testOptions(t)
	s := startSession(t, opts)

	s.SetDraft(review.LevelNo, "")

	assert.Eventually(t, func() bool {
		_, ok := s.CurrentRecord()
		return ok
	}, time.Second, 5*time.Millisecond, "debounced autosave commits the draft")

	_, exists := opts.Saves.Find(s.State().InsightsFile, s.State().WorkoutFile)
	assert.True(t, exists)
}

func TestResume_RoundTrip(t *testing.T) {
	opts := testOptions(t)
	insightsPath, workoutsPath := writeDatasets(t)

	s, _, err := Start(opts, insightsPath, workoutsPath)
	require.NoError(t, err)

	s.SetDraft(review.LevelMajor, "claim has no basis")
	require.NoError(t, s.NextUnit())
	require.NoError(t, s.Close())

	snap, err := opts.Saves.Load(s.SavePath())
	require.NoError(t, err)

	resumed, report, err := Resume(opts, snap)
	require.NoError(t, err)
	defer func() { _ = resumed.Close() }()

	assert.True(t, report.Resumed)
	assert.False(t, report.CursorReset)
	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 1}, resumed.Unit())

	rec, ok := resumed.Record(review.UnitKey{Insight: 0, Judge: 0})
	require.True(t, ok)
	assert.Equal(t, "claim has no basis", rec.Explanation)
}

func TestResume_CursorOutOfBoundsResets(t *testing.T) {
	opts := testOptions(t)
	insightsPath, workoutsPath := writeDatasets(t)

	s, _, err := Start(opts, insightsPath, workoutsPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	snap, err := opts.Saves.Load(s.SavePath())
	require.NoError(t, err)
	snap.Data.CurrentInsightIndex = 99

	resumed, report, err := Resume(opts, snap)
	require.NoError(t, err)
	defer func() { _ = resumed.Close() }()

	assert.True(t, report.CursorReset)
	assert.Equal(t, review.UnitKey{Insight: 0, Judge: 0}, resumed.Unit())
}

func TestExportReviews(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelNo, "")
	require.NoError(t, s.Commit())

	var buf bytes.Buffer
	require.NoError(t, s.ExportReviews(&buf, export.SortByInsight))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.ReviewHeader, records[0])
	assert.Equal(t, "factuality", records[1][0])
	assert.Equal(t, "No Issues", records[1][2])
}

func TestStats(t *testing.T) {
	s := startSession(t, testOptions(t))

	s.SetDraft(review.LevelMajor, "wrong numbers")
	require.NoError(t, s.Commit())

	report := s.Stats()
	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, 4, report.Summary.TotalPossible)
	assert.InDelta(t, 100.0, report.Summary.IssueRatePct, 0.001)
}
