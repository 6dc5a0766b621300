package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const insightsCSV = `insight_text,email,goal,factuality_score,factuality_reasoning
"Great pace improvement this week",alice@example.com,run a marathon,4,Claims match the logged runs
"You lifted 20% more",bob@example.com,,2,No supporting data
`

const workoutsCSV = `email,workout_summary
alice@example.com,"3 runs, 25km total"
carol@example.com,"2 swim sessions"
`

func TestLoad_RowsAndColumns(t *testing.T) {
	table, err := Load(writeCSV(t, "insights.csv", insightsCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.HasColumn("email"))
	assert.False(t, table.HasColumn("nope"))
	assert.Equal(t, "alice@example.com", table.Row(0).Get("email", "N/A"))
}

func TestRow_GetDefaults(t *testing.T) {
	table, err := Load(writeCSV(t, "insights.csv", insightsCSV))
	require.NoError(t, err)

	row := table.Row(1)
	assert.Equal(t, "N/A", row.Get("goal", "N/A"), "empty cell falls back to default")
	assert.Equal(t, "N/A", row.Get("missing_column", "N/A"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoadInsights_ReportsMissingColumns(t *testing.T) {
	ins, missing, err := LoadInsights(writeCSV(t, "insights.csv", insightsCSV), []string{"factuality", "safety"})
	require.NoError(t, err)

	assert.Equal(t, []string{"safety_score", "safety_reasoning"}, missing)
	assert.Equal(t, 2, ins.Len())
	assert.Equal(t, "4", ins.Score(0, "factuality", ""))
	assert.Equal(t, "", ins.Score(0, "safety", ""))
	assert.Equal(t, "Claims match the logged runs", ins.Reasoning(0, "factuality", "N/A"))
}

func TestWorkouts_Summary(t *testing.T) {
	w, missing, err := LoadWorkouts(writeCSV(t, "workouts.csv", workoutsCSV))
	require.NoError(t, err)
	assert.Empty(t, missing)

	assert.Equal(t, "3 runs, 25km total", w.Summary("alice@example.com"))
	assert.Equal(t, "No workout history found for: bob@example.com", w.Summary("bob@example.com"))
}

func TestWorkouts_SummaryPlaceholders(t *testing.T) {
	var none *Workouts
	assert.Equal(t, "No workout history data loaded.", none.Summary("alice@example.com"))

	w, missing, err := LoadWorkouts(writeCSV(t, "workouts.csv", "email,notes\nalice@example.com,hi\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"workout_summary"}, missing)
	assert.Equal(t, "Workout history data missing 'workout_summary' column.", w.Summary("alice@example.com"))

	w, _, err = LoadWorkouts(writeCSV(t, "empty.csv", "email,workout_summary\nalice@example.com,\n"))
	require.NoError(t, err)
	assert.Equal(t, "Workout summary is empty.", w.Summary("alice@example.com"))
}

func TestMatchedEmails(t *testing.T) {
	ins, _, err := LoadInsights(writeCSV(t, "insights.csv", insightsCSV), []string{"factuality"})
	require.NoError(t, err)
	w, _, err := LoadWorkouts(writeCSV(t, "workouts.csv", workoutsCSV))
	require.NoError(t, err)

	matched, total := MatchedEmails(ins, w)
	assert.Equal(t, 1, matched)
	assert.Equal(t, 2, total)

	matched, total = MatchedEmails(ins, nil)
	assert.Equal(t, 0, matched)
	assert.Equal(t, 2, total)
}
