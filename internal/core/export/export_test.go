package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/core/stats"
	"github.com/colonyops/metajudge/internal/data/dataset"
)

var testCategories = []string{"factuality", "safety"}

var exportNow = time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *review.Store {
	t.Helper()

	store := review.NewStore()
	// Inserted out of grid order on purpose.
	_, err := store.Upsert(review.UnitKey{Insight: 1, Judge: 0}, review.Record{
		IssueLevel:  review.LevelMinor,
		Explanation: "slightly overstated",
	})
	require.NoError(t, err)
	_, err = store.Upsert(review.UnitKey{Insight: 0, Judge: 1}, review.Record{
		IssueLevel: review.LevelNo,
	})
	require.NoError(t, err)
	_, err = store.Upsert(review.UnitKey{Insight: 0, Judge: 0}, review.Record{
		IssueLevel:  review.LevelMajor,
		Explanation: "claim has no basis in the data",
	})
	require.NoError(t, err)

	return store
}

func seededInsights(t *testing.T) *dataset.Insights {
	t.Helper()

	content := `insight_text,email,goal,factuality_score,factuality_reasoning,safety_score,safety_reasoning
"Pace is trending up",alice@example.com,run a marathon,2,Numbers are off,5,No risky advice
"Strong lifting week",bob@example.com,build muscle,4,Matches the log,4,Loads are reasonable
`
	path := filepath.Join(t.TempDir(), "insights.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ins, missing, err := dataset.LoadInsights(path, testCategories)
	require.NoError(t, err)
	require.Empty(t, missing)
	return ins
}

func TestReviewRows_SortByInsight(t *testing.T) {
	rows := ReviewRows(seededStore(t), seededInsights(t), testCategories, SortByInsight, exportNow)
	require.Len(t, rows, 3)

	assert.Equal(t, "factuality", rows[0].JudgeCategory)
	assert.Equal(t, 1, rows[0].InsightIndex)
	assert.Equal(t, "safety", rows[1].JudgeCategory)
	assert.Equal(t, 1, rows[1].InsightIndex)
	assert.Equal(t, "factuality", rows[2].JudgeCategory)
	assert.Equal(t, 2, rows[2].InsightIndex)
}

func TestReviewRows_SortByJudge(t *testing.T) {
	rows := ReviewRows(seededStore(t), seededInsights(t), testCategories, SortByJudge, exportNow)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"factuality", "factuality", "safety"}, []string{
		rows[0].JudgeCategory, rows[1].JudgeCategory, rows[2].JudgeCategory,
	})
	assert.Equal(t, 1, rows[0].InsightIndex, "insight index breaks ties within a category")
	assert.Equal(t, 2, rows[1].InsightIndex)
}

func TestReviewRows_JoinsDatasetContext(t *testing.T) {
	rows := ReviewRows(seededStore(t), seededInsights(t), testCategories, SortByInsight, exportNow)

	first := rows[0] // (0, 0) factuality
	assert.Equal(t, "Major Issues", first.Assessment)
	assert.Equal(t, "claim has no basis in the data", first.Explanation)
	assert.Equal(t, "2", first.JudgeScore)
	assert.Equal(t, "Numbers are off", first.JudgeReasoning)
	assert.Equal(t, "Pace is trending up", first.InsightText)
	assert.Equal(t, "alice@example.com", first.UserEmail)
	assert.Equal(t, "run a marathon", first.UserGoal)
	assert.Equal(t, "2026-08-25 14:00:00", first.Timestamp)
}

func TestReviewRows_NilInsights(t *testing.T) {
	rows := ReviewRows(seededStore(t), nil, testCategories, SortByInsight, exportNow)
	require.Len(t, rows, 3)
	assert.Empty(t, rows[0].InsightText)
	assert.Empty(t, rows[0].JudgeScore)
	assert.Equal(t, "Major Issues", rows[0].Assessment)
}

func TestWriteReviews_Header(t *testing.T) {
	var buf bytes.Buffer
	rows := ReviewRows(seededStore(t), seededInsights(t), testCategories, SortByInsight, exportNow)
	require.NoError(t, WriteReviews(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, ReviewHeader, records[0])
	assert.Equal(t, "factuality", records[1][0])
	assert.Equal(t, "1", records[1][1])
}

func TestStatisticsRows_DescendingIssueRate(t *testing.T) {
	report := stats.Compute(seededStore(t), 2, 2, testCategories)
	rows := StatisticsRows(report, exportNow)
	require.Len(t, rows, 2)

	// factuality: minor + major over 2 reviews = 100%; safety: 0%.
	assert.Equal(t, "factuality", rows[0].JudgeCategory)
	assert.InDelta(t, 100.0, rows[0].IssueRatePct, 0.001)
	assert.Equal(t, "safety", rows[1].JudgeCategory)
	assert.InDelta(t, 0.0, rows[1].IssueRatePct, 0.001)
}

func TestWriteStatistics(t *testing.T) {
	report := stats.Compute(seededStore(t), 2, 2, testCategories)

	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, StatisticsRows(report, exportNow)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, StatisticsHeader, records[0])
	assert.Equal(t, []string{
		"factuality", "2", "0", "1", "1", "100.0", "0.0", "50.0", "50.0",
		"2026-08-25 14:00:00",
	}, records[1])
}

func TestParseSortBy(t *testing.T) {
	got, err := ParseSortBy("")
	require.NoError(t, err)
	assert.Equal(t, SortByInsight, got)

	got, err = ParseSortBy("judge")
	require.NoError(t, err)
	assert.Equal(t, SortByJudge, got)

	_, err = ParseSortBy("email")
	assert.Error(t, err)
}
