// Package export turns review and statistics state into CSV rows. The
// transformations here are pure; the commands layer decides where the
// bytes go.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/core/stats"
	"github.com/colonyops/metajudge/internal/data/dataset"
)

// SortBy selects the primary sort key for review exports. The other
// tuple member breaks ties.
type SortBy string

const (
	SortByInsight SortBy = "insight"
	SortByJudge   SortBy = "judge"
)

// timeLayout is the timestamp format stamped on every exported row.
const timeLayout = "2006-01-02 15:04:05"

// ReviewHeader is the reviews CSV column order.
var ReviewHeader = []string{
	"judge_category",
	"insight_index",
	"metajudge_assessment",
	"metajudge_explanation",
	"judge_score",
	"judge_reasoning",
	"insight_text",
	"user_email",
	"user_goal",
	"review_timestamp",
}

// StatisticsHeader is the statistics CSV column order.
var StatisticsHeader = []string{
	"judge_category",
	"total_reviews",
	"no_issues_count",
	"minor_issues_count",
	"major_issues_count",
	"issue_rate_percent",
	"no_issues_percent",
	"minor_issues_percent",
	"major_issues_percent",
	"export_timestamp",
}

// ReviewRow is one exported review joined with its dataset context.
type ReviewRow struct {
	JudgeCategory  string
	InsightIndex   int // 1-based for readers
	Assessment     string
	Explanation    string
	JudgeScore     string
	JudgeReasoning string
	InsightText    string
	UserEmail      string
	UserGoal       string
	Timestamp      string
}

// ReviewRows builds one row per recorded review, joined with the insight
// text and the stored judge score/reasoning for the row's category.
// Records whose judge index falls outside the category list export with
// an empty category name rather than being dropped.
func ReviewRows(store *review.Store, insights *dataset.Insights, categories []string, sortBy SortBy, now time.Time) []ReviewRow {
	entries := store.All()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if sortBy == SortByJudge {
			if a.Judge != b.Judge {
				return a.Judge < b.Judge
			}
			return a.Insight < b.Insight
		}
		if a.Insight != b.Insight {
			return a.Insight < b.Insight
		}
		return a.Judge < b.Judge
	})

	ts := now.Format(timeLayout)

	rows := make([]ReviewRow, 0, len(entries))
	for _, entry := range entries {
		var category string
		if entry.Key.Judge >= 0 && entry.Key.Judge < len(categories) {
			category = categories[entry.Key.Judge]
		}

		row := ReviewRow{
			JudgeCategory: category,
			InsightIndex:  entry.Key.Insight + 1,
			Assessment:    string(entry.Record.IssueLevel),
			Explanation:   entry.Record.Explanation,
			Timestamp:     ts,
		}

		if insights != nil && entry.Key.Insight >= 0 && entry.Key.Insight < insights.Len() {
			i := entry.Key.Insight
			row.InsightText = insights.Text(i, "")
			row.UserEmail = insights.Email(i, "")
			row.UserGoal = insights.Goal(i, "")
			if category != "" {
				row.JudgeScore = insights.Score(i, category, "")
				row.JudgeReasoning = insights.Reasoning(i, category, "")
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// StatRow is one exported per-category statistics line.
type StatRow struct {
	JudgeCategory    string
	TotalReviews     int
	NoIssuesCount    int
	MinorIssuesCount int
	MajorIssuesCount int
	IssueRatePct     float64
	NoIssuesPct      float64
	MinorIssuesPct   float64
	MajorIssuesPct   float64
	Timestamp        string
}

// StatisticsRows builds one row per judge category, worst issue rate
// first.
func StatisticsRows(report stats.Report, now time.Time) []StatRow {
	ts := now.Format(timeLayout)

	categories := report.SortedByIssueRate()
	rows := make([]StatRow, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, StatRow{
			JudgeCategory:    cat.Name,
			TotalReviews:     cat.Total,
			NoIssuesCount:    cat.NoIssues,
			MinorIssuesCount: cat.MinorIssues,
			MajorIssuesCount: cat.MajorIssues,
			IssueRatePct:     cat.IssueRatePct,
			NoIssuesPct:      cat.NoIssuesPct,
			MinorIssuesPct:   cat.MinorIssuesPct,
			MajorIssuesPct:   cat.MajorIssuesPct,
			Timestamp:        ts,
		})
	}

	return rows
}

// WriteReviews writes the reviews CSV, header included.
func WriteReviews(w io.Writer, rows []ReviewRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ReviewHeader); err != nil {
		return fmt.Errorf("write reviews header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.JudgeCategory,
			fmt.Sprintf("%d", row.InsightIndex),
			row.Assessment,
			row.Explanation,
			row.JudgeScore,
			row.JudgeReasoning,
			row.InsightText,
			row.UserEmail,
			row.UserGoal,
			row.Timestamp,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write review row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteStatistics writes the statistics CSV, header included. Percentages
// are rounded to one decimal place.
func WriteStatistics(w io.Writer, rows []StatRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(StatisticsHeader); err != nil {
		return fmt.Errorf("write statistics header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.JudgeCategory,
			fmt.Sprintf("%d", row.TotalReviews),
			fmt.Sprintf("%d", row.NoIssuesCount),
			fmt.Sprintf("%d", row.MinorIssuesCount),
			fmt.Sprintf("%d", row.MajorIssuesCount),
			fmt.Sprintf("%.1f", row.IssueRatePct),
			fmt.Sprintf("%.1f", row.NoIssuesPct),
			fmt.Sprintf("%.1f", row.MinorIssuesPct),
			fmt.Sprintf("%.1f", row.MajorIssuesPct),
			row.Timestamp,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write statistics row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseSortBy validates a user-supplied sort key, defaulting to insight
// order for the empty string.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case "", SortByInsight:
		return SortByInsight, nil
	case SortByJudge:
		return SortByJudge, nil
	default:
		return "", fmt.Errorf("invalid sort key %q: want %q or %q", s, SortByInsight, SortByJudge)
	}
}
