// Package stats derives summary and per-judge-category statistics from a
// review store. Everything here is a pure function of the store and the
// session's dimensions.
package stats

import (
	"sort"

	"github.com/colonyops/metajudge/internal/core/review"
)

// Summary holds the global counters across all completed reviews.
type Summary struct {
	TotalPossible int // total_insights * total_judges
	Completed     int

	NoIssues    int
	MinorIssues int
	MajorIssues int

	NoIssuesPct    float64
	MinorIssuesPct float64
	MajorIssuesPct float64
	CompletionPct  float64

	// IssueRatePct is (minor+major)/completed expressed as a percentage.
	IssueRatePct float64

	InsightsReviewed int
	TotalInsights    int
	TotalJudges      int
}

// Category holds counters for one judge category.
type Category struct {
	Name string

	Total       int
	NoIssues    int
	MinorIssues int
	MajorIssues int

	NoIssuesPct    float64
	MinorIssuesPct float64
	MajorIssuesPct float64
	IssueRatePct   float64
}

// Report is the output of Compute. Categories keep the fixed category-list
// order; SortedByIssueRate produces the display ordering.
type Report struct {
	Summary    Summary
	Categories []Category
}

// Compute aggregates the store into a Report. Categories with zero
// reviews are included. Every percentage with a zero denominator reports
// 0, never an error.
func Compute(store *review.Store, totalInsights, totalJudges int, categories []string) Report {
	summary := Summary{
		TotalPossible: totalInsights * totalJudges,
		Completed:     store.Count(),
		TotalInsights: totalInsights,
		TotalJudges:   totalJudges,
	}

	byJudge := make([]Category, len(categories))
	for i, name := range categories {
		byJudge[i] = Category{Name: name}
	}

	for _, entry := range store.All() {
		var cat *Category
		if entry.Key.Judge >= 0 && entry.Key.Judge < len(byJudge) {
			cat = &byJudge[entry.Key.Judge]
			cat.Total++
		}

		switch entry.Record.IssueLevel {
		case review.LevelNo:
			summary.NoIssues++
			if cat != nil {
				cat.NoIssues++
			}
		case review.LevelMinor:
			summary.MinorIssues++
			if cat != nil {
				cat.MinorIssues++
			}
		case review.LevelMajor:
			summary.MajorIssues++
			if cat != nil {
				cat.MajorIssues++
			}
		}
	}

	summary.NoIssuesPct = pct(summary.NoIssues, summary.Completed)
	summary.MinorIssuesPct = pct(summary.MinorIssues, summary.Completed)
	summary.MajorIssuesPct = pct(summary.MajorIssues, summary.Completed)
	summary.CompletionPct = pct(summary.Completed, summary.TotalPossible)
	summary.IssueRatePct = pct(summary.MinorIssues+summary.MajorIssues, summary.Completed)
	summary.InsightsReviewed = store.ReviewedInsights()

	for i := range byJudge {
		c := &byJudge[i]
		c.NoIssuesPct = pct(c.NoIssues, c.Total)
		c.MinorIssuesPct = pct(c.MinorIssues, c.Total)
		c.MajorIssuesPct = pct(c.MajorIssues, c.Total)
		c.IssueRatePct = pct(c.MinorIssues+c.MajorIssues, c.Total)
	}

	return Report{Summary: summary, Categories: byJudge}
}

// SortedByIssueRate returns a copy of the categories ordered by descending
// issue rate. The ordering is for display and export only; Categories
// itself retains the fixed category-list order.
func (r Report) SortedByIssueRate() []Category {
	sorted := make([]Category, len(r.Categories))
	copy(sorted, r.Categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IssueRatePct > sorted[j].IssueRatePct
	})
	return sorted
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
