// Package statsview formats a statistics report as markdown, rendered
// with glamour in the TUI and the stats command.
package statsview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/metajudge/internal/core/stats"
)

// Markdown renders the report as a markdown document. Categories are
// listed worst issue rate first.
func Markdown(report stats.Report) string {
	var b strings.Builder
	s := report.Summary

	b.WriteString("# Review Statistics\n\n")

	fmt.Fprintf(&b, "**Completed:** %d / %d units (%.1f%%)\n\n", s.Completed, s.TotalPossible, s.CompletionPct)
	fmt.Fprintf(&b, "**Insights reviewed:** %d / %d\n\n", s.InsightsReviewed, s.TotalInsights)
	fmt.Fprintf(&b, "**Overall issue rate:** %.1f%%\n\n", s.IssueRatePct)

	b.WriteString("| Assessment | Count | Percent |\n")
	b.WriteString("| --- | ---: | ---: |\n")
	fmt.Fprintf(&b, "| No Issues | %d | %.1f%% |\n", s.NoIssues, s.NoIssuesPct)
	fmt.Fprintf(&b, "| Minor Issues | %d | %.1f%% |\n", s.MinorIssues, s.MinorIssuesPct)
	fmt.Fprintf(&b, "| Major Issues | %d | %.1f%% |\n\n", s.MajorIssues, s.MajorIssuesPct)

	b.WriteString("## By Judge Category\n\n")
	b.WriteString("| Category | Reviews | Issue Rate | No | Minor | Major |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, cat := range report.SortedByIssueRate() {
		fmt.Fprintf(&b, "| %s | %d | %.1f%% | %d | %d | %d |\n",
			cat.Name, cat.Total, cat.IssueRatePct,
			cat.NoIssues, cat.MinorIssues, cat.MajorIssues)
	}

	return b.String()
}

// Render returns the report styled for a terminal of the given width,
// falling back to raw markdown when rendering fails.
func Render(report stats.Report, width int) string {
	md := Markdown(report)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
