// Package reporting renders assessment reports for humans: a markdown
// summary and a console table.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/agentbeats/arenabench/internal/models"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Markdown renders the report as a markdown summary with a per-task table
// and failure details.
func Markdown(report *models.AssessmentReport) string {
	var b strings.Builder

	duration := time.Duration(report.DurationMs) * time.Millisecond

	b.WriteString("## Assessment Results\n\n")
	fmt.Fprintf(&b, "**Subject:** %s | **Category:** %s | **Duration:** %s\n\n",
		report.SubjectURL, report.TaskCategory, formatDuration(duration))

	fmt.Fprintf(&b, "- **Tasks:** %d total, %d passed, %d failed\n",
		report.TotalTasks, report.SuccessfulTasks, report.TotalTasks-report.SuccessfulTasks)
	fmt.Fprintf(&b, "- **Accuracy:** %.1f%%\n", report.Accuracy*100)
	if s := report.Statistics; s != nil {
		fmt.Fprintf(&b, "- **Aggregate Score:** %.3f", s.AggregateScore)
		if s.CI95Lo != 0 || s.CI95Hi != 0 {
			fmt.Fprintf(&b, " (95%% CI %.3f - %.3f)", s.CI95Lo, s.CI95Hi)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("### Task Results\n\n")
	b.WriteString("| Task | Category | Score | Status | Turns |\n")
	b.WriteString("|------|----------|-------|--------|-------|\n")
	for _, rec := range report.Results {
		icon := "✅"
		if !rec.Result.Passed() {
			icon = "❌"
		}
		fmt.Fprintf(&b, "| %s | %s | %.2f | %s %s | %d |\n",
			rec.TaskID, rec.Category, rec.Score, icon, rec.Status, rec.Turns)
	}
	b.WriteString("\n")

	var failed []models.TaskRecord
	for _, rec := range report.Results {
		if !rec.Result.Passed() {
			failed = append(failed, rec)
		}
	}
	if len(failed) > 0 {
		b.WriteString("### Failed Task Details\n\n")
		for _, rec := range failed {
			fmt.Fprintf(&b, "#### %s\n\n", rec.TaskID)
			fmt.Fprintf(&b, "- Status: %s\n", rec.Status)
			if rec.Result.Rationale != "" {
				fmt.Fprintf(&b, "- Rationale: %s\n", rec.Result.Rationale)
			}
			if rec.Trajectory.FinalAnswer != "" {
				fmt.Fprintf(&b, "- Final answer: %s\n", truncate(rec.Trajectory.FinalAnswer, 200))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// WriteConsole renders a per-task results table followed by the aggregate
// metrics.
func WriteConsole(w io.Writer, report *models.AssessmentReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Task", "Category", "Score", "Status", "Turns"})
	for _, rec := range report.Results {
		t.AppendRow(table.Row{
			rec.TaskID,
			rec.Category,
			fmt.Sprintf("%.2f", rec.Score),
			string(rec.Status),
			rec.Turns,
		})
	}
	t.Render()

	fmt.Fprintf(w, "\nAccuracy: %.1f%% (%d/%d passed)\n",
		report.Accuracy*100, report.SuccessfulTasks, report.TotalTasks)
	if s := report.Statistics; s != nil {
		fmt.Fprintf(w, "Aggregate score: %.3f", s.AggregateScore)
		if s.CI95Lo != 0 || s.CI95Hi != 0 {
			fmt.Fprintf(w, " (95%% CI %.3f - %.3f)", s.CI95Lo, s.CI95Hi)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(time.Duration(report.DurationMs)*time.Millisecond))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
