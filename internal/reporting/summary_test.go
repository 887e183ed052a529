package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentbeats/arenabench/internal/models"
)

func sampleReport() *models.AssessmentReport {
	return &models.AssessmentReport{
		RunID:           "run-1",
		SubjectURL:      "http://subject:9000",
		TaskCategory:    "all",
		Timestamp:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Accuracy:        0.5,
		SuccessfulTasks: 1,
		TotalTasks:      2,
		Results: []models.TaskRecord{
			{
				TaskID:   "t1",
				Category: "aggregates",
				Score:    1.0,
				Status:   models.StatusAnswered,
				Turns:    3,
				Result:   models.EvaluationResult{Score: 1.0, Rationale: "extracted values [42] match gold answer"},
			},
			{
				TaskID:   "t2",
				Category: "policy",
				Score:    0.0,
				Status:   models.StatusMaxTurnsExceeded,
				Turns:    20,
				Result:   models.EvaluationResult{Score: 0.0, Rationale: "not scored: session terminated with max_turns_exceeded"},
			},
		},
		Statistics: &models.ReportStatistics{AggregateScore: 0.5, CI95Lo: 0.0, CI95Hi: 1.0},
		DurationMs: 4200,
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	require.Contains(t, md, "## Assessment Results")
	require.Contains(t, md, "http://subject:9000")
	require.Contains(t, md, "**Accuracy:** 50.0%")
	require.Contains(t, md, "2 total, 1 passed, 1 failed")
	require.Contains(t, md, "95% CI 0.000 - 1.000")
	require.Contains(t, md, "| t1 | aggregates | 1.00 | ✅ answered | 3 |")
	require.Contains(t, md, "| t2 | policy | 0.00 | ❌ max_turns_exceeded | 20 |")

	require.Contains(t, md, "### Failed Task Details")
	require.Contains(t, md, "#### t2")
	require.Contains(t, md, "not scored: session terminated")
	require.NotContains(t, md, "#### t1")
}

func TestWriteConsole(t *testing.T) {
	var b strings.Builder
	WriteConsole(&b, sampleReport())
	out := b.String()

	require.Contains(t, out, "t1")
	require.Contains(t, out, "t2")
	require.Contains(t, out, "Accuracy: 50.0% (1/2 passed)")
	require.Contains(t, out, "Aggregate score: 0.500")
	require.Contains(t, out, "Duration: 4.2s")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "0123456789…", truncate("0123456789abc", 10))
}
