package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentbeats/arenabench/internal/channel"
	"github.com/agentbeats/arenabench/internal/env"
	"github.com/agentbeats/arenabench/internal/models"
)

// staticSource serves a fixed batch, ignoring the filter.
type staticSource struct {
	tasks []*models.Task
	err   error
}

func (s staticSource) Tasks(category string, maxCount int) ([]*models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	if maxCount > 0 && len(s.tasks) > maxCount {
		return s.tasks[:maxCount], nil
	}
	return s.tasks, nil
}

// constChannel answers every send identically, regardless of session.
type constChannel struct {
	reply string
	err   error
}

func (c constChannel) Send(ctx context.Context, sessionID, text string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func numberTask(id, gold string) *models.Task {
	return &models.Task{
		ID:        id,
		Category:  "aggregates",
		Query:     "How many?",
		Strategy:  models.StrategyExact,
		ValueKind: models.ValueKindNumber,
		Gold:      models.GoldAnswer{Values: []string{gold}},
	}
}

func testAdapter() *env.Adapter {
	return env.NewAdapter(&env.StaticConnector{})
}

func constFactory(reply string) ChannelFactory {
	return func(subjectURL string) channel.Channel {
		return constChannel{reply: reply}
	}
}

func TestRunAssessment(t *testing.T) {
	ctx := context.Background()

	t.Run("all tasks pass", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42"), numberTask("t2", "42")}}
		orch := New(source, testAdapter(),
			WithChannelFactory(constFactory(`{"action":"respond","answer":"42"}`)),
			WithWorkers(2))

		report, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.NoError(t, err)
		require.NotEmpty(t, report.RunID)
		require.Equal(t, 2, report.TotalTasks)
		require.Equal(t, 2, report.SuccessfulTasks)
		require.Equal(t, 1.0, report.Accuracy)

		// Report order matches task order regardless of completion order.
		require.Equal(t, "t1", report.Results[0].TaskID)
		require.Equal(t, "t2", report.Results[1].TaskID)

		require.NotNil(t, report.Statistics)
		require.Equal(t, 1.0, report.Statistics.AggregateScore)
		require.InDelta(t, 1.0, report.Statistics.CI95Lo, 1e-9)
		require.InDelta(t, 1.0, report.Statistics.CI95Hi, 1e-9)
	})

	t.Run("accuracy counts only perfect scores", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42"), numberTask("t2", "99")}}
		orch := New(source, testAdapter(),
			WithChannelFactory(constFactory(`{"action":"respond","answer":"42"}`)))

		report, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.NoError(t, err)
		require.Equal(t, 0.5, report.Accuracy)
		require.Equal(t, 1, report.SuccessfulTasks)
		require.Equal(t, models.StatusAnswered, report.Results[1].Status)
		require.Equal(t, 0.0, report.Results[1].Score)
	})

	t.Run("non-answering subject is scored zero, not skipped", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42"), numberTask("t2", "42")}}
		factory := func(subjectURL string) channel.Channel {
			// Replies once, then goes silent.
			return channel.NewScriptedChannel(`{"action":"respond","answer":"42"}`)
		}
		orch := New(source, testAdapter(), WithChannelFactory(factory), WithWorkers(1))

		report, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.NoError(t, err)
		require.Equal(t, 1, report.SuccessfulTasks)
		require.Equal(t, models.StatusChannelError, report.Results[1].Status)
		require.Equal(t, 0.0, report.Results[1].Score)
	})

	t.Run("unreachable subject is a batch error", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42"), numberTask("t2", "42")}}
		factory := func(subjectURL string) channel.Channel {
			return constChannel{err: &channel.ChannelError{Op: "send", Detail: errors.New("connection refused")}}
		}
		orch := New(source, testAdapter(), WithChannelFactory(factory))

		_, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.ErrorContains(t, err, "unreachable")
	})

	t.Run("interactive without a simulator", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42")}}
		orch := New(source, testAdapter(), WithChannelFactory(constFactory("x")))

		_, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject", Interactive: true})
		require.ErrorContains(t, err, "user simulator")
	})

	t.Run("empty batch", func(t *testing.T) {
		orch := New(staticSource{}, testAdapter(), WithChannelFactory(constFactory("x")))

		_, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject", TaskCategory: "nope"})
		require.ErrorContains(t, err, "no tasks matched")
	})

	t.Run("source failure propagates", func(t *testing.T) {
		orch := New(staticSource{err: errors.New("disk gone")}, testAdapter(), WithChannelFactory(constFactory("x")))

		_, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.ErrorContains(t, err, "disk gone")
	})

	t.Run("progress events fire per task", func(t *testing.T) {
		source := staticSource{tasks: []*models.Task{numberTask("t1", "42"), numberTask("t2", "42")}}
		orch := New(source, testAdapter(),
			WithChannelFactory(constFactory(`{"action":"respond","answer":"42"}`)),
			WithWorkers(1))

		var mu sync.Mutex
		counts := map[EventType]int{}
		orch.OnProgress(func(ev ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[ev.EventType]++
		})

		_, err := orch.RunAssessment(ctx, &models.AssessmentRequest{SubjectURL: "http://subject"})
		require.NoError(t, err)

		require.Equal(t, 1, counts[EventAssessmentStart])
		require.Equal(t, 2, counts[EventTaskStart])
		require.Equal(t, 2, counts[EventTaskComplete])
		require.Equal(t, 1, counts[EventAssessmentComplete])
	})
}
