// Package orchestration runs assessment batches: it fans tasks out to
// concurrent sessions, scores each trajectory, and folds the results into a
// single report.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentbeats/arenabench/internal/channel"
	"github.com/agentbeats/arenabench/internal/env"
	"github.com/agentbeats/arenabench/internal/evaluator"
	"github.com/agentbeats/arenabench/internal/models"
	"github.com/agentbeats/arenabench/internal/session"
	"github.com/agentbeats/arenabench/internal/statistics"
	"github.com/agentbeats/arenabench/internal/tasks"
)

// DefaultWorkers is the concurrent session limit when none is configured.
const DefaultWorkers = 4

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event.
type EventType string

const (
	EventAssessmentStart    EventType = "assessment_start"
	EventAssessmentComplete EventType = "assessment_complete"
	EventTaskStart          EventType = "task_start"
	EventTaskComplete       EventType = "task_complete"
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	EventType  EventType
	TaskID     string
	TaskNum    int
	TotalTasks int
	Status     models.TerminalStatus
	Score      float64
	DurationMs int64
}

// ChannelFactory builds a message channel for a subject URL. Injectable so
// tests can swap the HTTP transport for a scripted one.
type ChannelFactory func(subjectURL string) channel.Channel

// Orchestrator drives assessment runs. Sessions within a batch are
// independent; results are aggregated index-stable so report order matches
// task order regardless of completion order.
type Orchestrator struct {
	source  tasks.Source
	adapter *env.Adapter
	channel ChannelFactory
	sim     session.Simulator
	evalOps evaluator.Options
	logger  *slog.Logger

	sessionLogger session.Logger
	workers       int

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the concurrent session limit.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithChannelFactory overrides the subject transport.
func WithChannelFactory(f ChannelFactory) Option {
	return func(o *Orchestrator) { o.channel = f }
}

// WithSimulator sets the user simulator used for interactive assessments.
func WithSimulator(sim session.Simulator) Option {
	return func(o *Orchestrator) { o.sim = sim }
}

// WithEvaluatorOptions injects evaluator collaborators.
func WithEvaluatorOptions(opts evaluator.Options) Option {
	return func(o *Orchestrator) { o.evalOps = opts }
}

// WithSessionLogger sets the per-event session log sink.
func WithSessionLogger(l session.Logger) Option {
	return func(o *Orchestrator) { o.sessionLogger = l }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator over the given task source and environment
// adapter.
func New(source tasks.Source, adapter *env.Adapter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:        source,
		adapter:       adapter,
		logger:        slog.Default(),
		sessionLogger: session.NopLogger{},
		workers:       DefaultWorkers,
		listeners:     []ProgressListener{},
	}
	o.channel = func(subjectURL string) channel.Channel {
		return channel.NewHTTPChannel(subjectURL)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnProgress registers a progress listener.
func (o *Orchestrator) OnProgress(listener ProgressListener) {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.listeners = append(o.listeners, listener)
}

func (o *Orchestrator) notifyProgress(event ProgressEvent) {
	o.progressMu.Lock()
	listeners := make([]ProgressListener, len(o.listeners))
	copy(listeners, o.listeners)
	o.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// RunAssessment executes the full batch described by req and returns the
// aggregate report. A subject that never produced a single successful
// exchange is reported as an error rather than an all-zero score.
func (o *Orchestrator) RunAssessment(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentReport, error) {
	start := time.Now()
	req.ApplyDefaults()

	if req.Interactive && o.sim == nil {
		return nil, fmt.Errorf("interactive assessment requires a user simulator")
	}

	batch, err := o.source.Tasks(req.TaskCategory, req.MaxTasks)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("no tasks matched category %q", req.TaskCategory)
	}

	runID := uuid.NewString()
	o.logger.Info("assessment starting",
		"run_id", runID,
		"subject_url", req.SubjectURL,
		"category", req.TaskCategory,
		"tasks", len(batch),
		"interactive", req.Interactive)

	o.notifyProgress(ProgressEvent{
		EventType:  EventAssessmentStart,
		TotalTasks: len(batch),
	})

	runnerOpts := []session.Option{
		session.WithLogger(o.sessionLogger),
		session.WithMaxTurns(req.MaxTurns),
		session.WithMaxUserTurns(req.MaxUserTurns),
	}
	if req.Interactive {
		runnerOpts = append(runnerOpts, session.WithSimulator(o.sim))
	}
	runner := session.NewRunner(o.channel(req.SubjectURL), o.adapter, runnerOpts...)

	records := make([]models.TaskRecord, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, task := range batch {
		g.Go(func() error {
			o.notifyProgress(ProgressEvent{
				EventType:  EventTaskStart,
				TaskID:     task.ID,
				TaskNum:    i + 1,
				TotalTasks: len(batch),
			})

			records[i] = o.runTask(gctx, runner, task)

			o.notifyProgress(ProgressEvent{
				EventType:  EventTaskComplete,
				TaskID:     task.ID,
				TaskNum:    i + 1,
				TotalTasks: len(batch),
				Status:     records[i].Status,
				Score:      records[i].Score,
				DurationMs: records[i].Trajectory.DurationMs,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := subjectUnreachable(records); err != nil {
		return nil, fmt.Errorf("subject at %s: %w", req.SubjectURL, err)
	}

	report := o.buildReport(runID, req, records, start)

	o.notifyProgress(ProgressEvent{
		EventType:  EventAssessmentComplete,
		TotalTasks: len(batch),
		DurationMs: report.DurationMs,
	})
	o.logger.Info("assessment complete",
		"run_id", runID,
		"accuracy", report.Accuracy,
		"successful", report.SuccessfulTasks,
		"total", report.TotalTasks,
		"duration_ms", report.DurationMs)

	return report, nil
}

// runTask drives one session and scores its trajectory. Session and
// evaluation failures become zero-score records, never batch errors.
func (o *Orchestrator) runTask(ctx context.Context, runner *session.Runner, task *models.Task) models.TaskRecord {
	traj := runner.Run(ctx, task)

	var result models.EvaluationResult
	ev, err := evaluator.Create(task.Strategy, nil, o.evalOps)
	if err != nil {
		result = models.EvaluationResult{Score: 0.0, Rationale: "evaluator setup failed: " + err.Error()}
	} else {
		result = evaluator.Evaluate(ctx, ev, task, traj)
	}

	o.logger.Debug("task scored",
		"task_id", task.ID,
		"status", traj.Status,
		"score", result.Score,
		"turns", len(traj.Turns))

	return models.TaskRecord{
		TaskID:     task.ID,
		Category:   task.Category,
		Score:      result.Score,
		Status:     traj.Status,
		Turns:      len(traj.Turns),
		Result:     result,
		Trajectory: *traj,
	}
}

// subjectUnreachable detects the degenerate batch where every session died
// on the channel before a single action turn.
func subjectUnreachable(records []models.TaskRecord) error {
	for _, rec := range records {
		if rec.Status != models.StatusChannelError || rec.Turns > 0 {
			return nil
		}
	}
	return fmt.Errorf("unreachable: every session failed before the first action")
}

func (o *Orchestrator) buildReport(runID string, req *models.AssessmentRequest, records []models.TaskRecord, start time.Time) *models.AssessmentReport {
	successes := 0
	scores := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Result.Passed() {
			successes++
		}
		scores = append(scores, rec.Score)
	}

	report := &models.AssessmentReport{
		RunID:           runID,
		SubjectURL:      req.SubjectURL,
		TaskCategory:    req.TaskCategory,
		Interactive:     req.Interactive,
		Timestamp:       start.UTC(),
		Accuracy:        float64(successes) / float64(len(records)),
		SuccessfulTasks: successes,
		TotalTasks:      len(records),
		Results:         records,
		DurationMs:      time.Since(start).Milliseconds(),
	}

	stats := &models.ReportStatistics{AggregateScore: statistics.Mean(scores)}
	if len(scores) >= 2 {
		ci := statistics.BootstrapCI(scores, 0.95)
		stats.CI95Lo = ci.Lower
		stats.CI95Hi = ci.Upper
	}
	report.Statistics = stats

	return report
}
