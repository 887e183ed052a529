// Package evaluator scores completed trajectories against a task's gold
// answer. Three strategies exist and are exclusive per task: structured
// exact-match, fuzzy text similarity, and privacy-refusal detection.
package evaluator

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/agentbeats/arenabench/internal/models"
)

// Evaluator scores a final answer against a task's gold answer. Evaluators
// are pure with respect to the environment: they never issue backend queries.
type Evaluator interface {
	// Strategy returns the strategy this evaluator implements.
	Strategy() models.Strategy

	// Score compares the final answer against the task's gold answer.
	Score(ctx context.Context, task *models.Task, answer string) (*models.EvaluationResult, error)
}

// Options injects the external collaborators. Nil fields fall back to the
// built-in heuristic implementations.
type Options struct {
	// Extractor pulls structured values out of answer text (may be
	// LLM-backed in production).
	Extractor Extractor
	// Classifier detects refusals (may be LLM-backed in production).
	Classifier Classifier
}

// Create builds an evaluator for the given strategy, decoding any
// strategy-specific parameters.
func Create(strategy models.Strategy, params map[string]any, opts Options) (Evaluator, error) {
	switch strategy {
	case models.StrategyExact:
		var v struct {
			CaseSensitive bool `mapstructure:"case_sensitive"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		ex := opts.Extractor
		if ex == nil {
			ex = NewRegexExtractor()
		}
		return newExactEvaluator(ex, v.CaseSensitive), nil
	case models.StrategyFuzzy:
		return newFuzzyEvaluator(), nil
	case models.StrategyRefusal:
		var v struct {
			Phrases       []string `mapstructure:"phrases"`
			CaseSensitive bool     `mapstructure:"case_sensitive"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		cl := opts.Classifier
		if cl == nil {
			cl = NewHeuristicClassifier(v.Phrases...)
		}
		ex := opts.Extractor
		if ex == nil {
			ex = NewRegexExtractor()
		}
		return newRefusalEvaluator(cl, newExactEvaluator(ex, v.CaseSensitive)), nil
	default:
		return nil, fmt.Errorf("%q is not a valid evaluation strategy", strategy)
	}
}

// Evaluate is the single entry point a session's terminal state flows
// through. Trajectories that never reached a final answer score 0.0 with the
// termination reason as rationale, and evaluator failures score 0.0 rather
// than being skipped.
func Evaluate(ctx context.Context, ev Evaluator, task *models.Task, traj *models.Trajectory) models.EvaluationResult {
	if !traj.Status.Scored() {
		rationale := fmt.Sprintf("not scored: session terminated with %s", traj.Status)
		if traj.Detail != "" {
			rationale += " (" + traj.Detail + ")"
		}
		return models.EvaluationResult{Score: 0.0, Rationale: rationale}
	}

	result, err := ev.Score(ctx, task, traj.FinalAnswer)
	if err != nil {
		return models.EvaluationResult{Score: 0.0, Rationale: "evaluation failed: " + err.Error()}
	}
	return *result
}
