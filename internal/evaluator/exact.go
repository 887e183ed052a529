package evaluator

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/agentbeats/arenabench/internal/models"
)

// Extractor pulls the structured values relevant to a task out of free-form
// answer text. Production deployments may plug in an LLM-backed extractor;
// the default is regex-driven.
type Extractor interface {
	Extract(ctx context.Context, answerText string, kind models.ValueKind) ([]string, error)
}

// exactEvaluator scores by sorted sequence equality of extracted values
// against the gold values. Sorting (rather than set difference) keeps
// duplicate-count mismatches penalized.
type exactEvaluator struct {
	extractor     Extractor
	caseSensitive bool
}

func newExactEvaluator(ex Extractor, caseSensitive bool) *exactEvaluator {
	return &exactEvaluator{extractor: ex, caseSensitive: caseSensitive}
}

func (e *exactEvaluator) Strategy() models.Strategy {
	return models.StrategyExact
}

func (e *exactEvaluator) Score(ctx context.Context, task *models.Task, answer string) (*models.EvaluationResult, error) {
	extracted, err := e.extractor.Extract(ctx, answer, task.ValueKind)
	if err != nil {
		return nil, fmt.Errorf("extracting %s values: %w", task.ValueKind, err)
	}

	got := e.normalize(extracted)
	want := e.normalize(task.Gold.Values)
	slices.Sort(got)
	slices.Sort(want)

	if slices.Equal(got, want) {
		return &models.EvaluationResult{
			Score:     1.0,
			Values:    got,
			Rationale: fmt.Sprintf("extracted values %v match gold answer", got),
		}, nil
	}
	return &models.EvaluationResult{
		Score:     0.0,
		Values:    got,
		Rationale: fmt.Sprintf("extracted %v, expected %v", got, want),
	}, nil
}

func (e *exactEvaluator) normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !e.caseSensitive {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}

var (
	idRe     = regexp.MustCompile(`\b[a-zA-Z0-9]{15,18}\b`)
	dateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	digitRe  = regexp.MustCompile(`\d`)
	letterRe = regexp.MustCompile(`[a-zA-Z]`)
)

// RegexExtractor is the built-in extraction heuristic, keyed by value kind.
type RegexExtractor struct{}

// NewRegexExtractor returns the default extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract pulls candidate values from the answer text. Record identifiers
// must mix letters and digits so long plain words don't false-positive; the
// text kind treats the whole trimmed answer as a single value.
func (RegexExtractor) Extract(ctx context.Context, answerText string, kind models.ValueKind) ([]string, error) {
	switch kind {
	case models.ValueKindID:
		var ids []string
		for _, m := range idRe.FindAllString(answerText, -1) {
			if digitRe.MatchString(m) && letterRe.MatchString(m) {
				ids = append(ids, m)
			}
		}
		return ids, nil
	case models.ValueKindDate:
		return dateRe.FindAllString(answerText, -1), nil
	case models.ValueKindNumber:
		return numberRe.FindAllString(answerText, -1), nil
	default:
		trimmed := strings.TrimSpace(answerText)
		if trimmed == "" {
			return nil, nil
		}
		return []string{trimmed}, nil
	}
}

var (
	_ Evaluator = (*exactEvaluator)(nil)
	_ Extractor = (*RegexExtractor)(nil)
)
