package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agentbeats/arenabench/internal/models"
)

// fuzzyEvaluator scores free-text answers by normalized edit-distance
// similarity against the gold text. The raw similarity is the score; there
// is no pass threshold baked in.
type fuzzyEvaluator struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func newFuzzyEvaluator() *fuzzyEvaluator {
	return &fuzzyEvaluator{dmp: diffmatchpatch.New()}
}

func (e *fuzzyEvaluator) Strategy() models.Strategy {
	return models.StrategyFuzzy
}

func (e *fuzzyEvaluator) Score(ctx context.Context, task *models.Task, answer string) (*models.EvaluationResult, error) {
	gold := strings.Join(task.Gold.Values, " ")
	score := e.similarity(answer, gold)
	return &models.EvaluationResult{
		Score:     score,
		Rationale: fmt.Sprintf("text similarity %.3f against gold answer", score),
	}, nil
}

// similarity is 1 - levenshtein/maxlen over whitespace-collapsed, lowercased
// text, clipped to [0,1].
func (e *fuzzyEvaluator) similarity(a, b string) float64 {
	a = normalizeText(a)
	b = normalizeText(b)
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	diffs := e.dmp.DiffMain(a, b, false)
	distance := e.dmp.DiffLevenshtein(diffs)

	score := 1.0 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var _ Evaluator = (*fuzzyEvaluator)(nil)
