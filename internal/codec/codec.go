// Package codec translates between subject-agent text and typed actions and
// observations. Decoding tolerates prose around the action JSON and repairs
// near-miss JSON, but refuses ambiguous replies outright.
package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kaptinlin/jsonrepair"

	"github.com/agentbeats/arenabench/internal/models"
)

// MaxRenderedRows caps how many result rows are rendered back to the subject.
// Truncation is always signaled, never silent.
const MaxRenderedRows = 30

// DecodeError reports a malformed or ambiguous subject reply. Sessions
// recover from one of these via a single corrective re-prompt.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode action: " + e.Reason
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Decode parses one subject reply into an Action. The reply must contain
// exactly one JSON object with an `action` discriminator; a single fenced
// code block wins over surrounding prose, and more than one candidate object
// is an ambiguity failure.
func Decode(text string) (models.Action, error) {
	candidates := extractCandidates(text)
	switch len(candidates) {
	case 0:
		return nil, &DecodeError{Reason: "no JSON object found in reply"}
	case 1:
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("ambiguous reply: %d candidate JSON objects", len(candidates))}
	}

	var payload struct {
		Action string `json:"action"`
		Query  string `json:"query"`
		Answer string `json:"answer"`
	}

	raw := candidates[0]
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, &DecodeError{Reason: "malformed JSON: " + err.Error()}
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, &DecodeError{Reason: "malformed JSON after repair: " + err.Error()}
		}
	}

	switch payload.Action {
	case "execute":
		if strings.TrimSpace(payload.Query) == "" {
			return nil, &DecodeError{Reason: "execute action requires a non-empty query"}
		}
		return models.ExecuteAction{Query: payload.Query}, nil
	case "respond":
		if strings.TrimSpace(payload.Answer) == "" {
			return nil, &DecodeError{Reason: "respond action requires a non-empty answer"}
		}
		return models.RespondAction{Answer: payload.Answer}, nil
	case "":
		return nil, &DecodeError{Reason: "missing action discriminator"}
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown action %q", payload.Action)}
	}
}

// extractCandidates returns the candidate JSON object strings in text.
// Fenced ```json blocks are preferred; otherwise top-level balanced objects
// are scanned out of the raw text.
func extractCandidates(text string) []string {
	matches := fencedBlockRe.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		candidates := make([]string, 0, len(matches))
		for _, m := range matches {
			candidates = append(candidates, m[1])
		}
		return candidates
	}
	return scanObjects(text)
}

// scanObjects finds top-level balanced {...} spans, honoring JSON string
// literals and escapes so braces inside values don't split objects.
func scanObjects(text string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidates = append(candidates, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return candidates
}

// EncodeObservation renders an observation as the text the subject sees on
// its next turn.
func EncodeObservation(obs models.Observation) string {
	switch {
	case obs.Utterance != "":
		return "User: " + obs.Utterance
	case obs.ErrorMsg != "":
		return "query failed: " + obs.ErrorMsg
	default:
		return renderRows(obs.Rows)
	}
}

func renderRows(rows *models.Rows) string {
	if rows.Len() == 0 {
		return "Query returned no rows."
	}

	tw := table.NewWriter()
	header := make(table.Row, 0, len(rows.Columns))
	for _, c := range rows.Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	rendered := rows.Records
	truncated := 0
	if len(rendered) > MaxRenderedRows {
		truncated = len(rendered) - MaxRenderedRows
		rendered = rendered[:MaxRenderedRows]
	}
	for _, rec := range rendered {
		row := make(table.Row, 0, len(rec))
		for _, v := range rec {
			row = append(row, v)
		}
		tw.AppendRow(row)
	}

	out := fmt.Sprintf("Query returned %d row(s):\n%s", rows.Len(), tw.Render())
	if truncated > 0 {
		out += fmt.Sprintf("\n(+%d more row(s) truncated)", truncated)
	}
	return out
}
