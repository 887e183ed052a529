package session

import (
	"context"
	"errors"
	"sync"
)

// ErrEndOfConversation is the simulator's end signal: the simulated user is
// satisfied, and whatever answer the subject last gave gets evaluated.
var ErrEndOfConversation = errors.New("user simulation: end of conversation")

// Simulator produces the next synthetic user utterance in interactive mode.
// Production deployments plug in an LLM-backed simulator; tests use the
// scripted one.
type Simulator interface {
	NextUtterance(ctx context.Context, history []string, persona string) (string, error)
}

// ScriptedSimulator replays fixed utterances, then signals end of
// conversation.
type ScriptedSimulator struct {
	mu         sync.Mutex
	utterances []string
	next       int
}

// NewScriptedSimulator builds a simulator that emits utterances in order.
func NewScriptedSimulator(utterances ...string) *ScriptedSimulator {
	return &ScriptedSimulator{utterances: utterances}
}

// NextUtterance returns the next scripted utterance, or the end signal when
// the script is exhausted.
func (s *ScriptedSimulator) NextUtterance(ctx context.Context, history []string, persona string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.utterances) {
		return "", ErrEndOfConversation
	}
	utt := s.utterances[s.next]
	s.next++
	return utt, nil
}

var _ Simulator = (*ScriptedSimulator)(nil)
