package channel

import (
	"context"
	"errors"
	"sync"
)

// ScriptedChannel replays a fixed sequence of subject replies. It records
// every outbound message so tests can assert on what the subject was told.
type ScriptedChannel struct {
	mu      sync.Mutex
	replies []string
	next    int

	// Sent collects every outbound (sessionID, text) pair in order.
	Sent []SentMessage

	// FailAfter, when >= 0, makes every Send past that index fail with a
	// ChannelError, simulating an unreachable subject mid-session.
	FailAfter int
}

// SentMessage is one recorded outbound message.
type SentMessage struct {
	SessionID string
	Text      string
}

// NewScriptedChannel builds a channel that answers with replies in order.
func NewScriptedChannel(replies ...string) *ScriptedChannel {
	return &ScriptedChannel{replies: replies, FailAfter: -1}
}

// Send records the outbound message and returns the next scripted reply.
// Running past the script simulates a silent subject.
func (c *ScriptedChannel) Send(ctx context.Context, sessionID, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sent = append(c.Sent, SentMessage{SessionID: sessionID, Text: text})

	if c.FailAfter >= 0 && len(c.Sent) > c.FailAfter {
		return "", &ChannelError{Op: "send", Detail: errors.New("scripted failure")}
	}
	if c.next >= len(c.replies) {
		return "", &ChannelError{Op: "send", Detail: errors.New("subject did not reply")}
	}

	reply := c.replies[c.next]
	c.next++
	return reply, nil
}

var _ Channel = (*ScriptedChannel)(nil)
