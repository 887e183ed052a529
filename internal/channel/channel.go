// Package channel is the point-to-point request/response transport between
// the orchestrator and the subject agent.
package channel

import "context"

// Channel sends one text payload to the subject and blocks for its reply.
// sessionID tags all turns of one task's conversation.
type Channel interface {
	Send(ctx context.Context, sessionID, text string) (string, error)
}

// ChannelError reports that the subject was unreachable or did not reply
// within the per-turn timeout. It is fatal to the session but not the batch.
type ChannelError struct {
	Op     string
	Detail error
}

func (e *ChannelError) Error() string {
	return "channel: " + e.Op + ": " + e.Detail.Error()
}

func (e *ChannelError) Unwrap() error {
	return e.Detail
}
