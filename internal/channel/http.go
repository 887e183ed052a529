package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTurnTimeout bounds how long one turn waits for the subject's reply.
const DefaultTurnTimeout = 60 * time.Second

// HTTPChannel talks to a subject agent over its /message endpoint. The wire
// shape is a JSON object with the outbound text under "message" and the
// session identifier under "context_id"; the reply carries its text under
// "message" as well.
type HTTPChannel struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPChannel.
type HTTPOption func(*HTTPChannel)

// WithTurnTimeout overrides the per-turn reply timeout.
func WithTurnTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPChannel) {
		c.timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPChannel) {
		c.client = client
	}
}

// NewHTTPChannel creates a channel addressed at the subject's base URL.
func NewHTTPChannel(subjectURL string, opts ...HTTPOption) *HTTPChannel {
	c := &HTTPChannel{
		baseURL: strings.TrimRight(subjectURL, "/"),
		client:  &http.Client{},
		timeout: DefaultTurnTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type messageEnvelope struct {
	Message   string `json:"message"`
	ContextID string `json:"context_id,omitempty"`
}

// Send posts one message and blocks for the subject's reply, bounded by the
// per-turn timeout. Any transport failure, non-200 status, or timeout is a
// ChannelError.
func (c *HTTPChannel) Send(ctx context.Context, sessionID, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(messageEnvelope{Message: text, ContextID: sessionID})
	if err != nil {
		return "", &ChannelError{Op: "encode request", Detail: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return "", &ChannelError{Op: "build request", Detail: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ChannelError{Op: "send", Detail: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ChannelError{Op: "send", Detail: fmt.Errorf("subject returned status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ChannelError{Op: "read reply", Detail: err}
	}

	var reply messageEnvelope
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", &ChannelError{Op: "decode reply", Detail: err}
	}
	return reply.Message, nil
}

var _ Channel = (*HTTPChannel)(nil)
