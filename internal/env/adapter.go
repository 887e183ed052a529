package env

import (
	"context"
	"errors"
	"strings"

	"github.com/agentbeats/arenabench/internal/models"
)

// maxErrorLen bounds the sanitized failure message surfaced to the subject.
const maxErrorLen = 200

// Adapter routes Execute actions to a Connector and normalizes failures into
// observation form, so backend errors reach the subject as retryable
// observations rather than killing the session.
type Adapter struct {
	conn Connector
}

// NewAdapter wraps a connector.
func NewAdapter(conn Connector) *Adapter {
	return &Adapter{conn: conn}
}

// Observe executes the query and always returns an observation: rows on
// success, a sanitized error descriptor otherwise.
func (a *Adapter) Observe(ctx context.Context, query string) models.Observation {
	rows, err := a.conn.Execute(ctx, query)
	if err != nil {
		return models.Observation{ErrorMsg: sanitizeError(err)}
	}
	return models.Observation{Rows: rows}
}

// sanitizeError reduces a backend error to a single bounded line. The raw
// driver detail never reaches the subject.
func sanitizeError(err error) string {
	var envErr *EnvError
	msg := err.Error()
	if errors.As(err, &envErr) {
		msg = envErr.Reason
		if envErr.Detail != nil {
			msg += ": " + envErr.Detail.Error()
		}
	}

	if idx := strings.IndexAny(msg, "\r\n"); idx >= 0 {
		msg = msg[:idx]
	}
	msg = strings.Join(strings.Fields(msg), " ")
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen] + "..."
	}
	return msg
}
