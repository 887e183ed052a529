// Package env executes subject-issued queries against a transactional backend
// and normalizes the results into observations.
package env

import (
	"context"

	"github.com/agentbeats/arenabench/internal/models"
)

// Connector executes a structured query against the backend.
type Connector interface {
	// Execute runs one query and returns its rows. Backend failures are
	// returned as errors and normalized by the Adapter; they are never
	// fatal to a session.
	Execute(ctx context.Context, query string) (*models.Rows, error)

	// Close releases the backend handle.
	Close() error
}

// EnvError is a structured backend failure. Reason is safe to show to the
// subject; Detail holds the raw driver error for logs only.
type EnvError struct {
	Reason string
	Detail error
}

func (e *EnvError) Error() string {
	return "environment: " + e.Reason
}

func (e *EnvError) Unwrap() error {
	return e.Detail
}
