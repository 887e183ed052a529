package env

import (
	"context"

	"github.com/agentbeats/arenabench/internal/models"
)

// StaticConnector serves canned results keyed by exact query text. It fills
// the Connector seam in tests and offline runs, mirroring how a mock engine
// stands in for a live agent backend.
type StaticConnector struct {
	// Results maps query text to canned rows.
	Results map[string]*models.Rows
	// Failures maps query text to a failure reason.
	Failures map[string]string
}

// Execute returns the canned result for query. Unknown queries fail the way
// an invalid statement would.
func (c *StaticConnector) Execute(ctx context.Context, query string) (*models.Rows, error) {
	if reason, ok := c.Failures[query]; ok {
		return nil, &EnvError{Reason: reason}
	}
	if rows, ok := c.Results[query]; ok {
		return rows, nil
	}
	return nil, &EnvError{Reason: "query rejected by backend: unknown statement"}
}

// Close is a no-op.
func (c *StaticConnector) Close() error { return nil }

var _ Connector = (*StaticConnector)(nil)
