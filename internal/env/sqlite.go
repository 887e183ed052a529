package env

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/agentbeats/arenabench/internal/models"
)

// SQLiteConnector executes queries against a local SQLite sandbox database.
// Each session runner holds its own connector.
type SQLiteConnector struct {
	db *sql.DB
}

// OpenSQLite opens the sandbox database read-only at path.
func OpenSQLite(path string) (*SQLiteConnector, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sandbox database: %w", err)
	}
	return &SQLiteConnector{db: db}, nil
}

// Execute runs one query and stringifies the result set column-wise.
func (c *SQLiteConnector) Execute(ctx context.Context, query string) (*models.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &EnvError{Reason: "query rejected by backend", Detail: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &EnvError{Reason: "reading result columns", Detail: err}
	}

	result := &models.Rows{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(sql.NullString)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, &EnvError{Reason: "reading result row", Detail: err}
		}

		record := make([]string, len(cols))
		for i, v := range values {
			ns := v.(*sql.NullString)
			if ns.Valid {
				record[i] = ns.String
			}
		}
		result.Records = append(result.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &EnvError{Reason: "iterating result rows", Detail: err}
	}
	return result, nil
}

// Close closes the underlying database handle.
func (c *SQLiteConnector) Close() error {
	return c.db.Close()
}

var _ Connector = (*SQLiteConnector)(nil)
