package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// QueryResult is the outcome of one ad hoc statement. Rows is populated for
// SELECT statements; AffectedRows for everything else. The non-SELECT branch
// is reachable only when the caller skipped the safety gate; the HTTP
// endpoints always gate first, so for them it is redundant defense.
type QueryResult struct {
	IsSelect     bool
	Columns      []string
	Rows         []map[string]any
	AffectedRows int64
}

// RunQuery executes one SQL string and collects the result.
func (db *DB) RunQuery(ctx context.Context, query string) (*QueryResult, error) {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		return db.runSelect(ctx, query)
	}

	res, err := db.ExecContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("RunQuery: exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("RunQuery: rows affected: %w", err)
	}
	return &QueryResult{AffectedRows: affected}, nil
}

func (db *DB) runSelect(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("RunQuery: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("RunQuery: columns: %w", err)
	}

	result := &QueryResult{IsSelect: true, Columns: cols, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("RunQuery: scanning: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			// the driver hands TEXT back as []byte; JSON responses want strings
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
