package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// Column is one declared column of an inferred CSV table.
type Column struct {
	Name string
	Type string // "TEXT" or "REAL"
}

// CreateSalesTable creates the CSV-backed sales table from an inferred column
// set, with an autoincrement id in front. The column set is fixed here; later
// files must conform to it.
func (db *DB) CreateSalesTable(ctx context.Context, cols []Column) error {
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("[%s] %s", c.Name, c.Type))
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS sales (id INTEGER PRIMARY KEY AUTOINCREMENT, %s)",
		strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("CreateSalesTable: %w", err)
	}
	return nil
}

// AppendSalesRows inserts CSV rows into the sales table. Values arrive
// already cleansed; rows are appended as-is with no cross-file deduplication.
func (db *DB) AppendSalesRows(ctx context.Context, cols []Column, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	names := make([]string, 0, len(cols))
	marks := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, fmt.Sprintf("[%s]", c.Name))
		marks = append(marks, "?")
	}
	q := fmt.Sprintf("INSERT INTO sales (%s) VALUES (%s)",
		strings.Join(names, ", "), strings.Join(marks, ", "))

	stmt, err := db.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("AppendSalesRows: prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(cols) {
			return fmt.Errorf("AppendSalesRows: row %d has %d values, table has %d columns", i, len(row), len(cols))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("AppendSalesRows: row %d: %w", i, err)
		}
	}
	return nil
}
