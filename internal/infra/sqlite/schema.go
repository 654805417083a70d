package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// transactionsDDL matches the original store layout: transactions are keyed
// by the payment ID, sales rows have no natural key and rely on the
// autoincrement rowid.
const transactionsDDL = `
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    amount INTEGER,
    currency TEXT,
    created_at TEXT,
    status TEXT,
    order_id TEXT,
    receipt_number TEXT,
    source_type TEXT
);
CREATE TABLE IF NOT EXISTS sales (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_id TEXT,
    store_id TEXT,
    date TEXT,
    time TEXT,
    product_name TEXT,
    product_category TEXT,
    quantity REAL,
    unit_price REAL,
    total_amount REAL
);
`

// SchemaText renders the database schema as text for the NL->SQL prompt:
// each table's CREATE statement followed by its foreign-key list.
func (db *DB) SchemaText(ctx context.Context) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, sql FROM sqlite_master WHERE type = 'table' AND sql IS NOT NULL ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("SchemaText: reading sqlite_master: %w", err)
	}
	defer rows.Close()

	type table struct{ name, ddl string }
	var tables []table
	for rows.Next() {
		var t table
		if err := rows.Scan(&t.name, &t.ddl); err != nil {
			return "", fmt.Errorf("SchemaText: scanning sqlite_master: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("SchemaText: %w", err)
	}

	var b strings.Builder
	for _, t := range tables {
		b.WriteString(t.ddl)
		b.WriteString(";\n")

		fks, err := db.foreignKeys(ctx, t.name)
		if err != nil {
			return "", err
		}
		for _, fk := range fks {
			fmt.Fprintf(&b, "-- FOREIGN KEY: %s.%s -> %s.%s\n", t.name, fk.from, fk.table, fk.to)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

type foreignKey struct {
	table string // referenced table
	from  string // local column
	to    string // referenced column
}

func (db *DB) foreignKeys(ctx context.Context, table string) ([]foreignKey, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("foreignKeys(%s): %w", table, err)
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var (
			id, seq                       int
			refTable, from                string
			to                            sql.NullString // NULL when referencing an implicit rowid key
			onUpdate, onDelete, matchKind string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &matchKind); err != nil {
			return nil, fmt.Errorf("foreignKeys(%s): scanning: %w", table, err)
		}
		fks = append(fks, foreignKey{table: refTable, from: from, to: to.String})
	}
	return fks, rows.Err()
}
