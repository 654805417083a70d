package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taiwanway/sales-tracker/internal/domain"
)

// UpsertTransactions writes payments into the transactions table with
// INSERT OR REPLACE keyed by the payment ID. Re-running an overlapping window
// is idempotent here: a re-fetched payment overwrites its previous row.
func (db *DB) UpsertTransactions(ctx context.Context, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT OR REPLACE INTO transactions
		(id, amount, currency, created_at, status, order_id, receipt_number, source_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("UpsertTransactions: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Amount, t.Currency, t.CreatedAt.Format(time.RFC3339),
			t.Status, t.OrderID, t.ReceiptNumber, t.SourceType)
		if err != nil {
			return fmt.Errorf("UpsertTransactions: inserting %s: %w", t.ID, err)
		}
	}
	return nil
}

// LatestCreatedAt returns the newest stored transaction timestamp, or ok =
// false when the table is empty. The incremental backfill mode starts one
// second after this value.
func (db *DB) LatestCreatedAt(ctx context.Context) (time.Time, bool, error) {
	var raw sql.NullString
	err := db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM transactions`).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("LatestCreatedAt: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("LatestCreatedAt: parsing %q: %w", raw.String, err)
	}
	return t, true, nil
}

// CountTransactions returns the number of stored transactions.
func (db *DB) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountTransactions: %w", err)
	}
	return n, nil
}
