package sqlite

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/taiwanway/sales-tracker/internal/domain"
)

// InsertSalesLines appends sales lines with a plain INSERT. There is no
// natural key: re-running a fetch for an overlapping window duplicates every
// re-fetched line. That append-only asymmetry with UpsertTransactions is
// deliberate and covered by tests; see DESIGN.md before changing it.
func (db *DB) InsertSalesLines(ctx context.Context, lines []domain.SalesLine) error {
	if len(lines) == 0 {
		return nil
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO sales
		(transaction_id, store_id, date, time, product_name, product_category, quantity, unit_price, total_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("InsertSalesLines: prepare: %w", err)
	}
	defer stmt.Close()

	for i, l := range lines {
		_, err := stmt.ExecContext(ctx,
			l.TransactionID, l.StoreID, l.Date.String(), l.Time,
			l.ProductName, string(l.Category), l.Quantity, l.UnitPrice, l.TotalAmount)
		if err != nil {
			return fmt.Errorf("InsertSalesLines: line %d (%s): %w", i, l.TransactionID, err)
		}
	}
	return nil
}

// LoadSalesLines reads back every sales line, newest date first not
// guaranteed; ordering follows insertion order.
func (db *DB) LoadSalesLines(ctx context.Context) ([]domain.SalesLine, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT transaction_id, store_id, date, time, product_name, product_category, quantity, unit_price, total_amount
		FROM sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("LoadSalesLines: %w", err)
	}
	defer rows.Close()

	var lines []domain.SalesLine
	for rows.Next() {
		var (
			l       domain.SalesLine
			dateStr string
			cat     string
		)
		if err := rows.Scan(&l.TransactionID, &l.StoreID, &dateStr, &l.Time,
			&l.ProductName, &cat, &l.Quantity, &l.UnitPrice, &l.TotalAmount); err != nil {
			return nil, fmt.Errorf("LoadSalesLines: scanning: %w", err)
		}
		if dateStr != "" {
			d, err := civil.ParseDate(dateStr)
			if err != nil {
				return nil, fmt.Errorf("LoadSalesLines: bad date %q: %w", dateStr, err)
			}
			l.Date = d
		}
		l.Category = domain.Category(cat)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// CountSales returns the number of sales rows.
func (db *DB) CountSales(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountSales: %w", err)
	}
	return n, nil
}

// DistinctItems returns the sorted distinct values of the given item column
// in the sales table. The CSV-imported store names the column "Item"; the
// downloader's store names it "product_name".
func (db *DB) DistinctItems(ctx context.Context, column string) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT [%s] FROM sales WHERE [%s] IS NOT NULL ORDER BY [%s]`, column, column, column)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("DistinctItems(%s): %w", column, err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("DistinctItems(%s): scanning: %w", column, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
