package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/taiwanway/sales-tracker/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenTransactions(filepath.Join(t.TempDir(), "transactions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testTxn(id, status string, created time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		Amount:    10000,
		Currency:  "USD",
		CreatedAt: created,
		Status:    status,
		OrderID:   "o-" + id,
	}
}

func TestUpsertTransactions_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.UpsertTransactions(ctx, []*domain.Transaction{testTxn("p1", "APPROVED", created)}))
	// re-fetch with a changed status must leave exactly one row, updated
	require.NoError(t, db.UpsertTransactions(ctx, []*domain.Transaction{testTxn("p1", "COMPLETED", created)}))

	n, err := db.CountTransactions(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM transactions WHERE id = 'p1'`).Scan(&status))
	require.Equal(t, "COMPLETED", status)
}

func TestInsertSalesLines_DuplicatesOnRerun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	lines := []domain.SalesLine{{
		TransactionID: "p1",
		StoreID:       "L1",
		Date:          civil.Date{Year: 2024, Month: 4, Day: 1},
		Time:          "12:00:00",
		ProductName:   "牛肉麵",
		Category:      domain.CategoryStaple,
		Quantity:      1,
		UnitPrice:     100,
		TotalAmount:   100,
	}}

	require.NoError(t, db.InsertSalesLines(ctx, lines))
	// sales rows have no natural key: a second run of the same window appends
	require.NoError(t, db.InsertSalesLines(ctx, lines))

	n, err := db.CountSales(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestLoadSalesLines_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := domain.SalesLine{
		TransactionID: "p1",
		StoreID:       "L1",
		Date:          civil.Date{Year: 2024, Month: 4, Day: 1},
		Time:          "09:30:00",
		ProductName:   "珍珠奶茶",
		Category:      domain.CategoryBeverage,
		Quantity:      2,
		UnitPrice:     4.5,
		TotalAmount:   9,
	}
	require.NoError(t, db.InsertSalesLines(ctx, []domain.SalesLine{in}))

	out, err := db.LoadSalesLines(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, in, out[0])
}

func TestLatestCreatedAt(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, ok, err := db.LatestCreatedAt(ctx)
	require.NoError(t, err)
	require.False(t, ok, "empty table must report no timestamp")

	early := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, db.UpsertTransactions(ctx, []*domain.Transaction{
		testTxn("p1", "COMPLETED", early),
		testTxn("p2", "COMPLETED", late),
	}))

	got, ok, err := db.LatestCreatedAt(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(late), "got %v, want %v", got, late)
}

func TestRunQuery_Select(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertSalesLines(ctx, []domain.SalesLine{{
		TransactionID: "p1", StoreID: "L1",
		Date: civil.Date{Year: 2024, Month: 4, Day: 1}, Time: "12:00:00",
		ProductName: "牛肉麵", Category: domain.CategoryStaple,
		Quantity: 1, UnitPrice: 100, TotalAmount: 100,
	}}))

	res, err := db.RunQuery(ctx, "SELECT product_name, total_amount FROM sales")
	require.NoError(t, err)
	require.True(t, res.IsSelect)
	require.Equal(t, []string{"product_name", "total_amount"}, res.Columns)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "牛肉麵", res.Rows[0]["product_name"])
	require.Equal(t, 100.0, res.Rows[0]["total_amount"])
}

func TestRunQuery_NonSelectReportsAffectedRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.RunQuery(ctx, `INSERT INTO transactions (id, amount) VALUES ('x', 1)`)
	require.NoError(t, err)
	require.False(t, res.IsSelect)
	require.Equal(t, int64(1), res.AffectedRows)
}

func TestSchemaText(t *testing.T) {
	db := openTestDB(t)

	text, err := db.SchemaText(context.Background())
	require.NoError(t, err)
	require.Contains(t, text, "CREATE TABLE")
	require.Contains(t, text, "transactions")
	require.Contains(t, text, "sales")
}

func TestDistinctItems(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"牛肉麵", "珍珠奶茶", "牛肉麵"} {
		require.NoError(t, db.InsertSalesLines(ctx, []domain.SalesLine{{
			TransactionID: "p", ProductName: name,
			Date: civil.Date{Year: 2024, Month: 4, Day: 1},
		}}))
	}

	items, err := db.DistinctItems(ctx, "product_name")
	require.NoError(t, err)
	require.Equal(t, []string{"牛肉麵", "珍珠奶茶"}, items)
}

func TestCSVTable(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "sales_data.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	cols := []Column{{"Date", "TEXT"}, {"Item", "TEXT"}, {"Gross Sales", "REAL"}}
	require.NoError(t, db.CreateSalesTable(ctx, cols))

	rows := [][]any{
		{"2024-04-01", "牛肉麵", 100.0},
		{"2024-04-01", "珍珠奶茶", 4.5},
	}
	require.NoError(t, db.AppendSalesRows(ctx, cols, rows))

	n, err := db.CountSales(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	items, err := db.DistinctItems(ctx, "Item")
	require.NoError(t, err)
	require.Len(t, items, 2)
}
