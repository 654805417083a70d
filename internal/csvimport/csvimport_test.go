package csvimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
)

const sampleHeader = "Date,Item,Qty,Gross Sales\n"

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openSalesDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "sales_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInferSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "a.csv", sampleHeader)

	schema, err := InferSchema(path)
	require.NoError(t, err)
	require.Equal(t, []sqlite.Column{
		{Name: "Date", Type: "TEXT"},
		{Name: "Item", Type: "TEXT"},
		{Name: "Qty", Type: "REAL"},
		{Name: "Gross Sales", Type: "REAL"},
	}, schema.Columns)
}

func TestImportFolder(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", sampleHeader+
		"2024-04-01,牛肉麵,1,$100.00\n"+
		"2024-04-01,珍珠奶茶,2,$9.00\n")
	db := openSalesDB(t)

	result, err := ImportFolder(context.Background(), db, dir)
	require.NoError(t, err)
	require.Equal(t, 2, result.Inserted())

	res, err := db.RunQuery(context.Background(), `SELECT Item, [Gross Sales] FROM sales ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "牛肉麵", res.Rows[0]["Item"])
	require.Equal(t, 100.0, res.Rows[0]["Gross Sales"], "currency strings must be cleansed to REAL")
}

// Dedup happens inside one file only: two files with identical rows both
// land in full.
func TestImportFolder_NoCrossFileDedup(t *testing.T) {
	dir := t.TempDir()
	rows := "2024-04-01,牛肉麵,1,$100.00\n" +
		"2024-04-01,牛肉麵,1,$100.00\n" + // in-file duplicate
		"2024-04-01,珍珠奶茶,2,$9.00\n"
	writeCSV(t, dir, "a.csv", sampleHeader+rows)
	writeCSV(t, dir, "b.csv", sampleHeader+rows)
	db := openSalesDB(t)

	result, err := ImportFolder(context.Background(), db, dir)
	require.NoError(t, err)

	// each file: 3 rows read, 1 duplicate dropped, 2 inserted
	require.Len(t, result.Files, 2)
	for _, fr := range result.Files {
		require.Equal(t, 3, fr.RowsRead)
		require.Equal(t, 1, fr.Duplicates)
		require.Equal(t, 2, fr.Inserted)
	}
	require.Equal(t, 4, result.Inserted())

	n, err := db.CountSales(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestImportFolder_RejectsMismatchedHeader(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", sampleHeader+"2024-04-01,牛肉麵,1,$100.00\n")
	writeCSV(t, dir, "b.csv", "Date,Item\n2024-04-02,蛋糕\n")
	db := openSalesDB(t)

	result, err := ImportFolder(context.Background(), db, dir)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	require.Empty(t, result.Files[0].SkipReason)
	require.NotEmpty(t, result.Files[1].SkipReason, "mismatched header must be rejected, not partially imported")
	require.Equal(t, 1, result.Inserted())
}

func TestImportFolder_CleansesDatesAndCountsCoercions(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", sampleHeader+
		"NaT,牛肉麵,1,$100.00\n"+
		"2024/04/02,蛋糕,1,not-money\n")
	db := openSalesDB(t)

	result, err := ImportFolder(context.Background(), db, dir)
	require.NoError(t, err)
	require.Equal(t, 1, result.Cleanse.CoercedCurrency, "bad money must coerce to 0 and count")

	res, err := db.RunQuery(context.Background(), `SELECT Date, [Gross Sales] FROM sales ORDER BY id`)
	require.NoError(t, err)
	require.Nil(t, res.Rows[0]["Date"], "null marker must store NULL")
	require.Equal(t, "2024-04-02", res.Rows[1]["Date"])
	require.Equal(t, 0.0, res.Rows[1]["Gross Sales"])
}

func TestImportFolder_EmptyFolder(t *testing.T) {
	db := openSalesDB(t)
	_, err := ImportFolder(context.Background(), db, t.TempDir())
	require.Error(t, err)
}
