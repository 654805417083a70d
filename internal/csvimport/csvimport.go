// Package csvimport loads exported sales CSV files from a folder into the
// sales_data database. The table schema is inferred once, from the first
// file's header; later files must present the same header or they are
// rejected (recorded per file, never aborting the whole run). Rows are
// deduplicated within each file only — re-importing a file duplicates its
// rows, the same way overlapping fetches duplicate sales lines.
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/taiwanway/sales-tracker/internal/cleanse"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
)

// realColumnKeywords mark columns stored as REAL; everything else is TEXT.
var realColumnKeywords = []string{"price", "sales", "tax", "amount", "qty"}

// currencyColumns get the currency cleanser applied on import.
var currencyColumns = map[string]bool{
	"Gross Sales": true,
	"Net Sales":   true,
	"Tax":         true,
	"Discounts":   true,
}

// Schema is the column set inferred from the sample file. It is fixed at
// table-creation time.
type Schema struct {
	Columns []sqlite.Column
}

// header returns the expected CSV header.
func (s Schema) header() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// InferSchema derives the schema from one CSV file's header row.
func InferSchema(path string) (Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schema{}, fmt.Errorf("InferSchema: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return Schema{}, fmt.Errorf("InferSchema: reading header of %s: %w", path, err)
	}

	cols := make([]sqlite.Column, 0, len(header))
	for _, name := range header {
		cols = append(cols, sqlite.Column{Name: name, Type: columnType(name)})
	}
	return Schema{Columns: cols}, nil
}

func columnType(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range realColumnKeywords {
		if strings.Contains(lower, kw) {
			return "REAL"
		}
	}
	return "TEXT"
}

// FileResult records the outcome for one file.
type FileResult struct {
	File       string
	RowsRead   int
	Duplicates int // rows dropped by within-file dedup
	Inserted   int
	SkipReason string // non-empty when the file was rejected
}

// Result summarizes one folder import.
type Result struct {
	Schema  Schema
	Files   []FileResult
	Cleanse cleanse.Stats
}

// Inserted returns the total inserted row count.
func (r *Result) Inserted() int {
	n := 0
	for _, f := range r.Files {
		n += f.Inserted
	}
	return n
}

// ImportFolder imports every *.csv file in folder into db's sales table,
// in lexical filename order. The first file fixes the schema.
func ImportFolder(ctx context.Context, db *sqlite.DB, folder string) (*Result, error) {
	log := logger.FromContext(ctx)

	files, err := filepath.Glob(filepath.Join(folder, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("ImportFolder: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("ImportFolder: no CSV files in %s", folder)
	}
	sort.Strings(files)

	schema, err := InferSchema(files[0])
	if err != nil {
		return nil, err
	}
	if err := db.CreateSalesTable(ctx, schema.Columns); err != nil {
		return nil, fmt.Errorf("ImportFolder: %w", err)
	}

	result := &Result{Schema: schema}
	for _, file := range files {
		fr := importFile(ctx, db, schema, file, &result.Cleanse)
		if fr.SkipReason != "" {
			log.Warn().Str("file", file).Str("reason", fr.SkipReason).Msg("Skipping CSV file")
		} else {
			log.Info().Str("file", file).Int("rows", fr.Inserted).Int("duplicates", fr.Duplicates).Msg("Imported CSV file")
		}
		result.Files = append(result.Files, fr)
	}
	return result, nil
}

func importFile(ctx context.Context, db *sqlite.DB, schema Schema, path string, stats *cleanse.Stats) FileResult {
	fr := FileResult{File: path}

	f, err := os.Open(path)
	if err != nil {
		fr.SkipReason = err.Error()
		return fr
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		fr.SkipReason = fmt.Sprintf("reading header: %v", err)
		return fr
	}
	if !sameHeader(header, schema.header()) {
		fr.SkipReason = fmt.Sprintf("header does not match the inferred schema (%d columns, want %d)", len(header), len(schema.Columns))
		return fr
	}

	records, err := reader.ReadAll()
	if err != nil {
		fr.SkipReason = fmt.Sprintf("reading rows: %v", err)
		return fr
	}
	fr.RowsRead = len(records)

	// within-file dedup on the raw row, before cleansing
	seen := make(map[string]bool, len(records))
	var rows [][]any
	for _, rec := range records {
		key := strings.Join(rec, "\x1f")
		if seen[key] {
			fr.Duplicates++
			continue
		}
		seen[key] = true
		rows = append(rows, cleanseRow(schema, rec, stats))
	}

	if err := db.AppendSalesRows(ctx, schema.Columns, rows); err != nil {
		fr.SkipReason = fmt.Sprintf("inserting rows: %v", err)
		return fr
	}
	fr.Inserted = len(rows)
	return fr
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// cleanseRow applies the currency and date normalizers to their columns;
// everything else passes through as text and relies on the column's type
// affinity.
func cleanseRow(schema Schema, rec []string, stats *cleanse.Stats) []any {
	row := make([]any, len(rec))
	for i, val := range rec {
		name := schema.Columns[i].Name
		switch {
		case currencyColumns[name]:
			row[i] = stats.Currency(val)
		case strings.Contains(strings.ToLower(name), "date"):
			if d, ok := stats.Date(val); ok {
				row[i] = d
			} else {
				row[i] = nil
			}
		default:
			row[i] = val
		}
	}
	return row
}
