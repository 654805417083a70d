package sqlguard

import (
	"strings"
	"testing"
)

func TestValidate_AllowsSelects(t *testing.T) {
	v := New("sales")

	valid := []string{
		"SELECT * FROM sales",
		"select * from SALES",
		"SELECT product_name, SUM(total_amount) FROM sales GROUP BY product_name",
		"SELECT date, COUNT(DISTINCT transaction_id) AS txns FROM sales GROUP BY date ORDER BY date",
		"SELECT * FROM sales WHERE product_category = '飲品' LIMIT 10",
		"SELECT * FROM sales s WHERE s.quantity > 1",
	}

	for _, sql := range valid {
		if err := v.Validate(sql); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", sql, err)
		}
	}
}

func TestValidate_RejectsNonSelect(t *testing.T) {
	v := New("sales")

	tests := []struct {
		sql     string
		wantMsg string
	}{
		{"", "invalid SQL"},
		{"   ", "invalid SQL"},
		{"DELETE FROM sales", "only SELECT"},
		{"UPDATE sales SET quantity = 0", "only SELECT"},
		{"PRAGMA table_info(sales)", "only SELECT"},
		{"WITH t AS (SELECT 1) SELECT * FROM t", "only SELECT"},
	}

	for _, tt := range tests {
		err := v.Validate(tt.sql)
		if err == nil {
			t.Errorf("Validate(%q) = nil, want error", tt.sql)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("Validate(%q) = %q, want message containing %q", tt.sql, err, tt.wantMsg)
		}
	}
}

func TestValidate_RejectsMutatingKeywords(t *testing.T) {
	v := New("sales")

	tests := []struct {
		sql     string
		keyword string
	}{
		{"SELECT * FROM sales; DROP TABLE sales;", "DROP"},
		{"SELECT * FROM sales;DROP TABLE sales", "DROP"},
		{"SELECT * FROM sales WHERE id IN (SELECT id FROM sales); DELETE FROM sales", "DELETE"},
		{"SELECT * FROM sales; INSERT INTO sales VALUES (1)", "INSERT"},
	}

	for _, tt := range tests {
		err := v.Validate(tt.sql)
		if err == nil {
			t.Errorf("Validate(%q) = nil, want error", tt.sql)
			continue
		}
		if !strings.Contains(err.Error(), tt.keyword) {
			t.Errorf("Validate(%q) = %q, want message naming %s", tt.sql, err, tt.keyword)
		}
	}
}

// The keyword scan is textual: a mutating keyword inside a string literal
// still rejects the query. That over-rejection is a known property of the
// gate, kept deliberately.
func TestValidate_KeywordInsideLiteralOverRejects(t *testing.T) {
	v := New("sales")
	err := v.Validate("SELECT * FROM sales WHERE product_name = 'drop scone'")
	if err == nil {
		t.Error("expected over-rejection of keyword inside string literal, got nil")
	}
}

func TestValidate_TableAllowList(t *testing.T) {
	v := New("sales")

	err := v.Validate("SELECT * FROM transactions")
	if err == nil {
		t.Fatal("Validate on disallowed table = nil, want error")
	}
	if !strings.Contains(err.Error(), "transactions") {
		t.Errorf("error %q does not name the disallowed table", err)
	}

	// multiple tables in the FROM list are all checked
	err = v.Validate("SELECT * FROM sales, transactions")
	if err == nil || !strings.Contains(err.Error(), "transactions") {
		t.Errorf("Validate on mixed FROM list = %v, want error naming transactions", err)
	}
}

// A derived table hides the real table name from the shallow extractor, so
// the query is rejected as unidentifiable rather than silently allowed.
func TestValidate_DerivedTableRejected(t *testing.T) {
	v := New("sales")
	err := v.Validate("SELECT * FROM (SELECT * FROM secrets)")
	if err == nil {
		t.Error("expected rejection of derived table, got nil")
	}
}

// Only the first identifier list is inspected; tables past the first JOIN
// keyword are not extracted. The first table is still enforced.
func TestValidate_JoinChecksLeadingTableOnly(t *testing.T) {
	v := New("sales")
	if err := v.Validate("SELECT * FROM sales JOIN other ON sales.id = other.id"); err != nil {
		t.Errorf("leading allowed table with join: %v, want nil (join tables are not recursed)", err)
	}
	if err := v.Validate("SELECT * FROM other JOIN sales ON sales.id = other.id"); err == nil {
		t.Error("leading disallowed table must be rejected")
	}
}

func TestValidate_SchemaQualifiedName(t *testing.T) {
	v := New("sales")
	if err := v.Validate("SELECT * FROM main.sales"); err != nil {
		t.Errorf("Validate(main.sales) = %v, want nil", err)
	}
}

func TestExtractTables(t *testing.T) {
	tests := []struct {
		sql  string
		want []string
	}{
		{"SELECT * FROM sales", []string{"sales"}},
		{"SELECT * FROM sales s", []string{"sales"}},
		{"SELECT * FROM sales AS s", []string{"sales"}},
		{"SELECT * FROM a, b", []string{"a", "b"}},
		{"SELECT * FROM a WHERE x = 1", []string{"a"}},
		{"SELECT 1", nil},
	}

	for _, tt := range tests {
		got := extractTables(tt.sql)
		if len(got) != len(tt.want) {
			t.Errorf("extractTables(%q) = %v, want %v", tt.sql, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("extractTables(%q) = %v, want %v", tt.sql, got, tt.want)
				break
			}
		}
	}
}
