// Package sqlguard gates arbitrary SQL strings before they reach the
// database. The contract is SELECT-only plus a table allow-list: the first
// statement must be a SELECT, no mutating keyword may appear anywhere in the
// text, and every table named in the top-level FROM clause must be allowed.
//
// This is advisory defense-in-depth, not a SQL firewall. The keyword scan is
// textual, so a keyword inside a string literal still rejects the query, and
// table extraction does not recurse into subqueries or past the first join.
package sqlguard

import (
	"fmt"
	"strings"
)

// mutatingKeywords reject a query wherever they appear as a whole token.
var mutatingKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "TRUNCATE", "CREATE",
}

// clause keywords terminate the FROM identifier list.
var fromTerminators = map[string]bool{
	"WHERE": true, "GROUP": true, "ORDER": true, "LIMIT": true,
	"HAVING": true, "JOIN": true, "INNER": true, "LEFT": true,
	"RIGHT": true, "CROSS": true, "OUTER": true, "UNION": true,
	"ON": true, "USING": true,
}

// Validator checks SQL strings against a fixed table allow-list.
type Validator struct {
	allowed map[string]bool
}

// New returns a Validator permitting only the given tables. Matching is
// case-insensitive.
func New(tables ...string) *Validator {
	allowed := make(map[string]bool, len(tables))
	for _, t := range tables {
		allowed[strings.ToLower(t)] = true
	}
	return &Validator{allowed: allowed}
}

// Validate returns nil when the query is safe to execute, or an error naming
// the first reason it is not. Only the first statement is parsed for type and
// tables; the mutating-keyword scan covers the whole input, so a second
// statement carrying DROP/DELETE/... is still rejected.
func (v *Validator) Validate(sql string) error {
	stmt := firstStatement(sql)
	if strings.TrimSpace(stmt) == "" {
		return fmt.Errorf("invalid SQL query")
	}

	if !isSelect(stmt) {
		return fmt.Errorf("only SELECT queries are allowed")
	}

	for _, tok := range tokenize(strings.ToUpper(sql)) {
		for _, kw := range mutatingKeywords {
			if tok == kw {
				return fmt.Errorf("keyword %s is not allowed", kw)
			}
		}
	}

	tables := extractTables(stmt)
	if len(tables) == 0 {
		return fmt.Errorf("cannot identify the queried table")
	}
	for _, table := range tables {
		if !v.allowed[strings.ToLower(table)] {
			return fmt.Errorf("table %s is not allowed", table)
		}
	}

	return nil
}

// firstStatement returns the input up to the first semicolon outside of a
// quoted string.
func firstStatement(sql string) string {
	var quote rune
	for i, r := range sql {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			return sql[:i]
		}
	}
	return sql
}

// isSelect reports whether the statement's first token is SELECT.
func isSelect(stmt string) bool {
	toks := tokenize(strings.ToUpper(stmt))
	return len(toks) > 0 && toks[0] == "SELECT"
}

// tokenize splits the input on every non-identifier character, so keywords
// glued to punctuation (";DROP") still surface as their own token.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !isIdentRune(r)
	})
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		r > 127 // keep non-ASCII identifier text intact
}

// extractTables returns the table names in the top-level FROM clause: the
// first identifier of each comma-separated group, up to the first clause
// keyword. A derived table ("FROM (SELECT ...)") yields nothing, which the
// caller rejects as an unidentifiable table.
func extractTables(stmt string) []string {
	upper := strings.ToUpper(stmt)
	toks := tokenizeWithPunct(stmt)
	uToks := tokenizeWithPunct(upper)

	var tables []string
	inFrom := false
	depth := 0
	expectName := false

	for i, tok := range uToks {
		switch tok {
		case "(":
			depth++
			continue
		case ")":
			depth--
			continue
		}
		if depth > 0 {
			continue
		}

		if !inFrom {
			if tok == "FROM" {
				inFrom = true
				expectName = true
			}
			continue
		}

		if tok == "," {
			expectName = true
			continue
		}
		if fromTerminators[tok] {
			break
		}
		if expectName && isIdentToken(tok) {
			// schema-qualified names keep only the table segment
			name := toks[i]
			if idx := strings.LastIndex(name, "."); idx >= 0 {
				name = name[idx+1:]
			}
			tables = append(tables, name)
			expectName = false
			continue
		}
		// alias or AS keyword after a name; skip
	}

	return tables
}

// tokenizeWithPunct splits into identifier tokens plus standalone parens and
// commas, which extractTables needs to track grouping.
func tokenizeWithPunct(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case isIdentRune(r):
			cur.WriteRune(r)
		case r == '(' || r == ')' || r == ',':
			flush()
			toks = append(toks, string(r))
		default:
			flush()
		}
	}
	flush()
	return toks
}

func isIdentToken(tok string) bool {
	for _, r := range tok {
		if !isIdentRune(r) {
			return false
		}
	}
	return tok != ""
}
