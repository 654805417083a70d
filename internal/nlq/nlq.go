// Package nlq turns natural-language questions into SQL with a single-turn
// Gemini chat completion. The generator only produces the SQL text; callers
// must run it through the safety gate before executing anything.
package nlq

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for SQL generation.
const DefaultModelName = "gemini-2.5-flash"

// Generator produces SQL from questions against a fixed schema description.
type Generator struct {
	client *genai.Client
	model  string
	schema string // table DDL plus foreign keys
	terms  string // optional business-rule documentation
}

// NewGenerator wraps an existing genai client. schemaText is the database
// description produced by the store's introspection; businessTerms may be
// empty.
func NewGenerator(client *genai.Client, model, schemaText, businessTerms string) *Generator {
	if model == "" {
		model = DefaultModelName
	}
	return &Generator{client: client, model: model, schema: schemaText, terms: businessTerms}
}

// GenerateSQL asks the model for a single SQLite SELECT answering the
// question. The reply is stripped of Markdown fences but otherwise returned
// verbatim; validation is the caller's job.
func (g *Generator) GenerateSQL(ctx context.Context, question string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: g.buildPrompt(question)},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateSQL: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("GenerateSQL: empty response from model")
	}

	sql := CleanModelSQL(raw)
	if sql == "" {
		return "", fmt.Errorf("GenerateSQL: model response contained no SQL\nraw response: %s", raw)
	}
	return sql, nil
}

func (g *Generator) buildPrompt(question string) string {
	var b strings.Builder
	b.WriteString("You are a SQL generator for a SQLite sales database.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Answer the user's question with ONE SQLite SELECT statement.\n")
	b.WriteString("- Query ONLY the tables in the schema below.\n")
	b.WriteString("- Return ONLY the SQL text.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```sql or any Markdown.\n\n")

	b.WriteString("Schema:\n")
	b.WriteString(g.schema)
	b.WriteString("\n")

	if g.terms != "" {
		b.WriteString("Business rules:\n")
		b.WriteString(g.terms)
		b.WriteString("\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

// CleanModelSQL strips Markdown fences and surrounding chatter from a model
// reply, keeping the statement itself. Models ignore "no fences" instructions
// often enough that this cleanup stays.
func CleanModelSQL(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// drop the first line (``` or ```sql)
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return strings.TrimSpace(strings.TrimPrefix(s, "```"))
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
