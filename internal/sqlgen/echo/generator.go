// Package echo provides a deterministic SQL generator for development and
// testing. It maps question keywords to canned statements without making
// external API calls.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

// Generator implements the domain.SQLGenerator interface with canned SQL.
type Generator struct{}

// NewGenerator creates a new echo generator. No configuration is required
// as this generator operates entirely in-memory.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a deterministic statement derived from the question.
func (g *Generator) Generate(
	ctx context.Context,
	_ string,
	question string,
	schema *domain.SchemaContext,
) (*domain.GeneratedSQL, error) {
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}
	if schema == nil || len(schema.Databases) == 0 {
		return nil, errors.New("no accessible databases")
	}

	observability.FromContext(ctx).Debug("echo generator producing canned SQL")

	table := guessTable(question)

	var sql string
	if strings.Contains(strings.ToLower(question), "count") ||
		strings.Contains(strings.ToLower(question), "how many") {
		sql = fmt.Sprintf("SELECT COUNT(*) AS count FROM %s;", table)
	} else {
		sql = fmt.Sprintf("SELECT * FROM %s;", table)
	}

	return &domain.GeneratedSQL{
		SQL:      sql,
		Database: schema.Databases[0],
	}, nil
}

// guessTable picks the last plausible noun of the question as the table
// name. Good enough for a canned generator.
func guessTable(question string) string {
	words := strings.Fields(strings.ToLower(strings.Trim(question, "?!. ")))
	for i := len(words) - 1; i >= 0; i-- {
		word := strings.Trim(words[i], "?!.,'\"")
		if len(word) > 2 {
			return word
		}
	}
	return "records"
}
