// Package postgres introspects the target databases and formats their
// schemas as context for the SQL generation prompt.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/datachat/internal/dbconn"
	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

const columnsQuery = `
SELECT
    t.table_name,
    c.column_name,
    c.data_type,
    c.is_nullable,
    CASE
        WHEN pk.column_name IS NOT NULL THEN 'PRIMARY KEY'
        WHEN fk.column_name IS NOT NULL THEN 'FOREIGN KEY'
        ELSE ''
    END AS key_type
FROM information_schema.tables t
LEFT JOIN information_schema.columns c ON t.table_name = c.table_name
LEFT JOIN (
    SELECT ku.table_name, ku.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage ku ON tc.constraint_name = ku.constraint_name
    WHERE tc.constraint_type = 'PRIMARY KEY'
) pk ON c.table_name = pk.table_name AND c.column_name = pk.column_name
LEFT JOIN (
    SELECT ku.table_name, ku.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage ku ON tc.constraint_name = ku.constraint_name
    WHERE tc.constraint_type = 'FOREIGN KEY'
) fk ON c.table_name = fk.table_name AND c.column_name = fk.column_name
WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
ORDER BY t.table_name, c.ordinal_position`

type column struct {
	name     string
	dataType string
	nullable bool
	keyType  string
}

// Source implements the domain.SchemaSource interface over the configured
// target databases.
type Source struct {
	directory *dbconn.Directory
}

// NewSource creates a new schema source.
func NewSource(directory *dbconn.Directory) *Source {
	return &Source{
		directory: directory,
	}
}

// Context introspects every reachable target database. An unreachable
// database is noted in the formatted context rather than failing the whole
// stage; the stage fails only when no database is accessible.
func (s *Source) Context(ctx context.Context, _ string) (*domain.SchemaContext, error) {
	names := s.directory.Names()
	if len(names) == 0 {
		return nil, errors.New("no target databases configured")
	}

	logger := observability.FromContext(ctx)

	var b strings.Builder
	b.WriteString("DATABASE SCHEMAS AVAILABLE TO USER:\n\n")

	var reachable []string
	for _, name := range names {
		tables, order, err := s.tables(ctx, name)
		if err != nil {
			logger.Warn("schema introspection failed",
				observability.String("database", name),
				observability.Error(err))
			fmt.Fprintf(&b, "DATABASE %s: unavailable (%v)\n\n", name, err)
			continue
		}

		reachable = append(reachable, name)
		formatDatabase(&b, name, tables, order)
	}

	if len(reachable) == 0 {
		return nil, errors.New("no accessible databases")
	}

	return &domain.SchemaContext{
		Databases: reachable,
		Formatted: b.String(),
	}, nil
}

func (s *Source) tables(ctx context.Context, database string) (map[string][]column, []string, error) {
	pool, err := s.directory.Pool(ctx, database)
	if err != nil {
		return nil, nil, err
	}

	rows, err := pool.Query(ctx, columnsQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query information_schema: %w", err)
	}
	defer rows.Close()

	tables := make(map[string][]column)
	var order []string
	for rows.Next() {
		var tableName string
		var col column
		var nullable string
		if scanErr := rows.Scan(&tableName, &col.name, &col.dataType, &nullable, &col.keyType); scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan schema row: %w", scanErr)
		}
		col.nullable = nullable == "YES"

		if _, seen := tables[tableName]; !seen {
			order = append(order, tableName)
		}
		tables[tableName] = append(tables[tableName], col)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, nil, fmt.Errorf("schema introspection failed: %w", rowsErr)
	}

	return tables, order, nil
}

func formatDatabase(b *strings.Builder, name string, tables map[string][]column, order []string) {
	fmt.Fprintf(b, "DATABASE: %s\n", name)

	if len(order) == 0 {
		b.WriteString("   No tables found.\n\n")
		return
	}

	b.WriteString("   TABLES:\n")
	for _, tableName := range order {
		fmt.Fprintf(b, "   %s:\n", tableName)
		for _, col := range tables[tableName] {
			nullable := "NOT NULL"
			if col.nullable {
				nullable = "NULL"
			}
			keyInfo := ""
			if col.keyType != "" {
				keyInfo = fmt.Sprintf(" (%s)", col.keyType)
			}
			fmt.Fprintf(b, "      - %s: %s %s%s\n", col.name, col.dataType, nullable, keyInfo)
		}
		b.WriteString("\n")
	}
}
