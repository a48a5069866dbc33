// Package postgres implements the query execution collaborator against the
// configured target databases using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/davidbz/datachat/internal/dbconn"
	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

// Executor implements the domain.QueryExecutor interface.
type Executor struct {
	directory *dbconn.Directory
}

// NewExecutor creates a new Postgres query executor.
func NewExecutor(directory *dbconn.Directory) *Executor {
	return &Executor{
		directory: directory,
	}
}

// Execute runs the statement against the named target database. SELECTs are
// capped with a LIMIT when the statement has none; other statements report
// affected rows. Row values are normalized so the result survives a JSON
// round-trip through the cache without loss surprises.
func (e *Executor) Execute(
	ctx context.Context,
	sql, database string,
	rowLimit int,
) (*domain.QueryResult, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, errors.New("sql cannot be empty")
	}

	pool, err := e.directory.Pool(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target database: %w", err)
	}

	logger := observability.FromContext(ctx)

	if !isSelect(sql) {
		tag, execErr := pool.Exec(ctx, sql)
		if execErr != nil {
			return nil, fmt.Errorf("query execution error: %w", execErr)
		}

		logger.Info("statement executed",
			observability.String("database", database),
			observability.Int64("affected_rows", tag.RowsAffected()))

		return &domain.QueryResult{
			Select:       false,
			Rows:         nil,
			Columns:      nil,
			RowCount:     0,
			AffectedRows: tag.RowsAffected(),
		}, nil
	}

	sql = capLimit(sql, rowLimit)

	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	columns := make([]string, 0, len(descriptions))
	for _, desc := range descriptions {
		columns = append(columns, desc.Name)
	}

	var data []map[string]any
	for rows.Next() {
		values, valErr := rows.Values()
		if valErr != nil {
			return nil, fmt.Errorf("failed to read row: %w", valErr)
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		data = append(data, row)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("query execution error: %w", rowsErr)
	}

	logger.Info("query executed",
		observability.String("database", database),
		observability.Int("row_count", len(data)))

	return &domain.QueryResult{
		Select:       true,
		Rows:         data,
		Columns:      columns,
		RowCount:     len(data),
		AffectedRows: 0,
	}, nil
}

func isSelect(sql string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(sql))
	return strings.HasPrefix(trimmed, "SELECT") || strings.HasPrefix(trimmed, "WITH")
}

// capLimit appends a LIMIT to SELECTs that have none.
func capLimit(sql string, limit int) string {
	if limit <= 0 || strings.Contains(strings.ToUpper(sql), "LIMIT") {
		return sql
	}
	return fmt.Sprintf("%s LIMIT %d;", strings.TrimSpace(strings.TrimRight(strings.TrimSpace(sql), ";")), limit)
}

// normalizeValue maps driver types onto JSON-stable ones: arbitrary
// precision numerics become float64, timestamps RFC3339 strings, UUIDs and
// byte slices strings.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(v).String()
	case []byte:
		return string(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
