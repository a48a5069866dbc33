package domain

import "fmt"

// FormatAnswer derives the human-readable summary for a query result.
// Pure and deterministic: the message depends only on the result shape.
func FormatAnswer(result *QueryResult) string {
	if result == nil {
		return "No results found."
	}

	if !result.Select {
		return fmt.Sprintf("Query executed. %d rows affected.", result.AffectedRows)
	}

	if result.RowCount == 0 {
		return "No results found."
	}

	return fmt.Sprintf("There are %d results.", result.RowCount)
}

// Suggestion derives a follow-up hint from the shape of the first row.
func Suggestion(result *QueryResult) string {
	if result == nil || !result.Select || len(result.Rows) == 0 {
		return "Try broadening your search criteria."
	}

	firstRow := result.Rows[0]
	if _, ok := firstRow["name"]; ok {
		return "Try asking about specific names or filtering by dates."
	}
	if _, ok := firstRow["date"]; ok {
		return "You might ask about trends over time or recent records."
	}

	return "Ask to see more details or filter the results further."
}
