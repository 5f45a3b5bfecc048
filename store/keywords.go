package store

import (
	"context"
	"fmt"
)

// SaveKeywords records one row per suggestion and returns how many were saved
func (d *DB) SaveKeywords(ctx context.Context, query string, suggestions []string) (int, error) {
	if len(suggestions) == 0 {
		return 0, nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO keyword_research (query, suggestion, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := d.now()
	for _, s := range suggestions {
		if _, err := stmt.ExecContext(ctx, query, s, now); err != nil {
			return 0, fmt.Errorf("failed to insert keyword suggestion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(suggestions), nil
}

// KeywordHistory returns the suggestions saved for query, oldest first
func (d *DB) KeywordHistory(ctx context.Context, query string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT suggestion FROM keyword_research WHERE query = ? ORDER BY id", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
