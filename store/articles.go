package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Article struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Keyword   string    `json:"keyword"`
	Length    string    `json:"length"`
	Tone      string    `json:"tone"`
	Article   string    `json:"article"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleUpdate changes only the non-nil fields
type ArticleUpdate struct {
	Keyword *string `json:"keyword"`
	Length  *string `json:"length"`
	Tone    *string `json:"tone"`
	Article *string `json:"article"`
}

func (d *DB) SaveArticle(ctx context.Context, userID string, a Article) (Article, error) {
	a.UserID = userID
	a.CreatedAt = d.now()
	a.ID = d.newID(a.CreatedAt)

	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO articles (id, user_id, keyword, length, tone, article, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.Keyword, a.Length, a.Tone, a.Article, a.CreatedAt)
	if err != nil {
		return Article{}, fmt.Errorf("failed to insert article: %w", err)
	}
	return a, nil
}

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.UserID, &a.Keyword, &a.Length, &a.Tone, &a.Article, &a.CreatedAt)
	return a, err
}

const articleColumns = "id, user_id, keyword, length, tone, article, created_at"

// ListArticles returns the user's articles, newest first
func (d *DB) ListArticles(ctx context.Context, userID string) ([]Article, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (d *DB) GetArticle(ctx context.Context, userID, id string) (Article, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE user_id = ? AND id = ?", userID, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

func (d *DB) UpdateArticle(ctx context.Context, userID, id string, u ArticleUpdate) (Article, error) {
	var (
		sets []string
		args []any
	)
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"keyword", u.Keyword},
		{"length", u.Length},
		{"tone", u.Tone},
		{"article", u.Article},
	} {
		if f.value != nil {
			sets = append(sets, f.column+" = ?")
			args = append(args, *f.value)
		}
	}

	if len(sets) > 0 {
		args = append(args, userID, id)
		res, err := d.sql.ExecContext(ctx,
			"UPDATE articles SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
		if err != nil {
			return Article{}, fmt.Errorf("failed to update article: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return Article{}, ErrNotFound
		}
	}

	return d.GetArticle(ctx, userID, id)
}

func (d *DB) DeleteArticle(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM articles WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
