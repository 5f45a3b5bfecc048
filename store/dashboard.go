package store

import (
	"context"
	"fmt"
)

const topKeywordsLimit = 5

// Dashboard summarizes a user's articles and SEO reports
type Dashboard struct {
	TotalArticles   int      `json:"total_articles"`
	TopKeywords     []string `json:"top_keywords"`
	AvgTitleScore   float64  `json:"avg_title_score"`
	AvgMetaScore    float64  `json:"avg_meta_score"`
	AvgContentScore float64  `json:"avg_content_score"`
}

// Dashboard counts articles, ranks their keywords and averages report scores.
// Keyword ties keep the order in which the keyword first appeared.
func (d *DB) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	dash := Dashboard{TopKeywords: []string{}}

	rows, err := d.sql.QueryContext(ctx,
		`SELECT keyword, COUNT(*) AS n, MIN(created_at) AS first_seen
		 FROM articles WHERE user_id = ?
		 GROUP BY keyword
		 ORDER BY n DESC, first_seen ASC`, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to rank keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			keyword   string
			n         int
			firstSeen string
		)
		if err := rows.Scan(&keyword, &n, &firstSeen); err != nil {
			return Dashboard{}, err
		}
		dash.TotalArticles += n
		if len(dash.TopKeywords) < topKeywordsLimit {
			dash.TopKeywords = append(dash.TopKeywords, keyword)
		}
	}
	if err := rows.Err(); err != nil {
		return Dashboard{}, err
	}

	var (
		count                int
		title, meta, content float64
	)
	err = d.sql.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(title_score), 0), COALESCE(SUM(meta_score), 0), COALESCE(SUM(seo_score), 0)
		 FROM seo_reports WHERE user_id = ?`, userID).Scan(&count, &title, &meta, &content)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to average report scores: %w", err)
	}

	divisor := float64(max(1, count))
	dash.AvgTitleScore = title / divisor
	dash.AvgMetaScore = meta / divisor
	dash.AvgContentScore = content / divisor

	return dash, nil
}
