package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rankcraft/backend/analyzer"
)

// StoredReport is an SEO report together with the copy it was computed from
type StoredReport struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Input     analyzer.AnalysisInput `json:"input"`
	Report    analyzer.SEOReport     `json:"report"`
	CreatedAt time.Time              `json:"created_at"`
}

func (d *DB) SaveReport(ctx context.Context, userID string, in analyzer.AnalysisInput, report analyzer.SEOReport) (StoredReport, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return StoredReport{}, fmt.Errorf("failed to encode report: %w", err)
	}

	r := StoredReport{
		UserID:    userID,
		Input:     in,
		Report:    report,
		CreatedAt: d.now(),
	}
	r.ID = d.newID(r.CreatedAt)

	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO seo_reports (id, user_id, title, meta, content, keyword, seo_score, title_score, meta_score, report_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, userID, in.Title, in.MetaDescription, in.Content, in.Keyword,
		report.ContentAnalysis.SEOScore, report.TitleAnalysis.Score, report.MetaAnalysis.Score,
		string(data), r.CreatedAt)
	if err != nil {
		return StoredReport{}, fmt.Errorf("failed to insert report: %w", err)
	}
	return r, nil
}

func (d *DB) GetReport(ctx context.Context, userID, id string) (StoredReport, error) {
	var (
		r    StoredReport
		data string
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, title, meta, content, keyword, report_json, created_at FROM seo_reports WHERE user_id = ? AND id = ?",
		userID, id).Scan(&r.ID, &r.UserID, &r.Input.Title, &r.Input.MetaDescription, &r.Input.Content, &r.Input.Keyword, &data, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredReport{}, ErrNotFound
	}
	if err != nil {
		return StoredReport{}, fmt.Errorf("failed to get report: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &r.Report); err != nil {
		return StoredReport{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return r, nil
}
