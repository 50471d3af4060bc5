package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sathwik2s/voice-pulse-ai/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	db *DB
}

func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Insert(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			id, filename, duration, total_segments,
			primary_emotion, sentiment_category, created_at, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		report.ID,
		report.Filename,
		report.Duration,
		report.TotalSegments,
		report.PrimaryEmotion,
		report.SentimentCategory,
		report.CreatedAt,
		string(report.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, filename, duration, total_segments,
			   primary_emotion, sentiment_category, created_at, payload
		FROM reports WHERE id = ?`

	report := &models.Report{}
	var payload string
	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&report.ID,
		&report.Filename,
		&report.Duration,
		&report.TotalSegments,
		&report.PrimaryEmotion,
		&report.SentimentCategory,
		&report.CreatedAt,
		&payload,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	report.Payload = []byte(payload)
	return report, nil
}

func (r *ReportRepo) List(ctx context.Context, limit int) ([]models.ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, filename, duration, total_segments,
			   primary_emotion, sentiment_category, created_at
		FROM reports ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := []models.ReportSummary{}
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(
			&s.ID,
			&s.Filename,
			&s.Duration,
			&s.TotalSegments,
			&s.PrimaryEmotion,
			&s.SentimentCategory,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
