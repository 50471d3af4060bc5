package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report is a persisted analysis: the full JSON payload plus the scalar
// columns used for listings.
type Report struct {
	ID                string
	Filename          string
	Duration          float64
	TotalSegments     int
	PrimaryEmotion    string
	SentimentCategory string
	CreatedAt         time.Time
	Payload           json.RawMessage
}

func NewReport(filename string, payload json.RawMessage) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

// ReportSummary is the listing view of a report, without the payload.
type ReportSummary struct {
	ID                string    `json:"analysis_id"`
	Filename          string    `json:"filename"`
	Duration          float64   `json:"duration"`
	TotalSegments     int       `json:"total_segments"`
	PrimaryEmotion    string    `json:"primary_emotion"`
	SentimentCategory string    `json:"sentiment_category"`
	CreatedAt         time.Time `json:"created_at"`
}
