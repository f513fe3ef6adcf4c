package entity

import (
	"time"

	"PodiumBackend/internal/analysis/speech"
	"PodiumBackend/internal/analysis/timeseries"
)

type PracticeSession struct {
	ID                   string                     `db:"id"`
	UserID               string                     `db:"user_id"`
	Title                string                     `db:"title"`
	Duration             int                        `db:"duration"`
	Transcript           string                     `db:"transcript"`
	FillerWords          []speech.FillerWordCount   `db:"filler_words"`
	WordsPerMinute       int                        `db:"words_per_minute"`
	EyeContactPercentage int                        `db:"eye_contact_percentage"`
	PostureScore         float64                    `db:"posture_score"`
	ConfidenceScore      int                        `db:"confidence_score"`
	Strengths            []string                   `db:"strengths"`
	Improvements         []string                   `db:"improvements"`
	EyeContactData       []timeseries.GazeSample    `db:"eye_contact_data"`
	PostureData          []timeseries.PostureSample `db:"posture_data"`
	AudioURL             string                     `db:"audio_url"`
	CreatedAt            time.Time                  `db:"created_at"`
	CompletedAt          time.Time                  `db:"completed_at"`
}
