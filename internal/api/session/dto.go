package session

import (
	"time"

	"PodiumBackend/internal/analysis/speech"
	"PodiumBackend/internal/analysis/timeseries"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

// CompleteSessionRequest carries the multipart form fields posted when a
// recording ends. The series arrive as JSON strings; the audio file rides
// alongside as a separate part.
type CompleteSessionRequest struct {
	Duration       int    `form:"duration" validate:"min=0"`
	EyeContactData string `form:"eyeContactData" validate:"required"`
	PostureData    string `form:"postureData"`
}

type SessionResponse struct {
	ID                   string                     `json:"id"`
	UserID               string                     `json:"userId"`
	Title                string                     `json:"title"`
	Duration             int                        `json:"duration"`
	Transcript           string                     `json:"transcript,omitempty"`
	FillerWords          []speech.FillerWordCount   `json:"fillerWords,omitempty"`
	WordsPerMinute       int                        `json:"wordsPerMinute"`
	EyeContactPercentage int                        `json:"eyeContactPercentage"`
	PostureScore         float64                    `json:"postureScore"`
	ConfidenceScore      int                        `json:"confidenceScore"`
	Strengths            []string                   `json:"strengths,omitempty"`
	Improvements         []string                   `json:"improvements,omitempty"`
	EyeContactData       []timeseries.GazeSample    `json:"eyeContactData,omitempty"`
	PostureData          []timeseries.PostureSample `json:"postureData,omitempty"`
	AudioURL             string                     `json:"audioUrl,omitempty"`
	TranscriptionError   string                     `json:"transcriptionError,omitempty"`
	CreatedAt            time.Time                  `json:"createdAt"`
	CompletedAt          *time.Time                 `json:"completedAt,omitempty"`

	CoachSummary *CoachSummaryResponse `json:"coachSummary,omitempty"`
}

type CoachSummaryResponse struct {
	Summary          string `json:"summary"`
	KeyInsight       string `json:"keyInsight"`
	RecommendedDrill string `json:"recommendedDrill"`
}
