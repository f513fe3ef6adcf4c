package analysis

import (
	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
	"PodiumBackend/internal/analysis/timeseries"
)

type FrameAnalysisRequest struct {
	Detection   *gaze.FaceDetection `json:"detection"`
	FrameWidth  int                 `json:"frameWidth" validate:"required,min=1"`
	FrameHeight int                 `json:"frameHeight" validate:"required,min=1"`
}

type FrameAnalysisResponse struct {
	Observation gaze.FrameObservation `json:"observation"`
}

type PostureAnalysisRequest struct {
	Keypoints []posture.Keypoint `json:"keypoints"`
}

type PostureAnalysisResponse struct {
	Observation posture.Observation `json:"observation"`
}

type StartCaptureRequest struct {
	IntervalMs int `json:"intervalMs" validate:"omitempty,min=100,max=10000"`
}

type CaptureStatusResponse struct {
	SessionID string `json:"sessionId"`
	Running   bool   `json:"running"`
	Samples   int    `json:"samples"`
}

type StopCaptureResponse struct {
	SessionID            string                     `json:"sessionId"`
	EyeContactPercentage int                        `json:"eyeContactPercentage"`
	PostureScore         float64                    `json:"postureScore"`
	EyeContactData       []timeseries.GazeSample    `json:"eyeContactData"`
	PostureData          []timeseries.PostureSample `json:"postureData"`
}
