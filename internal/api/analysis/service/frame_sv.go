package analysisService

import (
	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
	"PodiumBackend/internal/api/analysis"
	contextPkg "PodiumBackend/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *frameDomainImpl) AnalyzeFrame(c context.Context, req analysis.FrameAnalysisRequest) analysis.FrameAnalysisResponse {
	observation := gaze.Normalize(req.Detection, req.FrameWidth, req.FrameHeight)

	s.log.WithFields(logrus.Fields{
		"request_id":   contextPkg.GetRequestID(c),
		"has_face":     observation.HasFace,
		"gaze_forward": observation.GazeForward,
	}).Debug("Frame analyzed")

	return analysis.FrameAnalysisResponse{Observation: observation}
}

func (s *frameDomainImpl) AnalyzePosture(c context.Context, req analysis.PostureAnalysisRequest) analysis.PostureAnalysisResponse {
	var pose *posture.PoseDetection
	if len(req.Keypoints) > 0 {
		pose = &posture.PoseDetection{Keypoints: req.Keypoints}
	}

	observation := posture.Classify(pose)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(c),
		"category":   observation.Category,
		"confidence": observation.Confidence,
	}).Debug("Posture analyzed")

	return analysis.PostureAnalysisResponse{Observation: observation}
}
