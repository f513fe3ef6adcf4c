package analysisService

import (
	"PodiumBackend/internal/api/analysis"
	websocketPkg "PodiumBackend/pkg/websocket"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type AnalysisService interface {
	Frames() FrameDomain
	Capture() CaptureDomain
}

type FrameDomain interface {
	AnalyzeFrame(c context.Context, req analysis.FrameAnalysisRequest) analysis.FrameAnalysisResponse
	AnalyzePosture(c context.Context, req analysis.PostureAnalysisRequest) analysis.PostureAnalysisResponse
}

type CaptureDomain interface {
	StartCapture(c context.Context, sessionID string, intervalMs int) error
	SubmitFrame(c context.Context, sessionID string, frame []byte, width, height int) error
	CaptureStatus(c context.Context, sessionID string) (analysis.CaptureStatusResponse, error)
	StopCapture(c context.Context, sessionID string) (analysis.StopCaptureResponse, error)
}

type analysisService struct {
	frameDomain   FrameDomain
	captureDomain CaptureDomain
}

func (a *analysisService) Frames() FrameDomain {
	return a.frameDomain
}

func (a *analysisService) Capture() CaptureDomain {
	return a.captureDomain
}

func New(log *logrus.Logger, detectorClient websocketPkg.IWebsocket) AnalysisService {
	return &analysisService{
		frameDomain: &frameDomainImpl{log: log},
		captureDomain: &captureDomainImpl{
			log:      log,
			detector: detectorClient,
			captures: make(map[string]*capture),
		},
	}
}

type frameDomainImpl struct {
	log *logrus.Logger
}

type captureDomainImpl struct {
	log      *logrus.Logger
	detector websocketPkg.IWebsocket

	mu       sync.Mutex
	captures map[string]*capture
}
