package analysisService

import (
	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
	"PodiumBackend/internal/analysis/recorder"
	"PodiumBackend/internal/analysis/timeseries"
	"PodiumBackend/internal/api/analysis"
	contextPkg "PodiumBackend/pkg/context"
	websocketPkg "PodiumBackend/pkg/websocket"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultCaptureInterval = time.Second
	defaultFrameWidth      = 640
	defaultFrameHeight     = 480
)

// capture is one live recording loop. The browser pushes frames in; the
// recorder polls the sidecar at a fixed cadence with whatever frame is latest.
type capture struct {
	rec    *recorder.Recorder
	cancel context.CancelFunc

	mu     sync.Mutex
	frame  []byte
	width  int
	height int
}

func (c *capture) setFrame(frame []byte, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The handler hands us fasthttp's body buffer, which is reused for the
	// next request on the connection. The recorder reads asynchronously, so
	// keep our own copy.
	c.frame = append([]byte(nil), frame...)
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

func (c *capture) latestFrame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *capture) frameSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// wsDetector adapts the sidecar websocket client to the recorder's
// Detector interface.
type wsDetector struct {
	client websocketPkg.IWebsocket
	cap    *capture
}

func (d *wsDetector) Estimate(ctx context.Context) (*gaze.FaceDetection, *posture.PoseDetection, error) {
	frame := d.cap.latestFrame()
	if frame == nil {
		return nil, nil, nil
	}

	face, err := d.client.ProcessFaceFrame(frame)
	if err != nil {
		return nil, nil, err
	}

	pose, err := d.client.ProcessPoseFrame(frame)
	if err != nil {
		return nil, nil, err
	}

	return face, pose, nil
}

func (d *wsDetector) FrameSize() (int, int) {
	return d.cap.frameSize()
}

func (s *captureDomainImpl) StartCapture(c context.Context, sessionID string, intervalMs int) error {
	requestID := contextPkg.GetRequestID(c)

	if !s.detector.IsConnected(websocketPkg.FaceStream) {
		if err := s.detector.Reconnect(websocketPkg.FaceStream); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Detector sidecar unreachable")
			return analysis.ErrDetectorUnavailable
		}
	}

	interval := defaultCaptureInterval
	if intervalMs > 0 {
		interval = time.Duration(intervalMs) * time.Millisecond
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.captures[sessionID]; exists {
		return analysis.ErrCaptureAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cap := &capture{
		rec:    recorder.New(),
		cancel: cancel,
		width:  defaultFrameWidth,
		height: defaultFrameHeight,
	}
	s.captures[sessionID] = cap

	go cap.rec.Run(runCtx, &wsDetector{client: s.detector, cap: cap}, interval)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"interval":   interval.String(),
	}).Info("Capture started")

	return nil
}

func (s *captureDomainImpl) SubmitFrame(c context.Context, sessionID string, frame []byte, width, height int) error {
	cap, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	cap.setFrame(frame, width, height)
	return nil
}

func (s *captureDomainImpl) CaptureStatus(c context.Context, sessionID string) (analysis.CaptureStatusResponse, error) {
	cap, err := s.lookup(sessionID)
	if err != nil {
		return analysis.CaptureStatusResponse{}, err
	}

	return analysis.CaptureStatusResponse{
		SessionID: sessionID,
		Running:   true,
		Samples:   cap.rec.SampleCount(),
	}, nil
}

func (s *captureDomainImpl) StopCapture(c context.Context, sessionID string) (analysis.StopCaptureResponse, error) {
	s.mu.Lock()
	cap, exists := s.captures[sessionID]
	if exists {
		delete(s.captures, sessionID)
	}
	s.mu.Unlock()

	if !exists {
		return analysis.StopCaptureResponse{}, analysis.ErrCaptureNotRunning
	}

	cap.cancel()
	gazeSamples, postureSamples := cap.rec.Finalize()

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(c),
		"session_id": sessionID,
		"samples":    len(gazeSamples),
	}).Info("Capture stopped")

	return analysis.StopCaptureResponse{
		SessionID:            sessionID,
		EyeContactPercentage: timeseries.EyeContactPercentage(gazeSamples),
		PostureScore:         timeseries.PostureScore(postureSamples),
		EyeContactData:       gazeSamples,
		PostureData:          postureSamples,
	}, nil
}

func (s *captureDomainImpl) lookup(sessionID string) (*capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cap, exists := s.captures[sessionID]
	if !exists {
		return nil, analysis.ErrCaptureNotRunning
	}
	return cap, nil
}
