package recorder

import (
	"sync"
	"time"

	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
	"PodiumBackend/internal/analysis/timeseries"

	"golang.org/x/net/context"
)

// Detector is the black-box ML collaborator. Implementations are injected
// explicitly; the recorder never reaches for process-wide state.
type Detector interface {
	// Estimate returns the face and pose detections for the current frame.
	// Either result may be nil when nothing was detected this tick.
	Estimate(ctx context.Context) (*gaze.FaceDetection, *posture.PoseDetection, error)
	// FrameSize reports the pixel dimensions of the capture surface.
	FrameSize() (width, height int)
}

// Tick is one normalized observation pair, stamped with elapsed seconds.
type Tick struct {
	Elapsed int
	Frame   gaze.FrameObservation
	Posture posture.Observation
}

// Recorder owns the time series for one recording session. It is
// single-writer: either the Run loop or explicit Append calls feed it,
// never both at once.
type Recorder struct {
	mu      sync.Mutex
	series  *timeseries.Series
	started time.Time
	busy    bool
}

func New() *Recorder {
	return &Recorder{
		series:  timeseries.NewSeries(),
		started: time.Now(),
	}
}

// Append records one tick into the series.
func (r *Recorder) Append(tick Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.series.AppendGaze(timeseries.GazeSample{
		Timestamp:     tick.Elapsed,
		HasEyeContact: tick.Frame.GazeForward,
	})
	r.series.AppendPosture(timeseries.PostureSample{
		Timestamp:  tick.Elapsed,
		Posture:    string(tick.Posture.Category),
		Confidence: float64(tick.Posture.Confidence),
	})
}

// Run drives the fixed-cadence analysis loop until the context is cancelled.
// A tick that fires while the previous detector call is still in flight is
// dropped rather than queued. Detector errors degrade to the neutral
// observation; the session never aborts on a bad frame.
func (r *Recorder) Run(ctx context.Context, detector Detector, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.tryAcquire() {
				continue
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				defer r.release()
				r.analyzeTick(ctx, detector)
			}()
		}
	}
}

func (r *Recorder) tryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	r.busy = true
	return true
}

func (r *Recorder) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

func (r *Recorder) analyzeTick(ctx context.Context, detector Detector) {
	elapsed := int(time.Since(r.started).Seconds())

	face, pose, err := detector.Estimate(ctx)
	if err != nil {
		face, pose = nil, nil
	}

	width, height := detector.FrameSize()
	r.Append(Tick{
		Elapsed: elapsed,
		Frame:   gaze.Normalize(face, width, height),
		Posture: posture.Classify(pose),
	})
}

// Finalize freezes the series and returns the aggregate report inputs.
// Idempotent: repeated calls see the same frozen samples.
func (r *Recorder) Finalize() ([]timeseries.GazeSample, []timeseries.PostureSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.series.Finalize()
}

func (r *Recorder) SampleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.series.Len()
}
