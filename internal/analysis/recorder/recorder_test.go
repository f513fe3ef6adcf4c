package recorder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
)

type stubDetector struct {
	face  *gaze.FaceDetection
	pose  *posture.PoseDetection
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (d *stubDetector) Estimate(ctx context.Context) (*gaze.FaceDetection, *posture.PoseDetection, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	return d.face, d.pose, d.err
}

func (d *stubDetector) FrameSize() (int, int) { return 640, 480 }

func forwardFace() *gaze.FaceDetection {
	return &gaze.FaceDetection{
		Keypoints: []gaze.Keypoint{
			{X: 280, Y: 200, Name: "leftEye"},
			{X: 360, Y: 205, Name: "rightEye"},
			{X: 320, Y: 240, Name: "noseTip"},
		},
		Box: &gaze.BoundingBox{XCenter: 320, YCenter: 240, Width: 200, Height: 220},
	}
}

func TestAppendFeedsBothSeries(t *testing.T) {
	t.Parallel()

	rec := New()
	rec.Append(Tick{
		Elapsed: 0,
		Frame:   gaze.FrameObservation{HasFace: true, IsInFrame: true, GazeForward: true},
		Posture: posture.Observation{Category: posture.CategoryGood, Confidence: 90},
	})
	rec.Append(Tick{
		Elapsed: 1,
		Frame:   gaze.FrameObservation{HasFace: false},
		Posture: posture.Observation{Category: posture.CategoryUnknown, Confidence: 0},
	})

	gazeSamples, postureSamples := rec.Finalize()
	if len(gazeSamples) != 2 || len(postureSamples) != 2 {
		t.Fatalf("sample counts = %d/%d, want 2/2", len(gazeSamples), len(postureSamples))
	}
	if !gazeSamples[0].HasEyeContact || gazeSamples[1].HasEyeContact {
		t.Fatalf("gaze samples = %+v, want [contact, no contact]", gazeSamples)
	}
	if postureSamples[0].Posture != "good" || postureSamples[1].Posture != "unknown" {
		t.Fatalf("posture samples = %+v", postureSamples)
	}
}

func TestRunRecordsUntilCancelled(t *testing.T) {
	t.Parallel()

	detector := &stubDetector{face: forwardFace()}
	rec := New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, detector, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if rec.SampleCount() == 0 {
		t.Fatal("no samples recorded")
	}

	gazeSamples, _ := rec.Finalize()
	for i, sample := range gazeSamples {
		if !sample.HasEyeContact {
			t.Fatalf("sample %d lost eye contact with a steady forward face", i)
		}
	}
}

func TestRunDegradesDetectorErrors(t *testing.T) {
	t.Parallel()

	detector := &stubDetector{err: errors.New("sidecar unreachable")}
	rec := New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, detector, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()
	<-done

	gazeSamples, postureSamples := rec.Finalize()
	if len(gazeSamples) == 0 {
		t.Fatal("errors should degrade to neutral samples, not halt the series")
	}
	for _, sample := range gazeSamples {
		if sample.HasEyeContact {
			t.Fatal("neutral sample must not report eye contact")
		}
	}
	for _, sample := range postureSamples {
		if sample.Posture != "unknown" || sample.Confidence != 0 {
			t.Fatalf("neutral posture sample = %+v", sample)
		}
	}
}

func TestRunDropsTicksWhileBusy(t *testing.T) {
	t.Parallel()

	detector := &stubDetector{face: forwardFace(), delay: 30 * time.Millisecond}
	rec := New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, detector, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	<-done

	// At a 5ms cadence a queueing loop would attempt ~24 calls; the slow
	// detector caps a dropping loop at roughly one call per 30ms.
	if calls := detector.calls.Load(); calls > 8 {
		t.Fatalf("detector called %d times, ticks are queueing instead of dropping", calls)
	}
}

func TestFinalizeFreezesSeries(t *testing.T) {
	t.Parallel()

	rec := New()
	rec.Append(Tick{Elapsed: 0, Frame: gaze.FrameObservation{GazeForward: true}})

	first, _ := rec.Finalize()
	rec.Append(Tick{Elapsed: 1, Frame: gaze.FrameObservation{GazeForward: true}})
	second, _ := rec.Finalize()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("finalized lengths = %d/%d, want 1/1", len(first), len(second))
	}
}
