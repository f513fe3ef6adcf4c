package gaze

import "testing"

func forwardFace() *FaceDetection {
	return &FaceDetection{
		Keypoints: []Keypoint{
			{X: 280, Y: 200, Name: KeypointLeftEye},
			{X: 360, Y: 205, Name: KeypointRightEye},
			{X: 320, Y: 240, Name: KeypointNoseTip},
		},
	}
}

func TestNormalizeNoFace(t *testing.T) {
	t.Parallel()
	obs := Normalize(nil, 640, 480)

	if obs.HasFace || obs.IsInFrame || obs.GazeForward {
		t.Fatalf("expected neutral observation, got %+v", obs)
	}
	if obs.Position != PositionCenter || obs.HeadTilt != TiltStraight {
		t.Fatalf("neutral fields not defaulted: %+v", obs)
	}
}

func TestNormalizeForwardFace(t *testing.T) {
	t.Parallel()
	obs := Normalize(forwardFace(), 640, 480)

	if !obs.HasFace || !obs.IsInFrame {
		t.Fatalf("expected face in frame, got %+v", obs)
	}
	if !obs.GazeForward {
		t.Fatalf("expected gaze forward, got %+v", obs)
	}
	if obs.Position != PositionCenter {
		t.Fatalf("expected center position, got %s", obs.Position)
	}
	if obs.HeadTilt != TiltStraight {
		t.Fatalf("expected straight tilt, got %s", obs.HeadTilt)
	}
}

func TestNormalizeMissingEyesFallsBack(t *testing.T) {
	t.Parallel()
	det := &FaceDetection{
		Keypoints: []Keypoint{{X: 100, Y: 240, Name: KeypointNoseTip}},
	}
	obs := Normalize(det, 640, 480)

	if !obs.HasFace || !obs.IsInFrame {
		t.Fatalf("face with keypoints must count as in-frame: %+v", obs)
	}
	if obs.GazeForward {
		t.Fatal("gaze must not be forward without eye landmarks")
	}
	if obs.Position != PositionLeft {
		t.Fatalf("nose at x=100/640 should bucket left, got %s", obs.Position)
	}
}

func TestNormalizeMissingNoseUsesEyesOnly(t *testing.T) {
	t.Parallel()
	det := &FaceDetection{
		Keypoints: []Keypoint{
			{X: 280, Y: 200, Name: KeypointLeftEye},
			{X: 360, Y: 205, Name: KeypointRightEye},
		},
	}
	obs := Normalize(det, 640, 480)
	if !obs.GazeForward {
		t.Fatalf("level, well-separated eyes should read forward without a nose: %+v", obs)
	}

	// Strongly misaligned eyes fail the eyes-only estimate.
	det.Keypoints[1].Y = 240
	if Normalize(det, 640, 480).GazeForward {
		t.Fatal("misaligned eyes must not read forward")
	}

	// Eyes too close together suggest the face is too far for a call.
	det.Keypoints[1] = Keypoint{X: 300, Y: 200, Name: KeypointRightEye}
	if Normalize(det, 640, 480).GazeForward {
		t.Fatal("tightly spaced eyes must not read forward")
	}
}

func TestNormalizePositionBuckets(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		leftX   float64
		rightX  float64
		want    Position
	}{
		{"too far", 300, 320, PositionTooFar},
		{"too close", 200, 350, PositionTooClose},
		{"left", 40, 120, PositionLeft},
		{"right", 520, 600, PositionRight},
		{"center", 280, 360, PositionCenter},
	}

	for _, tt := range tests {
		det := &FaceDetection{
			Keypoints: []Keypoint{
				{X: tt.leftX, Y: 200, Name: KeypointLeftEye},
				{X: tt.rightX, Y: 200, Name: KeypointRightEye},
				{X: (tt.leftX + tt.rightX) / 2, Y: 240, Name: KeypointNoseTip},
			},
		}
		if got := Normalize(det, 640, 480).Position; got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestNormalizeHeadTilt(t *testing.T) {
	t.Parallel()

	// Left eye lower than right by more than the side-tilt threshold.
	det := forwardFace()
	det.Keypoints[0].Y = 230
	if got := Normalize(det, 640, 480).HeadTilt; got != TiltLeft {
		t.Fatalf("expected left tilt, got %s", got)
	}

	det = forwardFace()
	det.Keypoints[1].Y = 235
	if got := Normalize(det, 640, 480).HeadTilt; got != TiltRight {
		t.Fatalf("expected right tilt, got %s", got)
	}

	// Eyes far above the nose tip.
	det = forwardFace()
	det.Keypoints[2].Y = 260
	if got := Normalize(det, 640, 480).HeadTilt; got != TiltUp {
		t.Fatalf("expected up tilt, got %s", got)
	}

	// Eyes below the nose tip.
	det = forwardFace()
	det.Keypoints[2].Y = 150
	if got := Normalize(det, 640, 480).HeadTilt; got != TiltDown {
		t.Fatalf("expected down tilt, got %s", got)
	}
}

func TestNormalizeGazeOffCenter(t *testing.T) {
	t.Parallel()
	det := forwardFace()
	det.Keypoints[2].X = 420 // nose far from eye center horizontally

	if Normalize(det, 640, 480).GazeForward {
		t.Fatal("expected gaze not forward with large horizontal offset")
	}
}

func TestIsInFrameBoxOnly(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		box  BoundingBox
		want bool
	}{
		{"large box", BoundingBox{XCenter: 0.5, YCenter: 0.5, Width: 0.3, Height: 0.3}, true},
		{"tiny box near frame", BoundingBox{XCenter: 1.2, YCenter: 0.5, Width: 0.01, Height: 0.01}, true},
		{"tiny box far outside", BoundingBox{XCenter: 3.0, YCenter: 0.5, Width: 0.01, Height: 0.01}, false},
	}

	for _, tt := range tests {
		det := &FaceDetection{Box: &tt.box}
		if got := Normalize(det, 640, 480).IsInFrame; got != tt.want {
			t.Fatalf("%s: expected in-frame=%v, got %v", tt.name, tt.want, got)
		}
	}
}
