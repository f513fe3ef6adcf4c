package gaze

import "math"

// Keypoint names as reported by the face landmark detector.
const (
	KeypointLeftEye  = "leftEye"
	KeypointRightEye = "rightEye"
	KeypointNoseTip  = "noseTip"
)

type Position string

const (
	PositionCenter   Position = "center"
	PositionLeft     Position = "left"
	PositionRight    Position = "right"
	PositionTooClose Position = "too-close"
	PositionTooFar   Position = "too-far"
)

type HeadTilt string

const (
	TiltStraight HeadTilt = "straight"
	TiltLeft     HeadTilt = "left"
	TiltRight    HeadTilt = "right"
	TiltUp       HeadTilt = "up"
	TiltDown     HeadTilt = "down"
)

// Empirically chosen lenient thresholds, in detector pixel space unless noted.
const (
	minBoxFrameRatio    = 0.05 // box must cover 5% of the frame in either dimension
	frameMarginLow      = -0.5 // normalized center bounds for the lenient in-frame test
	frameMarginHigh     = 1.5
	tooFarEyeDistance   = 30.0
	tooCloseEyeDistance = 120.0
	leftPositionBound   = 0.25 // normalized eye-center-x buckets
	rightPositionBound  = 0.75
	sideTiltThreshold   = 20.0 // vertical eye misalignment
	pitchTiltThreshold  = 40.0 // eye-center vs nose vertical offset
	gazeHorizontalMax   = 70.0
	gazeVerticalMax     = 90.0
	gazeMisalignMax     = 25.0
)

type Keypoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

// BoundingBox is normalized to [0,1] relative to the frame.
type BoundingBox struct {
	XCenter float64 `json:"xCenter"`
	YCenter float64 `json:"yCenter"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

type FaceDetection struct {
	Keypoints []Keypoint   `json:"keypoints"`
	Box       *BoundingBox `json:"box,omitempty"`
}

// FrameObservation is the per-frame judgment derived from one detector result.
// When HasFace is false every other field holds its neutral value.
type FrameObservation struct {
	HasFace     bool     `json:"hasFace"`
	IsInFrame   bool     `json:"isInFrame"`
	GazeForward bool     `json:"gazeForward"`
	Position    Position `json:"position"`
	HeadTilt    HeadTilt `json:"headTilt"`
}

func neutralObservation() FrameObservation {
	return FrameObservation{
		HasFace:     false,
		IsInFrame:   false,
		GazeForward: false,
		Position:    PositionCenter,
		HeadTilt:    TiltStraight,
	}
}

func (d *FaceDetection) keypoint(name string) (Keypoint, bool) {
	for _, kp := range d.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Normalize converts a single detector result into a FrameObservation.
// A nil detection means no face was found this tick.
func Normalize(det *FaceDetection, frameWidth, frameHeight int) FrameObservation {
	if det == nil {
		return neutralObservation()
	}

	obs := neutralObservation()
	obs.HasFace = true
	obs.IsInFrame = isInFrame(det)

	leftEye, hasLeft := det.keypoint(KeypointLeftEye)
	rightEye, hasRight := det.keypoint(KeypointRightEye)
	nose, hasNose := det.keypoint(KeypointNoseTip)

	if !hasLeft || !hasRight {
		obs.Position = fallbackPosition(det, nose, hasNose, frameWidth)
		return obs
	}

	eyeCenterX := (leftEye.X + rightEye.X) / 2
	eyeCenterY := (leftEye.Y + rightEye.Y) / 2
	eyeDistance := math.Abs(rightEye.X - leftEye.X)
	eyeMisalign := math.Abs(rightEye.Y - leftEye.Y)

	obs.Position = position(eyeDistance, eyeCenterX, frameWidth)
	obs.HeadTilt = headTilt(leftEye, rightEye, eyeCenterY, nose, hasNose, eyeMisalign)

	if hasNose {
		horizontal := math.Abs(eyeCenterX - nose.X)
		vertical := math.Abs(eyeCenterY - nose.Y)
		obs.GazeForward = horizontal < gazeHorizontalMax &&
			vertical < gazeVerticalMax &&
			eyeMisalign < gazeMisalignMax
	} else {
		// No nose landmark: level eyes at a plausible separation still
		// count as forward.
		obs.GazeForward = eyeDistance > tooFarEyeDistance &&
			eyeMisalign < sideTiltThreshold
	}

	return obs
}

// isInFrame applies the lenient in-frame test: any keypoints count as in-frame,
// otherwise the bounding box must cover enough of the frame or sit near it.
func isInFrame(det *FaceDetection) bool {
	if len(det.Keypoints) > 0 {
		return true
	}
	if det.Box == nil {
		return false
	}
	if det.Box.Width >= minBoxFrameRatio || det.Box.Height >= minBoxFrameRatio {
		return true
	}
	return det.Box.XCenter >= frameMarginLow && det.Box.XCenter <= frameMarginHigh &&
		det.Box.YCenter >= frameMarginLow && det.Box.YCenter <= frameMarginHigh
}

func position(eyeDistance, eyeCenterX float64, frameWidth int) Position {
	if eyeDistance < tooFarEyeDistance {
		return PositionTooFar
	}
	if eyeDistance > tooCloseEyeDistance {
		return PositionTooClose
	}
	return bucketX(normalizeX(eyeCenterX, frameWidth))
}

// fallbackPosition estimates posing from the nose or bounding box when the
// eye landmarks are unavailable.
func fallbackPosition(det *FaceDetection, nose Keypoint, hasNose bool, frameWidth int) Position {
	if hasNose {
		return bucketX(normalizeX(nose.X, frameWidth))
	}
	if det.Box != nil {
		return bucketX(det.Box.XCenter)
	}
	return PositionCenter
}

func normalizeX(x float64, frameWidth int) float64 {
	if frameWidth <= 0 {
		return 0.5
	}
	return x / float64(frameWidth)
}

func bucketX(normalized float64) Position {
	if normalized < leftPositionBound {
		return PositionLeft
	}
	if normalized > rightPositionBound {
		return PositionRight
	}
	return PositionCenter
}

func headTilt(leftEye, rightEye Keypoint, eyeCenterY float64, nose Keypoint, hasNose bool, eyeMisalign float64) HeadTilt {
	if eyeMisalign > sideTiltThreshold {
		// Tilt toward whichever eye sits lower in the frame.
		if leftEye.Y > rightEye.Y {
			return TiltLeft
		}
		return TiltRight
	}
	if hasNose {
		diff := eyeCenterY - nose.Y
		if diff < -pitchTiltThreshold {
			return TiltUp
		}
		if diff > pitchTiltThreshold {
			return TiltDown
		}
	}
	return TiltStraight
}
