package posture

import "math"

// Keypoint names as reported by the pose detector.
const (
	KeypointNose          = "nose"
	KeypointLeftShoulder  = "left_shoulder"
	KeypointRightShoulder = "right_shoulder"
	KeypointLeftEar       = "left_ear"
	KeypointRightEar      = "right_ear"
	KeypointLeftHip       = "left_hip"
	KeypointRightHip      = "right_hip"
)

type Category string

const (
	CategoryGood      Category = "good"
	CategorySlouching Category = "slouching"
	CategoryLeaning   Category = "leaning"
	CategoryUnknown   Category = "unknown"
)

type HeadPosition string

const (
	HeadForward  HeadPosition = "forward"
	HeadTilted   HeadPosition = "tilted"
	HeadBackward HeadPosition = "backward"
)

// Scoring rubric. Historical reports depend on these exact values; any change
// is a new scoring policy version.
const (
	shoulderAlignedMax  = 35.0
	leaningShoulderDiff = 50.0
	headBackwardMin     = 80.0
	headTiltedMax       = -50.0
	backStraightMax     = 50.0

	baseConfidence     = 90
	backPenalty        = 15
	shoulderPenalty    = 12
	headPenalty        = 8
	minKnownConfidence = 60
)

type Keypoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

type PoseDetection struct {
	Keypoints []Keypoint `json:"keypoints"`
}

type Details struct {
	ShoulderAligned bool         `json:"shoulderAligned"`
	BackStraight    bool         `json:"backStraight"`
	HeadPosition    HeadPosition `json:"headPosition"`
}

// Observation is the per-frame posture judgment. Confidence is 0 exactly when
// the category is unknown; otherwise it stays within [60,90].
type Observation struct {
	Category     Category `json:"category"`
	Confidence   int      `json:"confidence"`
	Details      Details  `json:"details"`
	Improvements []string `json:"improvements"`
}

func unknownObservation(hint string) Observation {
	return Observation{
		Category:   CategoryUnknown,
		Confidence: 0,
		Details: Details{
			ShoulderAligned: false,
			BackStraight:    false,
			HeadPosition:    HeadForward,
		},
		Improvements: []string{hint},
	}
}

func (d *PoseDetection) keypoint(name string) (Keypoint, bool) {
	for _, kp := range d.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Classify applies the additive penalty rubric to one pose frame.
// A nil detection means no pose was found this tick.
func Classify(pose *PoseDetection) Observation {
	if pose == nil {
		return unknownObservation("Ensure you are visible to the camera")
	}

	leftShoulder, hasLS := pose.keypoint(KeypointLeftShoulder)
	rightShoulder, hasRS := pose.keypoint(KeypointRightShoulder)
	leftEar, hasLE := pose.keypoint(KeypointLeftEar)
	rightEar, hasRE := pose.keypoint(KeypointRightEar)

	if !hasLS || !hasRS || !hasLE || !hasRE {
		return unknownObservation("Position yourself clearly in front of the camera")
	}

	shoulderDiff := math.Abs(leftShoulder.Y - rightShoulder.Y)
	shoulderAligned := shoulderDiff < shoulderAlignedMax

	earAvg := (leftEar.Y + rightEar.Y) / 2
	shoulderAvg := (leftShoulder.Y + rightShoulder.Y) / 2
	headDiff := earAvg - shoulderAvg

	headPosition := HeadForward
	if headDiff > headBackwardMin {
		headPosition = HeadBackward
	} else if headDiff < headTiltedMax {
		headPosition = HeadTilted
	}

	backStraight := true
	leftHip, hasLH := pose.keypoint(KeypointLeftHip)
	rightHip, hasRH := pose.keypoint(KeypointRightHip)
	if hasLH && hasRH {
		torsoSkew := math.Abs((leftShoulder.Y - leftHip.Y) - (rightShoulder.Y - rightHip.Y))
		backStraight = torsoSkew < backStraightMax
	}

	category := CategoryGood
	confidence := baseConfidence
	var improvements []string

	if !backStraight {
		category = CategorySlouching
		confidence -= backPenalty
		improvements = append(improvements, "Keep your back straight")
	}

	if !shoulderAligned {
		if shoulderDiff > leaningShoulderDiff {
			category = CategoryLeaning
		} else {
			category = CategorySlouching
		}
		confidence -= shoulderPenalty
		improvements = append(improvements, "Keep your shoulders level")
	}

	if headPosition != HeadForward {
		confidence -= headPenalty
		if headPosition == HeadTilted {
			improvements = append(improvements, "Keep your head upright")
		} else {
			improvements = append(improvements, "Move your head slightly forward")
		}
	}

	if confidence < minKnownConfidence {
		confidence = minKnownConfidence
	}

	return Observation{
		Category:   category,
		Confidence: confidence,
		Details: Details{
			ShoulderAligned: shoulderAligned,
			BackStraight:    backStraight,
			HeadPosition:    headPosition,
		},
		Improvements: improvements,
	}
}
