package timeseries

import "math"

// GazeSample is one tick of the eye-contact series.
type GazeSample struct {
	Timestamp     int  `json:"timestamp"`
	HasEyeContact bool `json:"hasEyeContact"`
}

// PostureSample is one tick of the posture series.
type PostureSample struct {
	Timestamp  int     `json:"timestamp"`
	Posture    string  `json:"posture"`
	Confidence float64 `json:"confidence"`
}

// Series accumulates per-tick observations for one recording session.
// Append is the only mutator; samples keep insertion order and duplicate
// timestamps are allowed (they represent sampling cadence, not a keyed map).
type Series struct {
	gaze    []GazeSample
	posture []PostureSample
	frozen  bool
}

func NewSeries() *Series {
	return &Series{}
}

func (s *Series) AppendGaze(sample GazeSample) {
	if s.frozen {
		return
	}
	s.gaze = append(s.gaze, sample)
}

func (s *Series) AppendPosture(sample PostureSample) {
	if s.frozen {
		return
	}
	s.posture = append(s.posture, sample)
}

// Finalize freezes the series and returns the accumulated samples. Calling it
// again returns the same frozen data.
func (s *Series) Finalize() ([]GazeSample, []PostureSample) {
	s.frozen = true
	return s.gaze, s.posture
}

func (s *Series) Len() int {
	return len(s.gaze)
}

// EyeContactPercentage reduces a gaze series to a whole percentage.
// An empty series yields 0, never NaN.
func EyeContactPercentage(samples []GazeSample) int {
	if len(samples) == 0 {
		return 0
	}
	contact := 0
	for _, sample := range samples {
		if sample.HasEyeContact {
			contact++
		}
	}
	return int(math.Round(float64(contact) / float64(len(samples)) * 100))
}

// PostureScore averages posture confidence across the series, 0 when empty.
func PostureScore(samples []PostureSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += sample.Confidence
	}
	return math.Round(sum / float64(len(samples)))
}
