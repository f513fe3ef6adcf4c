package timeseries

import "testing"

func TestEyeContactPercentage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		samples []GazeSample
		want    int
	}{
		{"empty", nil, 0},
		{"all contact", []GazeSample{{0, true}, {1, true}}, 100},
		{"none", []GazeSample{{0, false}, {1, false}}, 0},
		{"two thirds rounds up", []GazeSample{{0, true}, {1, true}, {2, false}}, 67},
		{"one third rounds down", []GazeSample{{0, true}, {1, false}, {2, false}}, 33},
	}

	for _, tt := range tests {
		got := EyeContactPercentage(tt.samples)
		if got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("%s: percentage out of bounds: %d", tt.name, got)
		}
	}
}

func TestPostureScore(t *testing.T) {
	t.Parallel()
	if got := PostureScore(nil); got != 0 {
		t.Fatalf("empty series must score 0, got %v", got)
	}

	samples := []PostureSample{
		{Timestamp: 0, Posture: "good", Confidence: 90},
		{Timestamp: 1, Posture: "slouching", Confidence: 78},
		{Timestamp: 2, Posture: "good", Confidence: 90},
	}
	if got := PostureScore(samples); got != 86 {
		t.Fatalf("expected 86, got %v", got)
	}
}

func TestSeriesAppendOrderAndDuplicates(t *testing.T) {
	t.Parallel()
	series := NewSeries()
	series.AppendGaze(GazeSample{Timestamp: 1, HasEyeContact: true})
	series.AppendGaze(GazeSample{Timestamp: 1, HasEyeContact: false})
	series.AppendGaze(GazeSample{Timestamp: 2, HasEyeContact: true})

	gaze, _ := series.Finalize()
	if len(gaze) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(gaze))
	}
	if gaze[0].Timestamp != 1 || gaze[1].Timestamp != 1 || gaze[2].Timestamp != 2 {
		t.Fatalf("insertion order not preserved: %+v", gaze)
	}
}

func TestSeriesFrozenAfterFinalize(t *testing.T) {
	t.Parallel()
	series := NewSeries()
	series.AppendGaze(GazeSample{Timestamp: 0, HasEyeContact: true})

	gaze, _ := series.Finalize()
	series.AppendGaze(GazeSample{Timestamp: 1, HasEyeContact: false})

	again, _ := series.Finalize()
	if len(gaze) != 1 || len(again) != 1 {
		t.Fatalf("finalized series must not grow: %d then %d", len(gaze), len(again))
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	t.Parallel()
	samples := []GazeSample{{0, true}, {1, false}, {2, true}, {3, true}}

	first := EyeContactPercentage(samples)
	second := EyeContactPercentage(samples)
	if first != second {
		t.Fatalf("re-aggregation changed result: %d vs %d", first, second)
	}
}
