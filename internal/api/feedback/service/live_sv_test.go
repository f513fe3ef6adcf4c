package feedbackService

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"PodiumBackend/internal/api/feedback"
	"PodiumBackend/pkg/redis"

	"github.com/sirupsen/logrus"
)

type fakeGemini struct {
	tip   string
	err   error
	calls int
}

func (f *fakeGemini) GenerateCoachingTip(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.tip, nil
}

type fakeCache struct {
	entries map[string]string
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) SetFeedback(ctx context.Context, key, value string, expiration time.Duration) error {
	f.entries[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) GetFeedback(ctx context.Context, key string) (string, error) {
	if v, ok := f.entries[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGenerateLiveFeedbackUsesCoach(t *testing.T) {
	t.Parallel()
	coach := &fakeGemini{tip: " Hold your gaze a beat longer. "}
	cache := newFakeCache()
	svc := New(testLogger(), coach, cache)

	res, err := svc.Live().GenerateLiveFeedback(context.Background(), feedback.LiveFeedbackRequest{
		EyeContactPercentage: 72, WordsPerMinute: 140, FillerWordsCount: 1, ElapsedSeconds: 120, Posture: "good",
	})
	if err != nil {
		t.Fatalf("generate feedback: %v", err)
	}
	if res.Source != "coach" {
		t.Fatalf("expected coach source, got %q", res.Source)
	}
	if res.Score != 100 {
		t.Fatalf("expected rule score 100, got %d", res.Score)
	}
	if res.Feedback != "Hold your gaze a beat longer." {
		t.Fatalf("expected trimmed tip, got %q", res.Feedback)
	}
	if cache.sets != 1 {
		t.Fatalf("expected tip cached once, got %d sets", cache.sets)
	}
}

func TestGenerateLiveFeedbackServesCachedTip(t *testing.T) {
	t.Parallel()
	coach := &fakeGemini{tip: "Fresh tip"}
	cache := newFakeCache()
	svc := New(testLogger(), coach, cache)

	req := feedback.LiveFeedbackRequest{EyeContactPercentage: 72, WordsPerMinute: 140, Posture: "good"}
	if _, err := svc.Live().GenerateLiveFeedback(context.Background(), req); err != nil {
		t.Fatalf("first call: %v", err)
	}

	res, err := svc.Live().GenerateLiveFeedback(context.Background(), req)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if res.Source != "cache" {
		t.Fatalf("expected cache source, got %q", res.Source)
	}
	if coach.calls != 1 {
		t.Fatalf("expected one model call, got %d", coach.calls)
	}
}

func TestGenerateLiveFeedbackBucketsCacheKey(t *testing.T) {
	t.Parallel()
	// 72% and 79% eye contact land in the same bucket; 72% and 65% do not.
	a := liveFeedbackCacheKey(feedback.LiveFeedbackRequest{EyeContactPercentage: 72, WordsPerMinute: 140, Posture: "good"})
	b := liveFeedbackCacheKey(feedback.LiveFeedbackRequest{EyeContactPercentage: 79, WordsPerMinute: 145, Posture: "good"})
	c := liveFeedbackCacheKey(feedback.LiveFeedbackRequest{EyeContactPercentage: 65, WordsPerMinute: 140, Posture: "good"})

	if a != b {
		t.Fatalf("expected shared bucket, got %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("expected distinct buckets, both %q", a)
	}
	if !strings.HasPrefix(a, "live_feedback:") {
		t.Fatalf("unexpected key format %q", a)
	}
}

func TestGenerateLiveFeedbackFallsBackToRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		req  feedback.LiveFeedbackRequest
		want string
	}{
		{"low eye contact wins", feedback.LiveFeedbackRequest{EyeContactPercentage: 30, WordsPerMinute: 200, FillerWordsCount: 9}, "Look at the camera more often to connect with your audience"},
		{"too fast", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 190}, "Slow down a little, let your points land"},
		{"too slow", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 90}, "Pick up the pace slightly to keep energy in your delivery"},
		{"fillers", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 140, FillerWordsCount: 6}, "Try pausing silently instead of using filler words"},
		{"slouching", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 140, Posture: "slouching"}, "Straighten up, an upright posture projects confidence"},
		{"all good", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 140, Posture: "good"}, "Great presence, keep it up"},
		{"silent start", feedback.LiveFeedbackRequest{EyeContactPercentage: 80, WordsPerMinute: 0, Posture: "good"}, "Great presence, keep it up"},
	}

	coach := &fakeGemini{err: errors.New("model overloaded")}
	svc := New(testLogger(), coach, nil)

	for _, tt := range tests {
		res, err := svc.Live().GenerateLiveFeedback(context.Background(), tt.req)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if res.Source != "rules" {
			t.Fatalf("%s: expected rules source, got %q", tt.name, res.Source)
		}
		if res.Feedback != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, res.Feedback)
		}
	}
}

func TestGenerateLiveFeedbackWithoutModelOrCache(t *testing.T) {
	t.Parallel()
	svc := New(testLogger(), nil, nil)

	res, err := svc.Live().GenerateLiveFeedback(context.Background(), feedback.LiveFeedbackRequest{EyeContactPercentage: 20})
	if err != nil {
		t.Fatalf("generate feedback: %v", err)
	}
	if res.Source != "rules" {
		t.Fatalf("expected rules source, got %q", res.Source)
	}
}
