package feedbackService

import (
	"PodiumBackend/internal/analysis/scoring"
	"PodiumBackend/internal/api/feedback"
	contextPkg "PodiumBackend/pkg/context"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	feedbackCacheTTL = 5 * time.Minute

	sourceCoach = "coach"
	sourceCache = "cache"
	sourceRules = "rules"
)

func (s *liveDomainImpl) GenerateLiveFeedback(c context.Context, req feedback.LiveFeedbackRequest) (feedback.LiveFeedbackResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	cacheKey := liveFeedbackCacheKey(req)
	score := scoring.GenerateConfidenceScore(req.EyeContactPercentage, req.WordsPerMinute, req.FillerWordsCount, req.ElapsedSeconds)

	if s.redisServer != nil {
		if cached, err := s.redisServer.GetFeedback(c, cacheKey); err == nil && cached != "" {
			return feedback.LiveFeedbackResponse{Feedback: cached, Score: score, Source: sourceCache}, nil
		}
	}

	if s.geminiClient != nil {
		tip, err := s.geminiClient.GenerateCoachingTip(c, liveFeedbackPrompt(req))
		if err == nil {
			tip = strings.TrimSpace(tip)
			if s.redisServer != nil {
				if cacheErr := s.redisServer.SetFeedback(c, cacheKey, tip, feedbackCacheTTL); cacheErr != nil {
					s.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      cacheErr.Error(),
					}).Warn("Failed to cache live feedback")
				}
			}
			return feedback.LiveFeedbackResponse{Feedback: tip, Score: score, Source: sourceCoach}, nil
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Gemini feedback unavailable, falling back to rules")
	}

	return feedback.LiveFeedbackResponse{Feedback: ruleBasedFeedback(req), Score: score, Source: sourceRules}, nil
}

// liveFeedbackCacheKey buckets the metrics so near-identical readings share
// one cached tip instead of hammering the model every second.
func liveFeedbackCacheKey(req feedback.LiveFeedbackRequest) string {
	posture := req.Posture
	if posture == "" {
		posture = "unknown"
	}
	return fmt.Sprintf("live_feedback:%d:%d:%d:%s",
		req.EyeContactPercentage/10,
		req.WordsPerMinute/20,
		req.FillerWordsCount,
		posture,
	)
}

func liveFeedbackPrompt(req feedback.LiveFeedbackRequest) string {
	return fmt.Sprintf(`You are a public speaking coach watching a live practice session.
Current metrics: eye contact %d%%, pace %d words per minute, %d filler words so far, posture %q.
Give ONE short actionable tip (max 15 words). Plain text, no preamble.`,
		req.EyeContactPercentage, req.WordsPerMinute, req.FillerWordsCount, req.Posture)
}

// ruleBasedFeedback covers the model being down or unconfigured. Priority
// order: eye contact, pace, fillers, posture, then encouragement.
func ruleBasedFeedback(req feedback.LiveFeedbackRequest) string {
	switch {
	case req.EyeContactPercentage < 50:
		return "Look at the camera more often to connect with your audience"
	case req.WordsPerMinute > 180:
		return "Slow down a little, let your points land"
	case req.WordsPerMinute > 0 && req.WordsPerMinute < 110:
		return "Pick up the pace slightly to keep energy in your delivery"
	case req.FillerWordsCount > 5:
		return "Try pausing silently instead of using filler words"
	case req.Posture == "slouching" || req.Posture == "leaning":
		return "Straighten up, an upright posture projects confidence"
	default:
		return "Great presence, keep it up"
	}
}
