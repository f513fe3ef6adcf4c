package feedbackService

import (
	"PodiumBackend/internal/api/feedback"
	"PodiumBackend/pkg/gemini"
	"PodiumBackend/pkg/redis"
	"context"

	"github.com/sirupsen/logrus"
)

type FeedbackService interface {
	Live() LiveDomain
}

type LiveDomain interface {
	GenerateLiveFeedback(c context.Context, req feedback.LiveFeedbackRequest) (feedback.LiveFeedbackResponse, error)
}

type feedbackService struct {
	liveDomain LiveDomain
}

func (f *feedbackService) Live() LiveDomain {
	return f.liveDomain
}

func New(log *logrus.Logger, geminiClient gemini.IGemini, redisServer redis.IRedis) FeedbackService {
	return &feedbackService{
		liveDomain: &liveDomainImpl{
			log:          log,
			geminiClient: geminiClient,
			redisServer:  redisServer,
		},
	}
}

type liveDomainImpl struct {
	log          *logrus.Logger
	geminiClient gemini.IGemini
	redisServer  redis.IRedis
}
