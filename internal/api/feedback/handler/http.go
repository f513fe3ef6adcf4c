package feedbackHandler

import (
	feedbackService "PodiumBackend/internal/api/feedback/service"
	"PodiumBackend/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FeedbackHandler struct {
	log             *logrus.Logger
	feedbackService feedbackService.FeedbackService
	validator       *validator.Validate
	middleware      middleware.Middleware
}

func New(
	log *logrus.Logger,
	fs feedbackService.FeedbackService,
	validate *validator.Validate,
	middleware middleware.Middleware) *FeedbackHandler {
	return &FeedbackHandler{
		log:             log,
		feedbackService: fs,
		validator:       validate,
		middleware:      middleware,
	}
}

func (h *FeedbackHandler) Start(srv fiber.Router) {
	feedback := srv.Group("/feedback")
	feedback.Post("/live", h.middleware.NewTokenMiddleware, h.HandleLiveFeedback)
}
