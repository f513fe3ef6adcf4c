package sessionHandler

import (
	sessionService "PodiumBackend/internal/api/session/service"
	"PodiumBackend/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SessionHandler struct {
	log            *logrus.Logger
	sessionService sessionService.SessionService
	validator      *validator.Validate
	middleware     middleware.Middleware
}

func New(
	log *logrus.Logger,
	ss sessionService.SessionService,
	validate *validator.Validate,
	middleware middleware.Middleware) *SessionHandler {
	return &SessionHandler{
		log:            log,
		sessionService: ss,
		validator:      validate,
		middleware:     middleware,
	}
}

func (h *SessionHandler) Start(srv fiber.Router) {
	sessions := srv.Group("/sessions")
	sessions.Post("/", h.middleware.NewTokenMiddleware, h.HandleCreateSession)
	sessions.Get("/", h.middleware.NewTokenMiddleware, h.HandleListSessions)
	sessions.Get("/:id", h.middleware.NewTokenMiddleware, h.HandleGetSession)
	sessions.Post("/:id/complete", h.middleware.NewTokenMiddleware, h.HandleCompleteSession)
	sessions.Delete("/:id", h.middleware.NewTokenMiddleware, h.HandleDeleteSession)
}
