package analysisHandler

import (
	analysisService "PodiumBackend/internal/api/analysis/service"
	"PodiumBackend/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	analysisService analysisService.AnalysisService
	validator       *validator.Validate
	middleware      middleware.Middleware
}

func New(
	log *logrus.Logger,
	as analysisService.AnalysisService,
	validate *validator.Validate,
	middleware middleware.Middleware) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		analysisService: as,
		validator:       validate,
		middleware:      middleware,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	analysis := srv.Group("/analysis")
	analysis.Post("/frame", h.middleware.NewTokenMiddleware, h.HandleAnalyzeFrame)
	analysis.Post("/posture", h.middleware.NewTokenMiddleware, h.HandleAnalyzePosture)

	capture := analysis.Group("/capture")
	capture.Post("/:sessionId/start", h.middleware.NewTokenMiddleware, h.HandleStartCapture)
	capture.Post("/:sessionId/frame", h.middleware.NewTokenMiddleware, h.HandleSubmitFrame)
	capture.Get("/:sessionId", h.middleware.NewTokenMiddleware, h.HandleCaptureStatus)
	capture.Post("/:sessionId/stop", h.middleware.NewTokenMiddleware, h.HandleStopCapture)
}
