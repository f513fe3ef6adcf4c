package config

import (
	"PodiumBackend/database/postgres"
	analysisHandler "PodiumBackend/internal/api/analysis/handler"
	analysisService "PodiumBackend/internal/api/analysis/service"
	authHandler "PodiumBackend/internal/api/auth/handler"
	authRepository "PodiumBackend/internal/api/auth/repository"
	authService "PodiumBackend/internal/api/auth/service"
	feedbackHandler "PodiumBackend/internal/api/feedback/handler"
	feedbackService "PodiumBackend/internal/api/feedback/service"
	sessionHandler "PodiumBackend/internal/api/session/handler"
	sessionRepository "PodiumBackend/internal/api/session/repository"
	sessionService "PodiumBackend/internal/api/session/service"
	"PodiumBackend/internal/middleware"
	"PodiumBackend/pkg/audio"
	"PodiumBackend/pkg/bcrypt"
	"PodiumBackend/pkg/gemini"
	"PodiumBackend/pkg/openai"
	"PodiumBackend/pkg/redis"
	"PodiumBackend/pkg/s3"
	"PodiumBackend/pkg/smtp"
	"PodiumBackend/pkg/utils"
	websocketPkg "PodiumBackend/pkg/websocket"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	redisServer    redis.IRedis
	smtpMailer     smtp.ItfSmtp
	detectorClient websocketPkg.IWebsocket
	geminiClient   gemini.IGemini
	s3Client       s3.ItfS3
	transcriber    audio.ItfTranscription
	coach          openai.ICoach
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithDetectorClient(detectorClient websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.detectorClient = detectorClient
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithGeminiClient(geminiClient gemini.IGemini) ServerOption {
	return func(s *Server) error {
		s.geminiClient = geminiClient
		return nil
	}
}

func WithTranscriber() ServerOption {
	return func(s *Server) error {
		s.transcriber = audio.NewTranscriptionService(os.Getenv("OPENAI_API_KEY"))
		return nil
	}
}

func WithCoach() ServerOption {
	return func(s *Server) error {
		s.coach = openai.NewCoach()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Practice Sessions
	sessionRepo := sessionRepository.New(s.db, s.log)
	sessionServices := sessionService.New(s.log, sessionRepo, s.s3Client, s.transcriber, s.coach, s.smtpMailer, s.utils)
	sessionHandlers := sessionHandler.New(s.log, sessionServices, s.validator, s.middleware)

	// Frame Analysis
	analysisServices := analysisService.New(s.log, s.detectorClient)
	analysisHandlers := analysisHandler.New(s.log, analysisServices, s.validator, s.middleware)

	// Live Feedback
	feedbackServices := feedbackService.New(s.log, s.geminiClient, s.redisServer)
	feedbackHandlers := feedbackHandler.New(s.log, feedbackServices, s.validator, s.middleware)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, sessionHandlers, analysisHandlers, feedbackHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewRateLimiter)
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.detectorClient != nil {
			s.detectorClient.CloseConnections()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
