package main

import (
	"PodiumBackend/internal/config"
	"PodiumBackend/pkg/gemini"
	"PodiumBackend/pkg/log"
	"PodiumBackend/pkg/redis"
	"PodiumBackend/pkg/smtp"
	websocketPkg "PodiumBackend/pkg/websocket"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()
	smtpMailer := smtp.New()
	detectorClient := websocketPkg.NewDetectorClient()

	geminiClient, err := gemini.NewGeminiClient()
	if err != nil {
		logger.Warnf("Gemini unavailable, live feedback falls back to rules: %v", err)
	}

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithSMTPMailer(smtpMailer),
		config.WithDetectorClient(detectorClient),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithGeminiClient(geminiClient),
		config.WithTranscriber(),
		config.WithCoach(),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	detectorClient.CloseConnections()
}
