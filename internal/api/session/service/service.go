package sessionService

import (
	"PodiumBackend/internal/api/session"
	sessionRepository "PodiumBackend/internal/api/session/repository"
	"PodiumBackend/internal/entity"
	"PodiumBackend/pkg/audio"
	"PodiumBackend/pkg/openai"
	"PodiumBackend/pkg/s3"
	"PodiumBackend/pkg/smtp"
	"PodiumBackend/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
	"mime/multipart"
)

type SessionService interface {
	Sessions() SessionDomain
	GetRepository() sessionRepository.Repository
}

type SessionDomain interface {
	CreateSession(c context.Context, user entity.UserLoginData, req session.CreateSessionRequest) (session.SessionResponse, error)
	GetSession(c context.Context, user entity.UserLoginData, id string) (session.SessionResponse, error)
	ListSessions(c context.Context, user entity.UserLoginData) ([]session.SessionResponse, error)
	CompleteSession(c context.Context, user entity.UserLoginData, id string, req session.CompleteSessionRequest, audioFile *multipart.FileHeader) (session.SessionResponse, error)
	DeleteSession(c context.Context, user entity.UserLoginData, id string) error
}

type sessionService struct {
	log               *logrus.Logger
	sessionRepository sessionRepository.Repository

	sessionDomain SessionDomain
}

func (s *sessionService) Sessions() SessionDomain {
	return s.sessionDomain
}

func (s *sessionService) GetRepository() sessionRepository.Repository {
	return s.sessionRepository
}

type sessionDomainImpl struct {
	log         *logrus.Logger
	repo        sessionRepository.Repository
	s3Client    s3.ItfS3
	transcriber audio.ItfTranscription
	coach       openai.ICoach
	smtpMailer  smtp.ItfSmtp
	utils       utils.IUtils
}

func New(log *logrus.Logger,
	sessionRepo sessionRepository.Repository,
	s3Client s3.ItfS3,
	transcriber audio.ItfTranscription,
	coach openai.ICoach,
	smtpMailer smtp.ItfSmtp,
	utils utils.IUtils,
) SessionService {
	return &sessionService{
		log:               log,
		sessionRepository: sessionRepo,

		sessionDomain: &sessionDomainImpl{
			log:         log,
			repo:        sessionRepo,
			s3Client:    s3Client,
			transcriber: transcriber,
			coach:       coach,
			smtpMailer:  smtpMailer,
			utils:       utils,
		},
	}
}
