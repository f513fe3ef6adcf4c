package authService

import (
	"PodiumBackend/internal/api/auth"
	"PodiumBackend/internal/entity"
	contextPkg "PodiumBackend/pkg/context"
	"context"
	"github.com/sirupsen/logrus"
	"time"
)

func (s *userDomainImpl) RegisterUser(c context.Context, req auth.RegisterUserRequest) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return auth.UserResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate user id")
		return auth.UserResponse{}, err
	}

	user := entity.User{
		ID:       id,
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
	}

	if err := repo.Users.CreateUser(c, user); err != nil {
		return auth.UserResponse{}, err
	}

	created, err := repo.Users.GetByID(c, id)
	if err != nil {
		return auth.UserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User registered")

	return auth.UserResponse{
		ID:        created.ID,
		Email:     created.Email,
		Name:      created.Name,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}, nil
}

func (s *userDomainImpl) GetByID(c context.Context, id string) (entity.User, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.User{}, err
	}

	return repo.Users.GetByID(c, id)
}
