package sessionRepository

import (
	"PodiumBackend/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepositoryImpl{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Sessions interface {
		CreateSession(ctx context.Context, session entity.PracticeSession) error
		GetByID(ctx context.Context, id string) (entity.PracticeSession, error)
		ListByUser(ctx context.Context, userID string) ([]entity.PracticeSession, error)
		CompleteSession(ctx context.Context, session entity.PracticeSession) error
		DeleteSession(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type sessionRepositoryImpl struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
