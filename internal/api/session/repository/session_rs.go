package sessionRepository

import (
	"PodiumBackend/internal/analysis/speech"
	"PodiumBackend/internal/analysis/timeseries"
	"PodiumBackend/internal/api/session"
	"PodiumBackend/internal/entity"
	contextPkg "PodiumBackend/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type PracticeSessionDB struct {
	ID                   sql.NullString  `db:"id"`
	UserID               sql.NullString  `db:"user_id"`
	Title                sql.NullString  `db:"title"`
	Duration             sql.NullInt64   `db:"duration"`
	Transcript           sql.NullString  `db:"transcript"`
	FillerWords          sql.NullString  `db:"filler_words"`
	WordsPerMinute       sql.NullInt64   `db:"words_per_minute"`
	EyeContactPercentage sql.NullInt64   `db:"eye_contact_percentage"`
	PostureScore         sql.NullFloat64 `db:"posture_score"`
	ConfidenceScore      sql.NullInt64   `db:"confidence_score"`
	Strengths            sql.NullString  `db:"strengths"`
	Improvements         sql.NullString  `db:"improvements"`
	EyeContactData       sql.NullString  `db:"eye_contact_data"`
	PostureData          sql.NullString  `db:"posture_data"`
	AudioURL             sql.NullString  `db:"audio_url"`
	CreatedAt            sql.NullTime    `db:"created_at"`
	CompletedAt          sql.NullTime    `db:"completed_at"`
}

func (r *sessionRepositoryImpl) CreateSession(c context.Context, sess entity.PracticeSession) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         sess.ID,
		"user_id":    sess.UserID,
		"title":      sess.Title,
		"created_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSession")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating practice session")
		return err
	}

	return nil
}

func (r *sessionRepositoryImpl) GetByID(c context.Context, id string) (entity.PracticeSession, error) {
	requestID := contextPkg.GetRequestID(c)
	var sess PracticeSessionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetSessionById, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.PracticeSession{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&sess); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("GetByID no practice session found")
			return entity.PracticeSession{}, session.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.PracticeSession{}, err
	}

	return r.makeSession(sess), nil
}

func (r *sessionRepositoryImpl) ListByUser(c context.Context, userID string) ([]entity.PracticeSession, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryListSessionsByUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser execution err")
		return nil, err
	}
	defer rows.Close()

	var sessions []entity.PracticeSession
	for rows.Next() {
		var sess PracticeSessionDB
		if err := rows.StructScan(&sess); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("ListByUser scan err")
			return nil, err
		}
		sessions = append(sessions, r.makeSession(sess))
	}

	return sessions, rows.Err()
}

func (r *sessionRepositoryImpl) CompleteSession(c context.Context, sess entity.PracticeSession) error {
	requestID := contextPkg.GetRequestID(c)

	fillerWordsJSON, err := json.Marshal(sess.FillerWords)
	if err != nil {
		return err
	}
	strengthsJSON, err := json.Marshal(sess.Strengths)
	if err != nil {
		return err
	}
	improvementsJSON, err := json.Marshal(sess.Improvements)
	if err != nil {
		return err
	}
	eyeContactJSON, err := json.Marshal(sess.EyeContactData)
	if err != nil {
		return err
	}
	postureJSON, err := json.Marshal(sess.PostureData)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":                     sess.ID,
		"duration":               sess.Duration,
		"transcript":             sess.Transcript,
		"filler_words":           string(fillerWordsJSON),
		"words_per_minute":       sess.WordsPerMinute,
		"eye_contact_percentage": sess.EyeContactPercentage,
		"posture_score":          sess.PostureScore,
		"confidence_score":       sess.ConfidenceScore,
		"strengths":              string(strengthsJSON),
		"improvements":           string(improvementsJSON),
		"eye_contact_data":       string(eyeContactJSON),
		"posture_data":           string(postureJSON),
		"audio_url":              sess.AudioURL,
		"completed_at":           time.Now(),
	}

	query, args, err := sqlx.Named(queryCompleteSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CompleteSession named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CompleteSession execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepositoryImpl) DeleteSession(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepositoryImpl) makeSession(sess PracticeSessionDB) entity.PracticeSession {
	result := entity.PracticeSession{
		ID:                   sess.ID.String,
		UserID:               sess.UserID.String,
		Title:                sess.Title.String,
		Duration:             int(sess.Duration.Int64),
		Transcript:           sess.Transcript.String,
		WordsPerMinute:       int(sess.WordsPerMinute.Int64),
		EyeContactPercentage: int(sess.EyeContactPercentage.Int64),
		PostureScore:         sess.PostureScore.Float64,
		ConfidenceScore:      int(sess.ConfidenceScore.Int64),
		AudioURL:             sess.AudioURL.String,
		CreatedAt:            sess.CreatedAt.Time,
		CompletedAt:          sess.CompletedAt.Time,
	}

	if sess.FillerWords.Valid && sess.FillerWords.String != "" {
		var fillerWords []speech.FillerWordCount
		if err := json.Unmarshal([]byte(sess.FillerWords.String), &fillerWords); err != nil {
			r.logCorruptColumn(sess.ID.String, "filler_words", err)
		}
		result.FillerWords = fillerWords
	}

	if sess.Strengths.Valid && sess.Strengths.String != "" {
		var strengths []string
		if err := json.Unmarshal([]byte(sess.Strengths.String), &strengths); err != nil {
			r.logCorruptColumn(sess.ID.String, "strengths", err)
		}
		result.Strengths = strengths
	}

	if sess.Improvements.Valid && sess.Improvements.String != "" {
		var improvements []string
		if err := json.Unmarshal([]byte(sess.Improvements.String), &improvements); err != nil {
			r.logCorruptColumn(sess.ID.String, "improvements", err)
		}
		result.Improvements = improvements
	}

	if sess.EyeContactData.Valid && sess.EyeContactData.String != "" {
		var eyeContact []timeseries.GazeSample
		if err := json.Unmarshal([]byte(sess.EyeContactData.String), &eyeContact); err != nil {
			r.logCorruptColumn(sess.ID.String, "eye_contact_data", err)
		}
		result.EyeContactData = eyeContact
	}

	if sess.PostureData.Valid && sess.PostureData.String != "" {
		var postureData []timeseries.PostureSample
		if err := json.Unmarshal([]byte(sess.PostureData.String), &postureData); err != nil {
			r.logCorruptColumn(sess.ID.String, "posture_data", err)
		}
		result.PostureData = postureData
	}

	return result
}

// logCorruptColumn records a metric blob that no longer parses. The row is
// still returned with that metric zeroed rather than failing the whole read.
func (r *sessionRepositoryImpl) logCorruptColumn(sessionID, column string, err error) {
	r.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"column":     column,
		"error":      err.Error(),
	}).Error("Stored session metric failed to unmarshal")
}
