package sessionService

import (
	"PodiumBackend/internal/analysis/scoring"
	"PodiumBackend/internal/analysis/speech"
	"PodiumBackend/internal/analysis/timeseries"
	"PodiumBackend/internal/api/session"
	"PodiumBackend/internal/entity"
	"PodiumBackend/pkg/audio"
	contextPkg "PodiumBackend/pkg/context"
	"PodiumBackend/pkg/openai"
	"context"
	"encoding/json"
	"errors"
	"github.com/sirupsen/logrus"
	"mime/multipart"
	"time"
)

func (s *sessionDomainImpl) CreateSession(c context.Context, user entity.UserLoginData, req session.CreateSessionRequest) (session.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return session.SessionResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session id")
		return session.SessionResponse{}, err
	}

	title := req.Title
	if title == "" {
		title = "Untitled Session"
	}

	sess := entity.PracticeSession{
		ID:     id,
		UserID: user.ID,
		Title:  title,
	}

	if err := repo.Sessions.CreateSession(c, sess); err != nil {
		return session.SessionResponse{}, err
	}

	created, err := repo.Sessions.GetByID(c, id)
	if err != nil {
		return session.SessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"user_id":    user.ID,
	}).Info("Practice session created")

	return makeSessionResponse(created, nil), nil
}

func (s *sessionDomainImpl) GetSession(c context.Context, user entity.UserLoginData, id string) (session.SessionResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return session.SessionResponse{}, err
	}

	sess, err := repo.Sessions.GetByID(c, id)
	if err != nil {
		return session.SessionResponse{}, err
	}

	if sess.UserID != user.ID {
		return session.SessionResponse{}, session.ErrSessionNotOwned
	}

	res := makeSessionResponse(sess, nil)
	if sess.AudioURL != "" {
		// The bucket is private; playback needs a short-lived signed URL.
		signed, err := s.s3Client.PresignUrl(sess.AudioURL)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(c),
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Failed to presign recording URL")
		} else {
			res.AudioURL = signed
		}
	}

	return res, nil
}

func (s *sessionDomainImpl) ListSessions(c context.Context, user entity.UserLoginData) ([]session.SessionResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	sessions, err := repo.Sessions.ListByUser(c, user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]session.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, makeSessionResponse(sess, nil))
	}

	return responses, nil
}

func (s *sessionDomainImpl) CompleteSession(c context.Context, user entity.UserLoginData, id string, req session.CompleteSessionRequest, audioFile *multipart.FileHeader) (session.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return session.SessionResponse{}, err
	}

	sess, err := repo.Sessions.GetByID(c, id)
	if err != nil {
		return session.SessionResponse{}, err
	}

	if sess.UserID != user.ID {
		return session.SessionResponse{}, session.ErrSessionNotOwned
	}

	if !sess.CompletedAt.IsZero() {
		return session.SessionResponse{}, session.ErrSessionAlreadyCompleted
	}

	gazeSamples, postureSamples, err := parseSeries(req)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to parse time series payload")
		return session.SessionResponse{}, session.ErrInvalidSeriesData
	}

	transcript, audioURL, sttError, err := s.processAudio(c, requestID, id, audioFile)
	if err != nil {
		return session.SessionResponse{}, err
	}

	fillerWords := speech.DetectFillerWords(transcript)
	fillerCount := speech.TotalFillerCount(fillerWords)
	wordsPerMinute := speech.CalculateWordsPerMinute(transcript, req.Duration)
	eyeContactPercentage := timeseries.EyeContactPercentage(gazeSamples)
	postureScore := timeseries.PostureScore(postureSamples)
	confidenceScore := scoring.GenerateConfidenceScore(eyeContactPercentage, wordsPerMinute, fillerCount, req.Duration)

	sess.Duration = req.Duration
	sess.Transcript = transcript
	sess.FillerWords = fillerWords
	sess.WordsPerMinute = wordsPerMinute
	sess.EyeContactPercentage = eyeContactPercentage
	sess.PostureScore = postureScore
	sess.ConfidenceScore = confidenceScore
	sess.Strengths = scoring.GenerateStrengths(eyeContactPercentage, wordsPerMinute, fillerCount, req.Duration)
	sess.Improvements = scoring.GenerateImprovements(eyeContactPercentage, wordsPerMinute, fillerCount)
	sess.EyeContactData = gazeSamples
	sess.PostureData = postureSamples
	sess.AudioURL = audioURL

	if err := repo.Sessions.CompleteSession(c, sess); err != nil {
		return session.SessionResponse{}, err
	}

	completed, err := repo.Sessions.GetByID(c, id)
	if err != nil {
		return session.SessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"session_id":       id,
		"confidence_score": confidenceScore,
	}).Info("Practice session completed")

	coachSummary := s.generateCoachSummary(c, requestID, completed)
	s.emailReport(c, requestID, user, completed)

	res := makeSessionResponse(completed, coachSummary)
	res.TranscriptionError = sttError
	return res, nil
}

func (s *sessionDomainImpl) DeleteSession(c context.Context, user entity.UserLoginData, id string) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	sess, err := repo.Sessions.GetByID(c, id)
	if err != nil {
		return err
	}

	if sess.UserID != user.ID {
		return session.ErrSessionNotOwned
	}

	if err := repo.Sessions.DeleteSession(c, id); err != nil {
		return err
	}

	// The recording is orphaned once the row is gone; removal is best-effort.
	if sess.AudioURL != "" {
		if err := s.s3Client.DeleteFile(sess.AudioURL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Failed to delete recording from storage")
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"user_id":    user.ID,
	}).Info("Practice session deleted")

	return nil
}

func parseSeries(req session.CompleteSessionRequest) ([]timeseries.GazeSample, []timeseries.PostureSample, error) {
	var gazeSamples []timeseries.GazeSample
	var postureSamples []timeseries.PostureSample

	if req.EyeContactData != "" {
		if err := json.Unmarshal([]byte(req.EyeContactData), &gazeSamples); err != nil {
			return nil, nil, err
		}
	}

	if req.PostureData != "" {
		if err := json.Unmarshal([]byte(req.PostureData), &postureSamples); err != nil {
			return nil, nil, err
		}
	}

	return gazeSamples, postureSamples, nil
}

// processAudio uploads and transcribes the recording. A bad or unuploadable
// file is a hard error; a transcription failure degrades to an empty
// transcript so the session still completes, with the cause surfaced to the
// client as sttError.
func (s *sessionDomainImpl) processAudio(c context.Context, requestID string, sessionID string, audioFile *multipart.FileHeader) (transcript string, audioURL string, sttError string, err error) {
	if audioFile == nil {
		return "", "", "", nil
	}

	if err := s.utils.ValidateAudioFile(audioFile); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected audio file")
		return "", "", "", session.ErrInvalidAudioFile
	}

	audioURL, err = s.s3Client.UploadRecording(sessionID, audioFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload recording")
		return "", "", "", session.ErrFailedToUploadAudio
	}

	src, err := audioFile.Open()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to open audio file for transcription")
		return "", audioURL, "failed to read audio file", nil
	}
	defer src.Close()

	text, err := s.transcriber.TranscribeAudio(c, audioFile.Filename, src)
	if err != nil {
		if errors.Is(err, audio.ErrNotConfigured) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Info("Transcription skipped, service not configured")
			return "", audioURL, "transcription service not configured", nil
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Transcription failed, continuing without transcript")
		return "", audioURL, "transcription failed", nil
	}

	return text, audioURL, "", nil
}

func (s *sessionDomainImpl) generateCoachSummary(c context.Context, requestID string, sess entity.PracticeSession) *session.CoachSummaryResponse {
	if s.coach == nil {
		return nil
	}

	coachCtx, cancel := context.WithTimeout(c, 15*time.Second)
	defer cancel()

	summary, err := s.coach.GenerateSessionSummary(coachCtx, openai.SessionMetrics{
		Title:                sess.Title,
		Duration:             sess.Duration,
		WordsPerMinute:       sess.WordsPerMinute,
		EyeContactPercentage: sess.EyeContactPercentage,
		FillerWordsCount:     speech.TotalFillerCount(sess.FillerWords),
		ConfidenceScore:      sess.ConfidenceScore,
		Transcript:           sess.Transcript,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Coach summary unavailable")
		return nil
	}

	return &session.CoachSummaryResponse{
		Summary:          summary.Summary,
		KeyInsight:       summary.KeyInsight,
		RecommendedDrill: summary.RecommendedDrill,
	}
}

// emailReport is best effort. A mail failure never fails the completion.
func (s *sessionDomainImpl) emailReport(c context.Context, requestID string, user entity.UserLoginData, sess entity.PracticeSession) {
	if s.smtpMailer == nil {
		return
	}

	err := s.smtpMailer.SendSessionReport(user.Email, user.Name, sess.Title, sess.ConfidenceScore, sess.Strengths, sess.Improvements)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to email session report")
	}
}

func makeSessionResponse(sess entity.PracticeSession, coachSummary *session.CoachSummaryResponse) session.SessionResponse {
	res := session.SessionResponse{
		ID:                   sess.ID,
		UserID:               sess.UserID,
		Title:                sess.Title,
		Duration:             sess.Duration,
		Transcript:           sess.Transcript,
		FillerWords:          sess.FillerWords,
		WordsPerMinute:       sess.WordsPerMinute,
		EyeContactPercentage: sess.EyeContactPercentage,
		PostureScore:         sess.PostureScore,
		ConfidenceScore:      sess.ConfidenceScore,
		Strengths:            sess.Strengths,
		Improvements:         sess.Improvements,
		EyeContactData:       sess.EyeContactData,
		PostureData:          sess.PostureData,
		AudioURL:             sess.AudioURL,
		CreatedAt:            sess.CreatedAt,
		CoachSummary:         coachSummary,
	}

	if !sess.CompletedAt.IsZero() {
		completedAt := sess.CompletedAt
		res.CompletedAt = &completedAt
	}

	return res
}
