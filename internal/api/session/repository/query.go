package sessionRepository

const (
	queryCreateSession = `
INSERT INTO practice_sessions (id, user_id, title, created_at)
VALUES (:id, :user_id, :title, :created_at)`

	queryGetSessionById = `
SELECT id, user_id, title, duration, transcript, filler_words, words_per_minute,
       eye_contact_percentage, posture_score, confidence_score, strengths,
       improvements, eye_contact_data, posture_data, audio_url, created_at, completed_at
FROM practice_sessions
    WHERE id = :id`

	queryListSessionsByUser = `
SELECT id, user_id, title, duration, transcript, filler_words, words_per_minute,
       eye_contact_percentage, posture_score, confidence_score, strengths,
       improvements, eye_contact_data, posture_data, audio_url, created_at, completed_at
FROM practice_sessions
    WHERE user_id = :user_id
ORDER BY created_at DESC`

	queryDeleteSession = `
DELETE FROM practice_sessions
    WHERE id = :id`

	queryCompleteSession = `
UPDATE practice_sessions
SET duration = :duration,
    transcript = :transcript,
    filler_words = :filler_words,
    words_per_minute = :words_per_minute,
    eye_contact_percentage = :eye_contact_percentage,
    posture_score = :posture_score,
    confidence_score = :confidence_score,
    strengths = :strengths,
    improvements = :improvements,
    eye_contact_data = :eye_contact_data,
    posture_data = :posture_data,
    audio_url = :audio_url,
    completed_at = :completed_at
WHERE id = :id`
)
