package sessionService

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"PodiumBackend/internal/analysis/timeseries"
	"PodiumBackend/internal/api/session"
	sessionRepository "PodiumBackend/internal/api/session/repository"
	"PodiumBackend/internal/entity"
	"PodiumBackend/pkg/openai"

	"github.com/sirupsen/logrus"
)

type fakeSessionStore struct {
	sessions map[string]entity.PracticeSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]entity.PracticeSession)}
}

func (f *fakeSessionStore) NewClient(tx bool) (sessionRepository.Client, error) {
	return sessionRepository.Client{
		Sessions: f,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, sess entity.PracticeSession) error {
	sess.CreatedAt = time.Now()
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id string) (entity.PracticeSession, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return entity.PracticeSession{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeSessionStore) ListByUser(ctx context.Context, userID string) ([]entity.PracticeSession, error) {
	var out []entity.PracticeSession
	for _, sess := range f.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) CompleteSession(ctx context.Context, sess entity.PracticeSession) error {
	existing, ok := f.sessions[sess.ID]
	if !ok {
		return session.ErrSessionNotFound
	}
	sess.CreatedAt = existing.CreatedAt
	sess.CompletedAt = time.Now()
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return session.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

type fakeS3 struct {
	uploaded   int
	uploadErr  error
	presignErr error
	deleted    []string
}

func (f *fakeS3) UploadRecording(sessionID string, file *multipart.FileHeader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded++
	return "https://bucket.s3.amazonaws.com/recordings/" + sessionID + "/audio.webm", nil
}

func (f *fakeS3) PresignUrl(fileUrl string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fileUrl + "?X-Amz-Signature=test", nil
}

func (f *fakeS3) DeleteFile(fileUrl string) error {
	f.deleted = append(f.deleted, fileUrl)
	return nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) TranscribeAudio(ctx context.Context, fileName string, reader io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeCoach struct {
	summary *openai.SessionSummary
	err     error
	calls   int
}

func (f *fakeCoach) GenerateSessionSummary(ctx context.Context, metrics openai.SessionMetrics) (*openai.SessionSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakeMailer struct {
	sent int
	err  error
}

func (f *fakeMailer) SendSessionReport(userEmail, userName, title string, confidenceScore int, strengths, improvements []string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	return nil
}

type fakeUtils struct {
	nextID      int
	validateErr error
}

func (f *fakeUtils) NewULIDFromTimestamp(t time.Time) (string, error) {
	f.nextID++
	return string(rune('A' + f.nextID - 1)), nil
}

func (f *fakeUtils) ValidateAudioFile(file *multipart.FileHeader) error {
	return f.validateErr
}

type fixture struct {
	store   *fakeSessionStore
	s3      *fakeS3
	stt     *fakeTranscriber
	coach   *fakeCoach
	mailer  *fakeMailer
	utils   *fakeUtils
	service SessionService
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		store:  newFakeSessionStore(),
		s3:     &fakeS3{},
		stt:    &fakeTranscriber{},
		coach:  &fakeCoach{},
		mailer: &fakeMailer{},
		utils:  &fakeUtils{},
	}
	f.service = New(logger, f.store, f.s3, f.stt, f.coach, f.mailer, f.utils)
	return f
}

var testUser = entity.UserLoginData{ID: "user-1", Name: "Ada", Email: "ada@example.com"}

func audioFileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("webm-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["audio"][0]
}

func createSession(t *testing.T, f *fixture) session.SessionResponse {
	t.Helper()
	res, err := f.service.Sessions().CreateSession(context.Background(), testUser, session.CreateSessionRequest{Title: "Quarterly review"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return res
}

func TestCreateSessionAssignsID(t *testing.T) {
	t.Parallel()
	f := newFixture()

	res := createSession(t, f)
	if res.ID == "" {
		t.Fatal("expected generated session id")
	}
	if res.UserID != testUser.ID {
		t.Fatalf("expected owner %q, got %q", testUser.ID, res.UserID)
	}
	if res.CompletedAt != nil {
		t.Fatal("new session must not be completed")
	}

	untitled, err := f.service.Sessions().CreateSession(context.Background(), testUser, session.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("create untitled session: %v", err)
	}
	if untitled.Title != "Untitled Session" {
		t.Fatalf("expected default title, got %q", untitled.Title)
	}
}

func TestCompleteSessionComputesReport(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.stt.text = "Um I uh think like we should basically start"
	f.coach.summary = &openai.SessionSummary{Summary: "Nice work", KeyInsight: "Pace", RecommendedDrill: "Read aloud"}

	created := createSession(t, f)

	req := session.CompleteSessionRequest{
		Duration: 180,
		EyeContactData: `[{"timestamp":0,"hasEyeContact":true},{"timestamp":1,"hasEyeContact":true},
			{"timestamp":2,"hasEyeContact":true},{"timestamp":3,"hasEyeContact":true},
			{"timestamp":4,"hasEyeContact":false},{"timestamp":5,"hasEyeContact":true},
			{"timestamp":6,"hasEyeContact":true},{"timestamp":7,"hasEyeContact":true},
			{"timestamp":8,"hasEyeContact":false},{"timestamp":9,"hasEyeContact":true}]`,
		PostureData: `[{"timestamp":0,"posture":"good","confidence":90},{"timestamp":1,"posture":"slouching","confidence":70}]`,
	}

	res, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, audioFileHeader(t, "take.webm"))
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}

	if res.WordsPerMinute != 3 {
		t.Fatalf("expected 3 wpm, got %d", res.WordsPerMinute)
	}
	total := 0
	for _, fw := range res.FillerWords {
		total += fw.Count
	}
	if total != 4 {
		t.Fatalf("expected 4 filler words, got %d (%v)", total, res.FillerWords)
	}
	if res.EyeContactPercentage != 80 {
		t.Fatalf("expected 80%% eye contact, got %d", res.EyeContactPercentage)
	}
	if res.PostureScore != 80 {
		t.Fatalf("expected posture score 80, got %v", res.PostureScore)
	}
	if res.ConfidenceScore != 85 {
		t.Fatalf("expected confidence 85, got %d", res.ConfidenceScore)
	}
	if res.AudioURL == "" {
		t.Fatal("expected audio url after upload")
	}
	if res.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if len(res.Strengths) == 0 || len(res.Improvements) == 0 {
		t.Fatalf("expected non-empty strengths and improvements, got %v / %v", res.Strengths, res.Improvements)
	}
	if res.CoachSummary == nil || res.CoachSummary.Summary != "Nice work" {
		t.Fatalf("expected coach summary, got %+v", res.CoachSummary)
	}
	if res.TranscriptionError != "" {
		t.Fatalf("unexpected transcription error %q", res.TranscriptionError)
	}
	if f.mailer.sent != 1 {
		t.Fatalf("expected one report email, got %d", f.mailer.sent)
	}
}

func TestCompleteSessionRejectsForeignSession(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	intruder := entity.UserLoginData{ID: "user-2", Name: "Eve", Email: "eve@example.com"}
	_, err := f.service.Sessions().CompleteSession(context.Background(), intruder, created.ID, session.CompleteSessionRequest{Duration: 60}, nil)
	if !errors.Is(err, session.ErrSessionNotOwned) {
		t.Fatalf("expected ErrSessionNotOwned, got %v", err)
	}
}

func TestCompleteSessionRejectsSecondCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	req := session.CompleteSessionRequest{Duration: 60}
	if _, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, nil); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	_, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, nil)
	if !errors.Is(err, session.ErrSessionAlreadyCompleted) {
		t.Fatalf("expected ErrSessionAlreadyCompleted, got %v", err)
	}
}

func TestCompleteSessionRejectsMalformedSeries(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	req := session.CompleteSessionRequest{Duration: 60, EyeContactData: "{not json"}
	_, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, nil)
	if !errors.Is(err, session.ErrInvalidSeriesData) {
		t.Fatalf("expected ErrInvalidSeriesData, got %v", err)
	}
}

func TestCompleteSessionRejectsInvalidAudio(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.utils.validateErr = errors.New("bad extension")
	created := createSession(t, f)

	_, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, session.CompleteSessionRequest{Duration: 60}, audioFileHeader(t, "notes.txt"))
	if !errors.Is(err, session.ErrInvalidAudioFile) {
		t.Fatalf("expected ErrInvalidAudioFile, got %v", err)
	}
	if f.s3.uploaded != 0 {
		t.Fatal("rejected audio must not be uploaded")
	}
}

func TestCompleteSessionFailsWhenUploadFails(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.s3.uploadErr = errors.New("bucket down")
	created := createSession(t, f)

	_, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, session.CompleteSessionRequest{Duration: 60}, audioFileHeader(t, "take.webm"))
	if !errors.Is(err, session.ErrFailedToUploadAudio) {
		t.Fatalf("expected ErrFailedToUploadAudio, got %v", err)
	}
}

func TestCompleteSessionDegradesTranscriptionFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.stt.err = errors.New("whisper timeout")
	created := createSession(t, f)

	res, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, session.CompleteSessionRequest{Duration: 60}, audioFileHeader(t, "take.webm"))
	if err != nil {
		t.Fatalf("completion should survive transcription failure: %v", err)
	}
	if res.Transcript != "" {
		t.Fatalf("expected empty transcript, got %q", res.Transcript)
	}
	if res.WordsPerMinute != 0 {
		t.Fatalf("expected 0 wpm without transcript, got %d", res.WordsPerMinute)
	}
	if res.AudioURL == "" {
		t.Fatal("upload should still be recorded")
	}
	if res.TranscriptionError != "transcription failed" {
		t.Fatalf("expected surfaced transcription error, got %q", res.TranscriptionError)
	}
}

func TestCompleteSessionWithoutAudio(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	res, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, session.CompleteSessionRequest{Duration: 90}, nil)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if res.AudioURL != "" || res.Transcript != "" {
		t.Fatalf("expected no audio artifacts, got url=%q transcript=%q", res.AudioURL, res.Transcript)
	}
	if f.s3.uploaded != 0 {
		t.Fatal("no upload expected without an audio part")
	}
}

func TestCompleteSessionSurvivesCoachOutage(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.coach.err = errors.New("model overloaded")
	created := createSession(t, f)

	res, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, session.CompleteSessionRequest{Duration: 60}, nil)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if res.CoachSummary != nil {
		t.Fatalf("expected nil coach summary, got %+v", res.CoachSummary)
	}
}

func TestGetSessionEnforcesOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	intruder := entity.UserLoginData{ID: "user-2"}
	if _, err := f.service.Sessions().GetSession(context.Background(), intruder, created.ID); !errors.Is(err, session.ErrSessionNotOwned) {
		t.Fatalf("expected ErrSessionNotOwned, got %v", err)
	}

	if _, err := f.service.Sessions().GetSession(context.Background(), testUser, "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestCompleteSessionPersistsSeries(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	req := session.CompleteSessionRequest{
		Duration:       60,
		EyeContactData: `[{"timestamp":0,"hasEyeContact":true}]`,
		PostureData:    `[{"timestamp":0,"posture":"good","confidence":85}]`,
	}
	res, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, nil)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}

	wantGaze := []timeseries.GazeSample{{Timestamp: 0, HasEyeContact: true}}
	if len(res.EyeContactData) != 1 || res.EyeContactData[0] != wantGaze[0] {
		t.Fatalf("expected gaze series %v, got %v", wantGaze, res.EyeContactData)
	}
	if len(res.PostureData) != 1 || res.PostureData[0].Posture != "good" {
		t.Fatalf("expected posture series persisted, got %v", res.PostureData)
	}
}

func TestGetSessionPresignsAudioURL(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	req := session.CompleteSessionRequest{
		Duration:       60,
		EyeContactData: `[]`,
	}
	if _, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, audioFileHeader(t, "take.webm")); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	res, err := f.service.Sessions().GetSession(context.Background(), testUser, created.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !strings.Contains(res.AudioURL, "X-Amz-Signature") {
		t.Fatalf("expected presigned audio url, got %q", res.AudioURL)
	}

	// Presign outages degrade to the stored URL instead of failing the read.
	f.s3.presignErr = errors.New("s3 down")
	res, err = f.service.Sessions().GetSession(context.Background(), testUser, created.ID)
	if err != nil {
		t.Fatalf("get session with presign outage: %v", err)
	}
	if res.AudioURL == "" || strings.Contains(res.AudioURL, "X-Amz-Signature") {
		t.Fatalf("expected stored url fallback, got %q", res.AudioURL)
	}
}

func TestDeleteSessionRemovesRecording(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	req := session.CompleteSessionRequest{
		Duration:       60,
		EyeContactData: `[]`,
	}
	if _, err := f.service.Sessions().CompleteSession(context.Background(), testUser, created.ID, req, audioFileHeader(t, "take.webm")); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	if err := f.service.Sessions().DeleteSession(context.Background(), testUser, created.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := f.service.Sessions().GetSession(context.Background(), testUser, created.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if len(f.s3.deleted) != 1 || !strings.Contains(f.s3.deleted[0], created.ID) {
		t.Fatalf("expected recording deleted from storage, got %v", f.s3.deleted)
	}
}

func TestDeleteSessionEnforcesOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture()
	created := createSession(t, f)

	intruder := entity.UserLoginData{ID: "user-2"}
	if err := f.service.Sessions().DeleteSession(context.Background(), intruder, created.ID); !errors.Is(err, session.ErrSessionNotOwned) {
		t.Fatalf("expected ErrSessionNotOwned, got %v", err)
	}
	if err := f.service.Sessions().DeleteSession(context.Background(), testUser, "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := f.service.Sessions().DeleteSession(context.Background(), testUser, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(f.s3.deleted) != 0 {
		t.Fatalf("no recording was uploaded, nothing should be deleted, got %v", f.s3.deleted)
	}
}
