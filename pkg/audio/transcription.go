package audio

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured reports a missing API key. Callers treat it differently
// from a transcription failure: the session still completes, with an empty
// transcript and zeroed speech metrics.
var ErrNotConfigured = errors.New("transcription service not configured")

type ItfTranscription interface {
	TranscribeAudio(ctx context.Context, fileName string, reader io.Reader) (string, error)
}

type TranscriptionService struct {
	client *openai.Client
}

func NewTranscriptionService(apiKey string) *TranscriptionService {
	if apiKey == "" {
		return &TranscriptionService{}
	}
	return &TranscriptionService{client: openai.NewClient(apiKey)}
}

func (t *TranscriptionService) TranscribeAudio(ctx context.Context, fileName string, reader io.Reader) (string, error) {
	if t.client == nil {
		return "", ErrNotConfigured
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: fileName,
		Reader:   reader,
		Language: "en",
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
