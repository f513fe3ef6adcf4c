package session

import (
	"PodiumBackend/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound         = response.NewError(http.StatusNotFound, "practice session not found")
	ErrSessionNotOwned         = response.NewError(http.StatusForbidden, "practice session does not belong to user")
	ErrSessionAlreadyCompleted = response.NewError(http.StatusConflict, "practice session already completed")
	ErrInvalidAudioFile        = response.NewError(http.StatusBadRequest, "invalid audio file")
	ErrFailedToUploadAudio     = response.NewError(http.StatusInternalServerError, "failed to upload audio")
	ErrInvalidSeriesData       = response.NewError(http.StatusBadRequest, "invalid time series payload")
)
