package analysis

import (
	"PodiumBackend/pkg/response"
	"net/http"
)

var (
	ErrCaptureAlreadyRunning = response.NewError(http.StatusConflict, "capture already running for session")
	ErrCaptureNotRunning     = response.NewError(http.StatusNotFound, "no capture running for session")
	ErrDetectorUnavailable   = response.NewError(http.StatusServiceUnavailable, "detector service unavailable")
)
