package internal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput is returned for blank or malformed video URLs
	ErrInvalidInput = errors.New("invalid video URL")
	// ErrInvalidURL matches backend rejections of the submitted URL (HTTP 400)
	ErrInvalidURL = errors.New("backend rejected the video URL")
	// ErrNotFound matches backend answers for unknown videos (HTTP 404)
	ErrNotFound = errors.New("video not found")
	// ErrSuperseded is returned by an attempt that a newer attempt replaced
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrBusy is returned when a download is requested during an analysis
	ErrBusy = errors.New("analysis in progress")
)

// UpstreamError is a non-success HTTP response from the backend
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: backend returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets callers match on ErrInvalidURL and ErrNotFound
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrInvalidURL:
		return e.StatusCode == http.StatusBadRequest
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DownloadDecodeError means a binary payload was expected but a JSON error arrived
type DownloadDecodeError struct {
	Message string
}

func (e *DownloadDecodeError) Error() string {
	if e.Message == "" {
		return "download returned an error payload instead of video data"
	}
	return "download failed: " + e.Message
}

// TransportError is a network failure where no response was received
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage converts any workflow error into the single message shown to the user.
// Backend-provided messages win; everything else falls back to the generic message.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}

	var decode *DownloadDecodeError
	if errors.As(err, &decode) && decode.Message != "" {
		return decode.Message
	}

	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrBusy) {
		return err.Error()
	}

	return fallback
}

// FailureError pairs the message shown to the user with the underlying cause
type FailureError struct {
	Message string
	Err     error
}

func (e *FailureError) Error() string {
	return e.Message
}

func (e *FailureError) Unwrap() error {
	return e.Err
}
