package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backend is the HTTP contract of the summarization service
type Backend interface {
	VideoInfo(ctx context.Context, videoURL string) (*VideoInfo, error)
	Transcript(ctx context.Context, videoURL string) (string, error)
	Summary(ctx context.Context, transcript string, duration float64) (string, error)
	Download(ctx context.Context, videoURL string) (*DownloadPayload, error)
	DownloadProgress(ctx context.Context, videoURL string) (<-chan ServerProgress, error)
}

// DownloadPayload is a binary video response that has not been read yet.
// The caller owns Body and must close it.
type DownloadPayload struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when the backend did not announce a length
}

// ServerProgress is one event of the server-side download progress stream
type ServerProgress struct {
	Progress float64 `json:"progress"`
	Phase    string  `json:"phase,omitempty"`
}

// Stage maps the server phase name onto a download stage
func (p ServerProgress) Stage() Stage {
	switch strings.ToLower(p.Phase) {
	case "audio":
		return StageAudio
	case "video", "download", "downloading":
		return StageVideo
	case "merge", "merging", "processing":
		return StageMerging
	}
	switch {
	case p.Progress < audioDisplayedEnd:
		return StageAudio
	case p.Progress < videoDisplayedEnd:
		return StageVideo
	default:
		return StageMerging
	}
}

// HTTPBackend talks to the backend over HTTP/JSON
type HTTPBackend struct {
	baseURL        string
	client         *http.Client
	requestTimeout time.Duration
	summaryTimeout time.Duration
	sentinel       string
}

// NewHTTPBackend creates a backend client for baseURL (e.g. http://localhost:5001/api)
func NewHTTPBackend(baseURL string, requestTimeout, summaryTimeout time.Duration, sentinel string) *HTTPBackend {
	return &HTTPBackend{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{},
		requestTimeout: requestTimeout,
		summaryTimeout: summaryTimeout,
		sentinel:       sentinel,
	}
}

type urlRequest struct {
	URL string `json:"url"`
}

type summaryRequest struct {
	Transcript string  `json:"transcript"`
	Duration   float64 `json:"duration,omitempty"`
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// VideoInfo fetches the title, id and duration of a video
func (b *HTTPBackend) VideoInfo(ctx context.Context, videoURL string) (*VideoInfo, error) {
	ctx, cancel := withTimeout(ctx, b.requestTimeout)
	defer cancel()

	var info VideoInfo
	if err := b.postJSON(ctx, "/video/info", urlRequest{URL: videoURL}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Transcript fetches the transcript. A missing transcript is returned as the sentinel value.
func (b *HTTPBackend) Transcript(ctx context.Context, videoURL string) (string, error) {
	ctx, cancel := withTimeout(ctx, b.requestTimeout)
	defer cancel()

	var resp transcriptResponse
	err := b.postJSON(ctx, "/transcript", urlRequest{URL: videoURL}, &resp)
	if err != nil {
		// the backend answers 404 when a video has no captions
		if isStatus(err, http.StatusNotFound) {
			return b.sentinel, nil
		}
		return "", err
	}
	if strings.TrimSpace(resp.Transcript) == "" {
		return b.sentinel, nil
	}
	return resp.Transcript, nil
}

// Summary asks the backend to summarize the transcript; duration is a length hint
func (b *HTTPBackend) Summary(ctx context.Context, transcript string, duration float64) (string, error) {
	ctx, cancel := withTimeout(ctx, b.summaryTimeout)
	defer cancel()

	var resp summaryResponse
	if err := b.postJSON(ctx, "/summary", summaryRequest{Transcript: transcript, Duration: duration}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// Download requests the processed video. JSON answers are decoded as errors, never returned as payload.
func (b *HTTPBackend) Download(ctx context.Context, videoURL string) (*DownloadPayload, error) {
	const op = "POST /video/download"

	resp, err := b.do(ctx, http.MethodPost, "/video/download", urlRequest{URL: videoURL})
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readUpstreamError(op, resp)
	}

	contentType := resp.Header.Get("Content-Type")
	if isJSON(contentType) {
		defer resp.Body.Close()
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &DownloadDecodeError{}
		}
		return nil, &DownloadDecodeError{Message: payload.Error}
	}

	return &DownloadPayload{
		Body:        resp.Body,
		ContentType: contentType,
		Size:        resp.ContentLength,
	}, nil
}

// DownloadProgress subscribes to the server-sent progress stream.
// The channel is closed when the stream ends or ctx is done.
func (b *HTTPBackend) DownloadProgress(ctx context.Context, videoURL string) (<-chan ServerProgress, error) {
	const op = "GET /video/download/progress"

	path := "/video/download/progress?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readUpstreamError(op, resp)
	}

	events := make(chan ServerProgress)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanProgressEvents(resp.Body, func(event ServerProgress) bool {
			select {
			case events <- event:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	return events, nil
}

// scanProgressEvents parses "data: {...}" lines (and bare JSON lines) from an event stream.
// It stops at EOF or when emit returns false.
func scanProgressEvents(r io.Reader, emit func(ServerProgress) bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			line = strings.TrimSpace(rest)
		} else if !strings.HasPrefix(line, "{") {
			// event:, id: and retry: fields carry nothing we use
			continue
		}

		var event ServerProgress
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		if !emit(event) {
			return
		}
	}
}

func (b *HTTPBackend) postJSON(ctx context.Context, path string, body, out any) error {
	op := "POST " + path

	resp, err := b.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readUpstreamError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return b.client.Do(req)
}

// readUpstreamError builds an UpstreamError, taking the message from a JSON {error} body if present
func readUpstreamError(op string, resp *http.Response) error {
	upstream := &UpstreamError{Op: op, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return upstream
	}

	var payload errorResponse
	if json.Unmarshal(data, &payload) == nil {
		upstream.Message = payload.Error
	}
	return upstream
}

func isStatus(err error, status int) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == status
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
