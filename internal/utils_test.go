package internal

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		input, url, id string
	}{
		{"dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ"},
		{"https://youtu.be/abc123", "https://youtu.be/abc123", "abc123"},
		{"https://m.youtube.com/shorts/xyz_789", "https://m.youtube.com/shorts/xyz_789", "xyz_789"},
		{"  https://youtube.com/embed/abc123  ", "https://youtube.com/embed/abc123", "abc123"},
		{"https://example.com/video/1", "https://example.com/video/1", ""},
	}

	for _, tt := range tests {
		url, id := ParseArg(tt.input)
		if url != tt.url || id != tt.id {
			t.Errorf("ParseArg(%q) = (%q, %q), want (%q, %q)", tt.input, url, id, tt.url, tt.id)
		}
	}
}

func TestValidateVideoURL(t *testing.T) {
	for _, valid := range []string{"https://youtu.be/abc123", "http://example.com/v"} {
		if err := ValidateVideoURL(valid); err != nil {
			t.Errorf("ValidateVideoURL(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "  ", "youtu.be/abc123", "ftp://x/y", "https://", "http://%zz"} {
		if err := ValidateVideoURL(invalid); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateVideoURL(%q) = %v, want ErrInvalidInput", invalid, err)
		}
	}
}

func TestParseInput(t *testing.T) {
	parsed := ParseInput("dQw4w9WgXcQ")
	if !parsed.IsValid() || parsed.ID != "dQw4w9WgXcQ" {
		t.Errorf("ParseInput(id) = %s", parsed)
	}

	parsed = ParseInput("downlod")
	if parsed.IsValid() || parsed.ContentType != ContentTypeCommand {
		t.Fatalf("ParseInput(downlod) = %s, want command", parsed)
	}
	if got := parsed.SuggestCorrection([]string{"download", "paths"}); got != "use --help to see available commands" {
		t.Errorf("suggestion = %q", got)
	}

	parsed = ParseInput("path")
	if got := parsed.SuggestCorrection([]string{"download", "paths"}); got != "did you mean: paths" {
		t.Errorf("suggestion = %q", got)
	}
}

func TestValidateBackendURL(t *testing.T) {
	if err := ValidateBackendURL("http://localhost:5001/api"); err != nil {
		t.Errorf("valid backend rejected: %v", err)
	}
	for _, invalid := range []string{"", "localhost:5001", "ftp://host/api"} {
		if err := ValidateBackendURL(invalid); err == nil {
			t.Errorf("ValidateBackendURL(%q) accepted", invalid)
		}
	}
}

func TestIsNoTranscript(t *testing.T) {
	if !IsNoTranscript(DefaultNoTranscriptSentinel, DefaultNoTranscriptSentinel) {
		t.Error("sentinel not recognized")
	}
	if !IsNoTranscript("   ", DefaultNoTranscriptSentinel) {
		t.Error("blank transcript not recognized")
	}
	if IsNoTranscript("hello", DefaultNoTranscriptSentinel) {
		t.Error("real transcript reported as missing")
	}
}

func TestUserMessage(t *testing.T) {
	const fallback = "Processing failed"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"upstream message", fmt.Errorf("fetching: %w", &UpstreamError{StatusCode: 400, Message: "bad link"}), "bad link"},
		{"upstream without message", &UpstreamError{StatusCode: http.StatusInternalServerError}, fallback},
		{"decode error", &DownloadDecodeError{Message: "rate limited"}, "rate limited"},
		{"decode without message", &DownloadDecodeError{}, fallback},
		{"transport", &TransportError{Op: "POST /summary", Err: errors.New("refused")}, fallback},
		{"invalid input", fmt.Errorf("%w: empty URL", ErrInvalidInput), "invalid video URL: empty URL"},
		{"busy", ErrBusy, "analysis in progress"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err, fallback); got != tt.want {
			t.Errorf("%s: UserMessage = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUpstreamErrorIs(t *testing.T) {
	if !errors.Is(&UpstreamError{StatusCode: http.StatusNotFound}, ErrNotFound) {
		t.Error("404 should match ErrNotFound")
	}
	if errors.Is(&UpstreamError{StatusCode: http.StatusNotFound}, ErrInvalidURL) {
		t.Error("404 should not match ErrInvalidURL")
	}

	failure := &FailureError{Message: "bad link", Err: &UpstreamError{StatusCode: http.StatusBadRequest}}
	if failure.Error() != "bad link" || !errors.Is(failure, ErrInvalidURL) {
		t.Errorf("FailureError = %q, cause not reachable", failure)
	}
}
