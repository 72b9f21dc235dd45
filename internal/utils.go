package internal

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParseArg normalizes YouTube video IDs and URLs into (url, id)
func ParseArg(arg string) (string, string) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		videoID, err := getVideoID(arg)
		if err != nil {
			// not a recognizable YouTube URL; the backend may still know it
			return arg, ""
		}
		return arg, videoID
	}

	return "https://www.youtube.com/watch?v=" + arg, arg
}

// VideoIDExtractor extracts video IDs from YouTube URLs
type VideoIDExtractor func(string) (string, error)

// Default implementation of video ID extraction
var getVideoID VideoIDExtractor = func(youtubeURL string) (string, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	switch u.Host {
	case "www.youtube.com", "youtube.com", "m.youtube.com", "youtu.be":
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	// youtu.be/<id>, /embed/<id>, /shorts/<id>, /live/<id>
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := parts[len(parts)-1]; last != "" && last != "watch" && videoIDPattern.MatchString(last) {
		return last, nil
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
}

// ValidateVideoURL rejects blank or malformed links before any request is made
func ValidateVideoURL(videoURL string) error {
	if strings.TrimSpace(videoURL) == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidInput)
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an http(s) link", ErrInvalidInput, videoURL)
	}
	return nil
}

// ValidateBackendURL checks the configured backend base URL
func ValidateBackendURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("backend URL is required - set backend_url in config.toml or TLDWC_BACKEND_URL")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid backend URL: %s", baseURL)
	}
	return nil
}

// IsNoTranscript reports whether the backend answered with the "no captions" sentinel
func IsNoTranscript(transcript, sentinel string) bool {
	transcript = strings.TrimSpace(transcript)
	return transcript == "" || (sentinel != "" && transcript == sentinel)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}
	return videoIDPattern.MatchString(id)
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	if strings.Contains(arg, "://") {
		return false
	}
	// Short strings that don't look like YouTube IDs are likely commands
	return len(arg) <= 10 && !IsValidYouTubeID(arg)
}

// ParseInput classifies a command line argument
func ParseInput(arg string) *ParsedArg {
	parsed := &ParsedArg{OriginalInput: arg}
	if IsLikelyCommand(arg) {
		parsed.ContentType = ContentTypeCommand
		parsed.Error = fmt.Errorf("'%s' doesn't look like a video URL or ID", arg)
		return parsed
	}

	parsed.NormalizedURL, parsed.ID = ParseArg(arg)
	if err := ValidateVideoURL(parsed.NormalizedURL); err != nil {
		parsed.Error = err
		return parsed
	}
	parsed.ContentType = ContentTypeVideo
	return parsed
}
