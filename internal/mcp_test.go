package internal

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var texts []string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}
	return strings.Join(texts, "\n"), result.IsError
}

func TestMCPGetVideoInfo(t *testing.T) {
	app, _ := newTestApp(t, newDemoServer(t, nil))
	s := NewMCPServer(app, "test")

	text, isError := callTool(t, s.handleGetVideoInfo, map[string]any{"url": "abc123"})
	if isError {
		t.Fatalf("tool error: %s", text)
	}
	for _, want := range []string{"Title: Demo", "Duration: 2:00", "https://www.youtube.com/embed/abc123"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}

	text, isError = callTool(t, s.handleGetVideoInfo, map[string]any{})
	if !isError {
		t.Errorf("missing url accepted: %s", text)
	}
}

func TestMCPSummarizeVideo(t *testing.T) {
	app, _ := newTestApp(t, newDemoServer(t, nil))
	s := NewMCPServer(app, "test")

	text, isError := callTool(t, s.handleSummarize, map[string]any{"url": "https://youtu.be/abc123"})
	if isError {
		t.Fatalf("tool error: %s", text)
	}
	if !strings.Contains(text, "# Demo") || !strings.Contains(text, "# Key Points") {
		t.Errorf("report = %s", text)
	}
}

func TestMCPGetTranscriptWithoutCaptions(t *testing.T) {
	server := newDemoServer(t, nil)
	app, _ := newTestApp(t, server)
	app.backend = &fakeBackend{
		transcript: func(ctx context.Context, videoURL string) (string, error) {
			return "", &UpstreamError{StatusCode: http.StatusBadGateway, Message: "backend down"}
		},
	}
	s := NewMCPServer(app, "test")

	text, isError := callTool(t, s.handleGetTranscript, map[string]any{"url": "https://youtu.be/abc123"})
	if !isError || !strings.Contains(text, "backend down") {
		t.Errorf("got %q (error %v), want backend message", text, isError)
	}

	app.backend = &fakeBackend{
		transcript: func(ctx context.Context, videoURL string) (string, error) {
			return DefaultNoTranscriptSentinel, nil
		},
	}
	text, isError = callTool(t, s.handleGetTranscript, map[string]any{"url": "https://youtu.be/abc123"})
	if isError || !strings.Contains(text, "No transcript available") {
		t.Errorf("got %q (error %v), want no-transcript notice", text, isError)
	}
}
