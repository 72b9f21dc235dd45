package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		AppName+"-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_video_info",
		mcp.WithDescription("Fetch basic video information (id, title, duration, embed URL) from the summarization backend."),
		mcp.WithString("url",
			mcp.Description("Video URL or YouTube video ID"),
			mcp.Required(),
		),
	), s.handleGetVideoInfo)

	s.mcpServer.AddTool(mcp.NewTool("get_video_transcript",
		mcp.WithDescription("Fetch the video transcript from the summarization backend. Videos without captions return a 'no transcript' notice instead of failing."),
		mcp.WithString("url",
			mcp.Description("Video URL or YouTube video ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("summarize_video",
		mcp.WithDescription("Run the full analysis (info, transcript, summary) and return a markdown report. A newer call supersedes one still running."),
		mcp.WithString("url",
			mcp.Description("Video URL or YouTube video ID"),
			mcp.Required(),
		),
	), s.handleSummarize)
}

// requireVideoURL extracts and normalizes the url argument
func requireVideoURL(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	arg, err := request.RequireString("url")
	if err != nil {
		return "", mcp.NewToolResultError("url parameter is required and must be a string")
	}
	videoURL, _ := ParseArg(arg)
	if err := ValidateVideoURL(videoURL); err != nil {
		return "", mcp.NewToolResultErrorFromErr("invalid url", err)
	}
	return videoURL, nil
}

// handleGetVideoInfo implements the get_video_info tool
func (s *MCPServer) handleGetVideoInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoURL, errResult := requireVideoURL(request)
	if errResult != nil {
		return errResult, nil
	}

	MCPLogInfo("get_video_info %s", videoURL)
	info, err := s.app.Metadata(ctx, videoURL)
	if err != nil {
		MCPLogError("get_video_info %s: %v", videoURL, err)
		return mcp.NewToolResultErrorFromErr("video info error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Video ID: %s\n", info.VideoID))
	buf.WriteString(fmt.Sprintf("Title: %s\n", info.Title))
	buf.WriteString(fmt.Sprintf("Duration: %s (%.0f seconds)\n", info.FormattedDuration(), info.Duration))
	buf.WriteString(fmt.Sprintf("Embed URL: %s\n", info.EmbedURL()))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleGetTranscript implements the get_video_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoURL, errResult := requireVideoURL(request)
	if errResult != nil {
		return errResult, nil
	}

	MCPLogInfo("get_video_transcript %s", videoURL)
	transcript, noTranscript, err := s.app.Transcript(ctx, videoURL)
	if err != nil {
		MCPLogError("get_video_transcript %s: %v", videoURL, err)
		return mcp.NewToolResultErrorFromErr("transcript error", err), nil
	}
	if noTranscript {
		MCPLogDebug("no transcript for %s", videoURL)
		return mcp.NewToolResultText("No transcript available for this video. summarize_video still produces a summary without one."), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript)},
	}, nil
}

// handleSummarize implements the summarize_video tool
func (s *MCPServer) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoURL, errResult := requireVideoURL(request)
	if errResult != nil {
		return errResult, nil
	}

	MCPLogInfo("summarize_video %s", videoURL)
	analysis, err := s.app.Analyze(ctx, videoURL)
	if err != nil {
		MCPLogError("summarize_video %s: %v", videoURL, err)
		return mcp.NewToolResultErrorFromErr("summary error", err), nil
	}

	report, err := s.app.Report(analysis)
	if err != nil {
		MCPLogError("summarize_video %s: %v", videoURL, err)
		return mcp.NewToolResultErrorFromErr("report error", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(report)},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
