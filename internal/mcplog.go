package internal

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

var (
	mcpLogger     *log.Logger
	mcpLoggerOnce sync.Once
	mcpLogEnabled bool
)

// initMCPLogger initializes the MCP logger with file output in cacheDir
func initMCPLogger(enabled bool, cacheDir string) {
	mcpLogEnabled = enabled

	if !enabled {
		return
	}

	logDir := cacheDir
	if logDir == "" {
		logDir = filepath.Join(xdg.CacheHome, AppName)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// If we can't create the log directory, disable logging
		mcpLogEnabled = false
		return
	}

	logPath := filepath.Join(logDir, "mcp.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// If we can't open the log file, disable logging
		mcpLogEnabled = false
		return
	}

	// Create logger with timestamp and microsecond precision
	mcpLogger = log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
}

// InitMCPLogging initializes MCP logging based on config
func InitMCPLogging(config *Config) {
	mcpLoggerOnce.Do(func() {
		initMCPLogger(config.MCPLogEnabled, config.CacheDir)
	})
}

// MCPLogPath returns where MCP mode writes its log
func MCPLogPath(config *Config) string {
	return filepath.Join(config.CacheDir, "mcp.log")
}

// mcpLogf logs a formatted message if MCP logging is enabled
func mcpLogf(level, format string, args ...any) {
	if !mcpLogEnabled || mcpLogger == nil {
		return
	}

	mcpLogger.Printf("[MCP] [%s] "+format, append([]any{level}, args...)...)
}

// MCPLogInfo logs an info message
func MCPLogInfo(format string, args ...any) {
	mcpLogf("INFO", format, args...)
}

// MCPLogError logs an error message
func MCPLogError(format string, args ...any) {
	mcpLogf("ERROR", format, args...)
}

// MCPLogDebug logs a debug message
func MCPLogDebug(format string, args ...any) {
	mcpLogf("DEBUG", format, args...)
}
