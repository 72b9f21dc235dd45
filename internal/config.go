package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName names the XDG directories and the env prefix
const AppName = "tldwc"

// Config holds application settings
type Config struct {
	// User configurable settings
	BackendURL       string
	RequestTimeout   time.Duration
	SummaryTimeout   time.Duration
	DownloadDir      string
	DefaultExtension string
	ProgressStream   bool
	Template         string
	Verbose          bool
	Quiet            bool
	MCPLogEnabled    bool

	// Progress simulation and messages
	Controller ControllerOptions

	// Fixed XDG paths (not configurable)
	ConfigDir string
	CacheDir  string
}

//go:embed config.toml report.tmpl
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig creates config.toml in the XDG config directory if missing
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultTemplate creates report.tmpl in the XDG config directory if missing
func EnsureDefaultTemplate(configDir string) error {
	return ensureDefaultFile(configDir, "report.tmpl", "report template")
}

// InitConfig initializes Viper and loads configuration.
// configFile overrides the XDG lookup when non-empty.
func InitConfig(configFile string) *Config {
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	cacheDir := filepath.Join(xdg.CacheHome, AppName)

	v := newViper(configDir, configFile)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v, configDir, cacheDir)

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// newViper sets defaults, config search paths and env binding
func newViper(configDir, configFile string) *viper.Viper {
	v := viper.New()
	defaults := DefaultControllerOptions()

	v.SetDefault("backend_url", "http://localhost:5001/api")
	v.SetDefault("request_timeout", 2*time.Minute)
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("download_dir", xdg.UserDirs.Download)
	v.SetDefault("default_extension", ".mp4")
	v.SetDefault("progress_stream", false)
	v.SetDefault("template", "") // if empty will use the default report template
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	v.SetDefault("progress.tick_interval", defaults.TickInterval)
	v.SetDefault("progress.tick_step", defaults.TickStep)
	v.SetDefault("progress.analysis_ceiling", defaults.AnalysisCeiling)
	v.SetDefault("progress.merge_interval", defaults.MergeInterval)
	v.SetDefault("progress.merge_step", defaults.MergeStep)
	v.SetDefault("progress.merge_ceiling", defaults.MergeCeiling)

	v.SetDefault("messages.no_transcript_sentinel", defaults.NoTranscriptSentinel)
	v.SetDefault("messages.analysis_failed", defaults.AnalysisFailureMessage)
	v.SetDefault("messages.download_failed", defaults.DownloadFailureMessage)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// TLDWC_BACKEND_URL, TLDWC_PROGRESS_TICK_INTERVAL, ...
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// configFromViper builds the Config struct from resolved viper values
func configFromViper(v *viper.Viper, configDir, cacheDir string) *Config {
	return &Config{
		BackendURL:       v.GetString("backend_url"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		SummaryTimeout:   v.GetDuration("summary_timeout"),
		DownloadDir:      v.GetString("download_dir"),
		DefaultExtension: v.GetString("default_extension"),
		ProgressStream:   v.GetBool("progress_stream"),
		Template:         v.GetString("template"),
		Verbose:          v.GetBool("verbose"),
		Quiet:            v.GetBool("quiet"),
		MCPLogEnabled:    v.GetBool("mcp_log"),

		Controller: ControllerOptions{
			TickInterval:           v.GetDuration("progress.tick_interval"),
			TickStep:               v.GetFloat64("progress.tick_step"),
			AnalysisCeiling:        v.GetFloat64("progress.analysis_ceiling"),
			MergeInterval:          v.GetDuration("progress.merge_interval"),
			MergeStep:              v.GetFloat64("progress.merge_step"),
			MergeCeiling:           v.GetFloat64("progress.merge_ceiling"),
			ProgressStream:         v.GetBool("progress_stream"),
			NoTranscriptSentinel:   v.GetString("messages.no_transcript_sentinel"),
			AnalysisFailureMessage: v.GetString("messages.analysis_failed"),
			DownloadFailureMessage: v.GetString("messages.download_failed"),
		},

		ConfigDir: configDir,
		CacheDir:  cacheDir,
	}
}
