package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddDownloadFlags adds flags related to saving the processed video
func AddDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "d", "", "Directory to save downloaded videos in")
	cmd.Flags().Bool("progress-stream", false, "Follow server-side download progress when the backend provides it")
}

// AddReportFlags adds flags related to the summary report
func AddReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", "", "Custom report template (string or file path)")
}

// HandleTemplateFlag processes the --template flag to set a custom report template
func HandleTemplateFlag(cmd *cobra.Command, app *App) error {
	// Check if template flag was explicitly set
	templateFlag := cmd.Flags().Lookup("template")
	if templateFlag == nil || !templateFlag.Changed {
		return nil
	}

	tmpl, err := cmd.Flags().GetString("template")
	if err != nil {
		return fmt.Errorf("failed to get template flag: %w", err)
	}

	// If template is empty, nothing to do
	if tmpl == "" {
		return nil
	}

	app.SetReportManager(NewReportManager(app.config.ConfigDir, tmpl))

	if IsLikelyFilePath(tmpl) && FileExists(tmpl) {
		app.ui.Verbose("Using custom template file: %s\n", tmpl)
	} else {
		app.ui.Verbose("Using custom template string\n")
	}

	return nil
}

// HandleDownloadFlags applies --output-dir and --progress-stream to the config.
// It must run before the App is created.
func HandleDownloadFlags(cmd *cobra.Command, config *Config) error {
	if flag := cmd.Flags().Lookup("output-dir"); flag != nil && flag.Changed {
		dir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			return fmt.Errorf("failed to get output-dir flag: %w", err)
		}
		config.DownloadDir = dir
	}

	if flag := cmd.Flags().Lookup("progress-stream"); flag != nil && flag.Changed {
		stream, err := cmd.Flags().GetBool("progress-stream")
		if err != nil {
			return fmt.Errorf("failed to get progress-stream flag: %w", err)
		}
		config.ProgressStream = stream
		config.Controller.ProgressStream = stream
	}

	return nil
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if flag := cmd.Flags().Lookup("verbose"); flag != nil && flag.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}

	if flag := cmd.Flags().Lookup("quiet"); flag != nil && flag.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}

	return nil
}

// ValidateBackendRequirements validates the backend settings from command flags and config
func ValidateBackendRequirements(cmd *cobra.Command, config *Config) error {
	if flag := cmd.Flags().Lookup("backend"); flag != nil && flag.Changed {
		backendURL, err := cmd.Flags().GetString("backend")
		if err != nil {
			return fmt.Errorf("failed to get backend flag: %w", err)
		}
		config.BackendURL = backendURL
	}

	if err := ValidateBackendURL(config.BackendURL); err != nil {
		return err
	}

	if config.RequestTimeout <= 0 || config.SummaryTimeout <= 0 {
		return fmt.Errorf("request_timeout and summary_timeout must be positive")
	}

	return nil
}
