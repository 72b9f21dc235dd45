package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

var availableCommands = []string{"summarize", "metadata", "transcribe", "download", "cp", "mcp", "paths", "version", "help"}

// newApp validates the backend settings, applies command flags and builds the App
func newApp(cmd *cobra.Command) (*internal.App, error) {
	if err := internal.ValidateBackendRequirements(cmd, config); err != nil {
		return nil, err
	}
	if err := internal.HandleDownloadFlags(cmd, config); err != nil {
		return nil, err
	}

	app := internal.NewApp(config)
	if err := internal.HandleTemplateFlag(cmd, app); err != nil {
		return nil, err
	}

	return app, nil
}

// videoArg turns a video URL or ID argument into a request URL
func videoArg(arg string) (string, error) {
	parsed := internal.ParseInput(arg)
	if parsed.IsValid() {
		return parsed.NormalizedURL, nil
	}

	if parsed.ContentType == internal.ContentTypeCommand {
		return "", fmt.Errorf("'%s' doesn't look like a video URL or ID: %s", arg, parsed.SuggestCorrection(availableCommands))
	}
	return "", parsed.Error
}
