package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rtzll/tldwc/internal"
)

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata [video URL or ID]",
	Short: "Get video info from the backend",
	Example: `  # Get video info
  tldwc metadata "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldwc metadata tAP1eZYEuKA

  # Save video info to file
  tldwc metadata tAP1eZYEuKA -o info.json

  # Format output as pretty JSON or YAML
  tldwc metadata tAP1eZYEuKA --pretty
  tldwc metadata tAP1eZYEuKA --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoURL, err := videoArg(args[0])
		if err != nil {
			return err
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		info, err := app.Metadata(cmd.Context(), videoURL)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		pretty, _ := cmd.Flags().GetBool("pretty")
		data, err := encodeInfo(info, format, pretty)
		if err != nil {
			return err
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, data, 0644)
		}

		fmt.Println(string(data))

		return nil
	},
}

// videoInfoOutput adds derived fields to the backend's video info
type videoInfoOutput struct {
	internal.VideoInfo `yaml:",inline"`
	EmbedURL           string `json:"embed_url" yaml:"embed_url"`
	FormattedDuration  string `json:"formatted_duration" yaml:"formatted_duration"`
}

func encodeInfo(info *internal.VideoInfo, format string, pretty bool) ([]byte, error) {
	out := videoInfoOutput{
		VideoInfo:         *info,
		EmbedURL:          info.EmbedURL(),
		FormattedDuration: info.FormattedDuration(),
	}

	switch format {
	case "json", "":
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(out, "", "  ")
		} else {
			data, err = json.Marshal(out)
		}
		if err != nil {
			return nil, fmt.Errorf("error converting video info to JSON: %w", err)
		}
		return data, nil
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("error converting video info to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}

func init() {
	metadataCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	metadataCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	metadataCmd.Flags().StringP("format", "f", "json", "Output format (json or yaml)")
	rootCmd.AddCommand(metadataCmd)
}
