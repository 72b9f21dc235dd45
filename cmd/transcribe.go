package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [video URL or ID]",
	Short: "Get the video transcript from the backend",
	Example: `  # Print the transcript
  tldwc transcribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldwc transcribe tAP1eZYEuKA

  # Save transcript to file
  tldwc transcribe tAP1eZYEuKA -o transcript.txt`,
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

		transcript, noTranscript, err := app.Transcript(cmd.Context(), videoURL)
		if err != nil {
			return err
		}
		if noTranscript {
			return fmt.Errorf("no transcript available for %s", videoURL)
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcribeCmd)
}
