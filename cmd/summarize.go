package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [video URL or ID] [--download]",
	Short: "Generate summary for a video",
	Example: `  # Generate summary for a video
  tldwc summarize "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldwc summarize tAP1eZYEuKA

  # Use custom report template file
  tldwc summarize tAP1eZYEuKA --template ~/report.tmpl

  # Summarize, then download the video into ~/Videos
  tldwc summarize tAP1eZYEuKA --download -d ~/Videos`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	internal.AddReportFlags(summarizeCmd)
	internal.AddDownloadFlags(summarizeCmd)
	summarizeCmd.Flags().Bool("download", false, "Download the processed video after the summary")
	rootCmd.AddCommand(summarizeCmd)
}
