package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

// cpCmd copies the summary report to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [video URL or ID]",
	Short: "Copy the video summary to the clipboard",
	Example: `  # Copy the markdown summary
  tldwc cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldwc cp tAP1eZYEuKA

  # Copy only the summary text
  tldwc cp tAP1eZYEuKA --template "{{.Summary}}"`,
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

		analysis, err := app.Analyze(cmd.Context(), videoURL)
		if err != nil {
			return err
		}

		report, err := app.Report(analysis)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(report); err != nil {
			return fmt.Errorf("copying summary to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Summary copied to clipboard")
		}

		return nil
	},
}

func init() {
	internal.AddReportFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
