package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [video URL or ID]",
	Short: "Download the processed video from the backend",
	Example: `  # Download a video named after its title
  tldwc download tAP1eZYEuKA

  # Choose the file name and directory
  tldwc download tAP1eZYEuKA --title "conference talk" -d ~/Videos

  # Follow the backend's progress stream
  tldwc download tAP1eZYEuKA --progress-stream`,
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

		title, _ := cmd.Flags().GetString("title")
		artifact, err := app.DownloadVideo(cmd.Context(), videoURL, title)
		if err != nil {
			return err
		}

		if config.Quiet {
			fmt.Println(artifact.Path)
			return nil
		}
		fmt.Printf("Saved %s (%s)\n", artifact.Path, humanize.Bytes(uint64(artifact.Size)))
		return nil
	},
}

func init() {
	internal.AddDownloadFlags(downloadCmd)
	downloadCmd.Flags().String("title", "", "File name without extension (default: video title)")
	rootCmd.AddCommand(downloadCmd)
}
