package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tldwc [video URL or ID]",
	Short: "Too Long; Didn't Watch client - summarize videos through a tldw backend",
	Long: `tldwc sends a video link to a video-summarization backend and shows the result.

The backend fetches video info, extracts the transcript and writes an AI summary.
Videos without captions are still summarized from their metadata.

With --download the processed video is downloaded from the backend afterwards
and saved to your downloads directory.`,
	Example: `  # Summarize a video (default behavior)
  tldwc "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  tldwc tAP1eZYEuKA

  # Summarize and download the video
  tldwc tAP1eZYEuKA --download

  # Use a different backend
  tldwc tAP1eZYEuKA --backend http://tldw.local:5001/api

  # Use custom report template
  tldwc tAP1eZYEuKA --template "# {{.Title}}\n{{.Summary}}"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		config = internal.InitConfig(configFile)

		// Ensure XDG directories exist
		if err := internal.EnsureDirs(config.ConfigDir, config.CacheDir); err != nil {
			return fmt.Errorf("creating XDG directories: %w", err)
		}

		// Ensure default config and report template exist in XDG config directory
		if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
		}
		if err := internal.EnsureDefaultTemplate(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default report template: %v\n", err)
		}

		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

// runSummarize is shared by the root and summarize commands
func runSummarize(cmd *cobra.Command, args []string) error {
	videoURL, err := videoArg(args[0])
	if err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	download, _ := cmd.Flags().GetBool("download")
	return app.SummarizeVideo(cmd.Context(), videoURL, download)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		// Create a context with timeout for cleanup operations
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		// Remove partial downloads left behind by the interrupted transfer
		cleanupDone := make(chan struct{})
		go func() {
			if config != nil {
				if err := internal.CleanupPartialDownloads(config.DownloadDir); err != nil {
					fmt.Fprintf(os.Stderr, "Error cleaning up partial downloads: %v\n", err)
				}
			}
			close(cleanupDone)
		}()

		// Wait for either cleanup to complete or timeout
		select {
		case <-cleanupDone:
			// Cleanup completed successfully
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(130)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddReportFlags(rootCmd)
	internal.AddDownloadFlags(rootCmd)
	rootCmd.Flags().Bool("download", false, "Download the processed video after the summary")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress bars and status messages")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/tldwc/config.toml)")
	rootCmd.PersistentFlags().String("backend", "", "Backend base URL (overrides backend_url)")
}
