package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldwc/internal"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  tldwc paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Download directory: %s\n", config.DownloadDir)
		fmt.Printf("MCP log file: %s\n", internal.MCPLogPath(config))
		fmt.Printf("Backend: %s\n", config.BackendURL)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
