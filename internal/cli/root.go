package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirillLvov/userfs/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ufsctl",
	Short: "Drive the in-memory userfs engine from scripted scenarios",
	Long: `ufsctl replays YAML scenarios of open, read, write, seek, resize, close,
delete and stat calls against a fresh in-memory filesystem and reports, step
by step, whether each call produced the expected result.

Settings are read from ufs.yaml in the working directory (or --config), then
from a .env file next to it, then from UFS_MAX_DESCRIPTORS,
UFS_BLOCK_POOL_SIZE and UFS_VERBOSE in the environment.

Exit Codes:
  0  - All steps met their expectations
  1  - A scenario failed or could not be loaded
  3  - Panic or unexpected system error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log filesystem activity to stderr")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (default: ./"+config.ConfigFileName+" if present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// loadConfig resolves settings from --config, or from the working directory
// when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return config.Resolve(".")
	}
	return config.ResolveFile(path)
}
