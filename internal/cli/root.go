package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fme-packager",
	Short: "Validate and package FME Packages",
	Long: `fme-packager validates an FME Package directory against its manifest
and assembles it into a distributable .fpkg archive.

A package directory holds a package.yml manifest plus subdirectories for
each content type (transformers, formats, web_services, web_filesystems,
python). Every declared component must have a matching definition on disk;
definitions not declared in the manifest are left out of the archive.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - package.yml failed schema validation
  11 - Manifest/content cross-reference validation failed
  12 - Icon or help materials failed validation
  13 - Python wheel build failed
  14 - package.yml not found or unreadable`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
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
