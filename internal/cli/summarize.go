package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safesoftware/fme-packager/internal/checksum"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/internal/summarizer"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <fpkg_path>",
	Short: "Emit a JSON summary of an .fpkg archive",
	Long: `Emit a JSON summary of a package for FME Hub: the manifest enriched
with facts read from the definition files, plus the archive checksum.

The argument may also be an already-extracted package directory, in which
case no checksum is included.

Examples:
  fme-packager summarize example.my-package-1.0.0.fpkg
  fme-packager summarize ./my-package`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	s := summarizer.New(checksum.New(), logger)

	var (
		summary *summarizer.Summary
		err     error
	)
	if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
		summary, err = s.SummarizeDir(args[0])
	} else {
		summary, err = s.SummarizeArchive(args[0])
	}
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
