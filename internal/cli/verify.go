package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safesoftware/fme-packager/internal/extractor"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify <fpkg_path>",
	Short: "Verify an existing .fpkg archive",
	Long: `Extract an .fpkg archive and run the full validation and assembly
pipeline against its contents.

Examples:
  # Verify a downloaded package
  fme-packager verify example.my-package-1.0.0.fpkg

  # Machine-readable result
  fme-packager verify example.my-package-1.0.0.fpkg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Output the result as JSON")
	rootCmd.AddCommand(verifyCmd)
}

// verifyResult is the machine-readable verification outcome.
type verifyResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	verifyErr := verify(args[0], logger)

	if verifyJSON {
		result := verifyResult{Status: "success", Message: "valid"}
		if verifyErr != nil {
			result = verifyResult{Status: "error", Message: verifyErr.Error()}
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	} else if verifyErr == nil {
		fmt.Println("Success: Package Valid")
	} else {
		fmt.Printf("Error Validating Package: %s\n", verifyErr)
	}

	return verifyErr
}

// verify extracts the archive into a temporary directory and rebuilds it
// there, exercising every validation gate on the archived contents.
func verify(fpkgPath string, logger fpkg.Logger) error {
	dir, err := extractor.ExtractToTemp(fpkgPath)
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	_, err = pack(dir, logger)
	return err
}
