package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safesoftware/fme-packager/internal/config"
	"github.com/safesoftware/fme-packager/internal/crossref"
	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/internal/files/scanner"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/internal/manifest"
	"github.com/safesoftware/fme-packager/internal/packager"
	"github.com/safesoftware/fme-packager/internal/report"
	"github.com/safesoftware/fme-packager/internal/wheel"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

var packCmd = &cobra.Command{
	Use:   "pack <package_dir>",
	Short: "Validate a package directory and build its .fpkg archive",
	Long: `Validate a package directory and assemble it into dist/<uid>-<version>.fpkg.

The pipeline runs in order: manifest schema validation, definition parsing,
cross-reference validation, icon and help validation, python wheel builds,
then archive assembly. Validation errors within a stage are collected so a
single run reports every defect; the archive is only written when every
stage passes.

Examples:
  # Build my-package/dist/<uid>-<version>.fpkg
  fme-packager pack ./my-package

  # Build with verbose progress output
  fme-packager pack ./my-package --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	archivePath, err := pack(args[0], logger)
	if err != nil {
		return err
	}
	fmt.Println(archivePath)
	return nil
}

// pack runs the full validation and assembly pipeline for the package at
// srcDir and returns the path of the written archive.
func pack(srcDir string, logger fpkg.Logger) (string, error) {
	cfg, err := config.Load(srcDir)
	if err != nil {
		return "", fmt.Errorf("loading build config: %w", err)
	}

	provider := filesystem.NewOSFileSystem()
	doc, err := manifest.Load(provider, srcDir)
	if err != nil {
		return "", err
	}
	m := doc.Manifest

	rep := report.New(fmt.Sprintf("%s %s", m.UID, m.Version))

	if schemaErrs := manifest.Validate(doc); len(schemaErrs) > 0 {
		for _, schemaErr := range schemaErrs {
			rep.AddError("%s", schemaErr.Error())
		}
		rep.Render(os.Stderr)
		return "", fmt.Errorf("%w: %d error(s)", fpkg.ErrSchemaValidation, len(schemaErrs))
	}

	inv, parseErrs := scanner.NewScannerWithFS(logger, provider).Scan(srcDir)
	for _, parseErr := range parseErrs {
		rep.AddError("%v", parseErr)
	}
	crossErrs := crossref.Check(m, inv)
	for _, crossErr := range crossErrs {
		rep.AddError("%s", crossErr.Error())
	}
	if rep.HasErrors() {
		rep.Render(os.Stderr)
		return "", fmt.Errorf("%w: %d error(s)", fpkg.ErrCrossRefValidation, len(parseErrs)+len(crossErrs))
	}

	iconPath := filepath.Join(srcDir, fpkg.IconFilename)
	if _, statErr := os.Stat(iconPath); statErr == nil {
		if err := packager.ValidateIcon(iconPath); err != nil {
			return "", err
		}
		logger.Info("Icon is OK")
	}

	helpDir := filepath.Join(srcDir, "help")
	if info, statErr := os.Stat(helpDir); statErr == nil && info.IsDir() {
		if err := packager.ValidateHelp(helpDir, m, inv, logger); err != nil {
			return "", err
		}
	}

	p := packager.NewWithFS(logger, provider)
	plan, err := p.BuildPlan(srcDir, m, inv)
	if err != nil {
		return "", err
	}

	stagingDir := packager.NewStagingDir(srcDir)
	defer os.RemoveAll(stagingDir)
	if err := p.Stage(plan, stagingDir); err != nil {
		return "", err
	}

	builder := wheel.NewCommandBuilder(cfg.Python, logger)
	rebuilder := wheel.NewRebuilder(builder, logger)
	pythonDir := filepath.Join(srcDir, fpkg.ContentPythonPackages.Directory())
	built, err := rebuilder.Rebuild(pythonDir, declaredProjects(m, inv), filepath.Join(stagingDir, "python"))
	if err != nil {
		return "", err
	}
	wheel.CheckWheels(append(built, inv.Wheels...), logger)

	distDir := cfg.OutputDir
	if distDir == "" {
		distDir = filepath.Join(srcDir, fpkg.DistDirName)
	}
	archivePath, err := p.Assemble(stagingDir, distDir, m.ArchiveFilename())
	if err != nil {
		return "", err
	}

	rep.Render(os.Stderr)
	return archivePath, nil
}

// declaredProjects filters the discovered wheel projects down to the ones
// declared as python packages. Wheel filenames replace hyphens in the
// project name with underscores, so both spellings match.
func declaredProjects(m *fpkg.Manifest, inv *fpkg.Inventory) []string {
	var projects []string
	for _, project := range inv.WheelProjects {
		for _, entry := range m.PackageContent.PythonPackages {
			if normalizeDistName(project) == normalizeDistName(entry.Name) {
				projects = append(projects, project)
				break
			}
		}
	}
	return projects
}

func normalizeDistName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "-", "_"))
}
