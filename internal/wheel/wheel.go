// Package wheel rebuilds python wheel projects under the package's python/
// directory into binary artifacts for inclusion in the archive.
package wheel

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python"

// Builder produces one wheel artifact from a project directory.
type Builder interface {
	// Build rebuilds the project and returns the path of the produced
	// wheel file.
	Build(projectDir string) (string, error)
}

// CommandBuilder invokes the external python build toolchain
// (python -m build) as a synchronous child process.
type CommandBuilder struct {
	python string
	logger fpkg.Logger
}

// NewCommandBuilder creates a builder running the given interpreter.
// An empty interpreter falls back to DefaultPython; a nil logger is
// replaced with a NullLogger.
func NewCommandBuilder(python string, logger fpkg.Logger) *CommandBuilder {
	if python == "" {
		python = DefaultPython
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &CommandBuilder{python: python, logger: logger}
}

// Build rebuilds one project. Stale build/ and dist/ directories are
// removed first so every run starts clean and the produced wheel is the
// only one in dist/.
func (b *CommandBuilder) Build(projectDir string) (string, error) {
	for _, stale := range []string{"build", "dist"} {
		if err := os.RemoveAll(filepath.Join(projectDir, stale)); err != nil {
			return "", fmt.Errorf("cleaning %s directory: %w", stale, err)
		}
	}

	distDir := filepath.Join(projectDir, "dist")
	b.logger.Info("Building Python wheel: %s", projectDir)

	cmd := exec.Command(b.python, "-m", "build", "--wheel", "--outdir", distDir, projectDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s in %s failed: %v\n%s", fpkg.ErrWheelBuild, b.python, projectDir, err, output)
	}

	return findBuiltWheel(distDir)
}

// findBuiltWheel returns the single wheel produced into distDir.
func findBuiltWheel(distDir string) (string, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", fpkg.ErrWheelBuild, distDir, err)
	}

	var wheels []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".whl") {
			wheels = append(wheels, entry.Name())
		}
	}
	if len(wheels) != 1 {
		return "", fmt.Errorf("%w: expected exactly one wheel in %s, found %d", fpkg.ErrWheelBuild, distDir, len(wheels))
	}
	return filepath.Join(distDir, wheels[0]), nil
}

// Rebuilder drives the builder over every wheel project and collects the
// artifacts into a shared output directory.
type Rebuilder struct {
	builder Builder
	logger  fpkg.Logger
}

// NewRebuilder creates a rebuilder around the given builder.
// Panics if builder is nil.
func NewRebuilder(builder Builder, logger fpkg.Logger) *Rebuilder {
	if builder == nil {
		panic("builder cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Rebuilder{builder: builder, logger: logger}
}

// Rebuild builds each named project under pythonDir and moves the produced
// wheels into outputDir. The first build failure aborts the whole run.
// With no projects this is a no-op and outputDir is not created, so
// downstream packaging sees no python content.
func (r *Rebuilder) Rebuild(pythonDir string, projects []string, outputDir string) ([]string, error) {
	if len(projects) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating wheel output directory: %w", err)
	}

	var built []string
	for _, project := range projects {
		projectDir := filepath.Join(pythonDir, project)

		artifact, err := r.builder.Build(projectDir)
		if err != nil {
			return nil, err
		}

		name := filepath.Base(artifact)
		if err := copyFile(artifact, filepath.Join(outputDir, name)); err != nil {
			return nil, fmt.Errorf("collecting wheel %s: %w", name, err)
		}
		if err := os.RemoveAll(filepath.Dir(artifact)); err != nil {
			return nil, fmt.Errorf("removing dist directory for %s: %w", project, err)
		}

		r.logger.Verbose("Built wheel: %s", name)
		built = append(built, name)
	}
	return built, nil
}

// CheckWheels warns about wheels that are unlikely to load inside FME:
// anything not targeting python 3 and anything platform-specific.
func CheckWheels(wheels []string, logger fpkg.Logger) {
	for _, name := range wheels {
		if !strings.Contains(name, "py3") {
			logger.Warn("%s is not a Python 3 wheel", name)
		}
		if !strings.HasSuffix(name, "-none-any.whl") {
			logger.Warn("%s is not a pure-Python wheel", name)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
