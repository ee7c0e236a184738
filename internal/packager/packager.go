// Package packager turns a validated package directory into an .fpkg
// archive. Archiving runs in three steps: a build plan selects the files,
// the plan is staged into a run-private build directory so the source tree
// is never mutated, and the staging tree is zipped into dist/.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// Packager stages and assembles package archives.
type Packager struct {
	fsProvider filesystem.FileSystemProvider
	logger     fpkg.Logger
}

// New creates a packager over the OS filesystem.
// A nil logger is replaced with a NullLogger.
func New(logger fpkg.Logger) *Packager {
	return NewWithFS(logger, filesystem.NewOSFileSystem())
}

// NewWithFS creates a packager that plans against a custom filesystem
// provider. Staging and assembly always write through the OS.
// Panics if fsProvider is nil.
func NewWithFS(logger fpkg.Logger, fsProvider filesystem.FileSystemProvider) *Packager {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Packager{
		fsProvider: fsProvider,
		logger:     logger,
	}
}

// NewStagingDir returns a fresh run-private staging directory path under
// the package's build directory. The directory is not created.
func NewStagingDir(srcDir string) string {
	return filepath.Join(srcDir, fpkg.BuildDirName, uuid.NewString())
}

// Stage copies every planned file into the staging directory, recreating
// the archive layout on disk.
func (p *Packager) Stage(plan *Plan, stagingDir string) error {
	p.logger.Info("Collecting files into %s", stagingDir)

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}

	for _, item := range plan.Items {
		dst := filepath.Join(stagingDir, filepath.FromSlash(item.Target))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("staging %s: %w", item.Target, err)
		}
		if err := copyFile(item.Source, dst); err != nil {
			return fmt.Errorf("staging %s: %w", item.Target, err)
		}
	}
	return nil
}

// Assemble zips the staging tree into distDir under the given filename and
// returns the archive path. An existing archive of the same name is
// replaced.
func (p *Packager) Assemble(stagingDir, distDir, filename string) (string, error) {
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return "", fmt.Errorf("creating dist directory: %w", err)
	}

	archivePath := filepath.Join(distDir, filename)
	p.logger.Info("Saving fpkg to %s", archivePath)

	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing previous archive: %w", err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(stagingDir, func(fullPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(stagingDir, fullPath)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(fullPath)
		if err != nil {
			return err
		}
		defer in.Close()

		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing archive: %w", err)
	}
	return archivePath, nil
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
