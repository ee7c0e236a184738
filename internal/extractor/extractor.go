// Package extractor unpacks .fpkg archives into a working directory so
// their contents can be re-validated or summarized.
package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// Extract unpacks the archive at fpkgPath into destDir. The file must
// exist and carry the .fpkg extension. Entries that would escape destDir
// are rejected.
func Extract(fpkgPath, destDir string) error {
	if !strings.EqualFold(filepath.Ext(fpkgPath), fpkg.ArchiveExtension) {
		return fmt.Errorf("%w: %s must have a %s extension", fpkg.ErrNotAnFpkg, fpkgPath, fpkg.ArchiveExtension)
	}

	reader, err := zip.OpenReader(fpkgPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", fpkg.ErrNotAnFpkg, fpkgPath, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := extractFile(file, destDir); err != nil {
			return err
		}
	}
	return nil
}

// ExtractToTemp unpacks the archive into a fresh temporary directory and
// returns its path. The caller owns the directory and removes it when done.
func ExtractToTemp(fpkgPath string) (string, error) {
	destDir, err := os.MkdirTemp("", "fme-packager_")
	if err != nil {
		return "", fmt.Errorf("creating extraction directory: %w", err)
	}

	if err := Extract(fpkgPath, destDir); err != nil {
		os.RemoveAll(destDir)
		return "", err
	}
	return destDir, nil
}

func extractFile(file *zip.File, destDir string) error {
	dst := filepath.Join(destDir, filepath.FromSlash(file.Name))
	if !strings.HasPrefix(dst, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: illegal path %s", fpkg.ErrNotAnFpkg, file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(dst, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := file.Open()
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
