package summarizer

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safesoftware/fme-packager/internal/checksum"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

const summaryManifest = `fpkg_version: 1
uid: my-package
publisher_uid: example
name: My Package
description: A demo package.
version: 1.0.0
minimum_fme_build: 23000
author:
  name: Example Author
  email: author@example.com
categories:
  - Integrations
package_content:
  transformers:
    - name: MyGreeter
      version: 2
  web_services:
    - name: Example Service.xml
`

const summaryFmx = "TRANSFORMER_NAME: example.my-package.MyGreeter\nVERSION: 2\nCATEGORY: Strings\nPYTHON_COMPATIBILITY: 38\nTRANSFORMER_NAME: example.my-package.MyGreeter\nVERSION: 1\nPYTHON_COMPATIBILITY: 36\n"

func writePackageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"package.yml":                summaryManifest,
		"transformers/MyGreeter.fmx": summaryFmx,
		"transformers/MyGreeter.md":  "Greets features.",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestSummarizeDir(t *testing.T) {
	dir := writePackageDir(t)

	summary, err := New(checksum.New(), nil).SummarizeDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "my-package", summary.UID)
	assert.Equal(t, "example", summary.PublisherUID)
	assert.Equal(t, "1.0.0", summary.Version)
	assert.Equal(t, "Example Author", summary.Author.Name)
	assert.Empty(t, summary.SHA256, "directory summary has no archive checksum")
	assert.False(t, summary.Deprecated)

	require.Len(t, summary.PackageContent.Transformers, 1)
	tr := summary.PackageContent.Transformers[0]
	assert.Equal(t, "MyGreeter", tr.Name)
	assert.Equal(t, 2, tr.LatestVersion)
	assert.Equal(t, "38", tr.PythonCompatibility)
	require.NotNil(t, tr.Description)
	assert.Equal(t, "Greets features.", *tr.Description)
	require.NotNil(t, tr.DescriptionFormat)
	assert.Equal(t, "md", *tr.DescriptionFormat)

	require.Len(t, summary.PackageContent.WebServices, 1)
	assert.Equal(t, "Example Service", summary.PackageContent.WebServices[0].Name)
}

func TestSummarizeDir_MissingReadme(t *testing.T) {
	dir := writePackageDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "transformers", "MyGreeter.md")))

	summary, err := New(checksum.New(), nil).SummarizeDir(dir)
	require.NoError(t, err)

	tr := summary.PackageContent.Transformers[0]
	assert.Nil(t, tr.Description)
	assert.Nil(t, tr.DescriptionFormat)
}

func TestSummarizeDir_MissingManifest(t *testing.T) {
	_, err := New(checksum.New(), nil).SummarizeDir(t.TempDir())
	assert.ErrorIs(t, err, fpkg.ErrManifestNotFound)
}

func TestSummarizeArchive(t *testing.T) {
	srcDir := writePackageDir(t)

	archive := filepath.Join(t.TempDir(), "my-package-1.0.0.fpkg")
	out, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	summary, err := New(checksum.New(), nil).SummarizeArchive(archive)
	require.NoError(t, err)

	assert.Equal(t, "my-package", summary.UID)
	assert.Len(t, summary.SHA256, 64, "sha256 hex digest")

	// The summary must serialize with snake_case keys for Hub ingestion.
	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"publisher_uid":"example"`)
	assert.Contains(t, string(raw), `"latest_version":2`)
}
