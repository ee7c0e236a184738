// Package manifest loads package.yml and validates it against the bundled
// manifest schema.
//
// The schema is an embedded CUE document versioned with the tool release;
// there is no version negotiation beyond the fixed set of accepted
// fpkg_version values. Validation never mutates the document: it returns
// the complete list of schema violations so that a single run surfaces
// every defect at once.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// Document is a loaded manifest: the typed view used by the pipeline and
// the raw tree used for schema validation.
type Document struct {
	Manifest *fpkg.Manifest
	Raw      map[string]interface{}

	// Path is the location package.yml was read from, for error reporting.
	Path string
}

// Load reads and parses package.yml from the package root.
// A missing or unparseable manifest is fatal and reported via
// fpkg.ErrManifestNotFound; schema violations are not checked here.
func Load(provider filesystem.FileSystemProvider, root string) (*Document, error) {
	path := filepath.Join(root, fpkg.ManifestFilename)

	data, err := provider.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", fpkg.ErrManifestNotFound, path)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fpkg.ErrManifestNotFound, path, err)
	}

	// A wrong-typed field is a schema violation with a path, reported by
	// Validate; only structurally unparseable YAML is fatal here. The typed
	// view keeps every field that did decode.
	var m fpkg.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %s: %v", fpkg.ErrManifestNotFound, path, err)
		}
	}

	return &Document{
		Manifest: &m,
		Raw:      raw,
		Path:     path,
	}, nil
}
