// Package definition extracts normalized component descriptions from the
// definition files found under a package's content subdirectories.
//
// Two transformer container formats are recognized and selected by file
// extension plus content sniffing:
//
//   - .fmx: the line-oriented legacy format. Plugin-built transformers are
//     a sequence of KEYWORD: VALUE records; package-authored (custom)
//     transformers carry comma-separated "# TRANSFORMER_BEGIN" headers and
//     may be stored encrypted.
//   - .fmxj: the structured JSON format with an info object and a
//     versions array.
//
// Both parse into the same fpkg.ComponentDefinition shape. Formats
// additionally get their formatinfo (.db) line parsed by ParseFormatInfo.
package definition

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// ParseError indicates a definition file is unreadable or structurally
// unrecognizable. Fatal for that file; callers aggregate across files.
type ParseError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func parseErrorf(path, format string, args ...interface{}) *ParseError {
	return &ParseError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// ParseTransformer parses a transformer definition. The container format is
// chosen by extension and, for .fmx, by sniffing the first line for the
// custom transformer markers. The returned definition has Type, Name, Path
// and HasDoc left for the scanner to fill in.
func ParseTransformer(path string, content []byte) (*fpkg.ComponentDefinition, error) {
	if !utf8.Valid(content) {
		return nil, parseErrorf(path, "not valid UTF-8")
	}

	var (
		def *fpkg.ComponentDefinition
		err error
	)
	switch {
	case hasExtension(path, ".fmxj"):
		def, err = parseFmxj(path, content)
	case hasExtension(path, ".fmx"):
		if isCustomTransformer(content) {
			def, err = parseCustomFmx(path, content)
		} else {
			def, err = parseFmx(path, content)
		}
	default:
		return nil, parseErrorf(path, "unrecognized transformer definition")
	}
	if err != nil {
		return nil, err
	}

	if len(def.Versions) == 0 {
		return nil, parseErrorf(path, "definition declares no versions")
	}
	sortVersionsLatestFirst(def.Versions)
	return def, nil
}

// sortVersionsLatestFirst orders versions newest first. The sort is stable
// so versions with unparseable numbers keep their file order at the tail.
func sortVersionsLatestFirst(versions []fpkg.DefinitionVersion) {
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
}

func hasExtension(path, ext string) bool {
	if len(path) < len(ext) {
		return false
	}
	got := path[len(path)-len(ext):]
	for i := 0; i < len(ext); i++ {
		c := got[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != ext[i] {
			return false
		}
	}
	return true
}
