package definition

import (
	"strings"
	"unicode/utf8"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// ParseFormat extracts the identity tokens from a format mapping file
// (.fmf). A mapping file is line oriented with space-separated tokens; the
// FORMAT_NAME and SOURCE_READER records both carry the fully qualified
// format short name as their first argument.
func ParseFormat(path string, content []byte) (*fpkg.ComponentDefinition, error) {
	if !utf8.Valid(content) {
		return nil, parseErrorf(path, "not valid UTF-8")
	}

	def := &fpkg.ComponentDefinition{Type: fpkg.ContentFormats}
	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "FORMAT_NAME":
			if def.DeclaredName == "" {
				def.DeclaredName = fields[1]
			}
		case "SOURCE_READER":
			if def.SourceReader == "" {
				def.SourceReader = fields[1]
			}
		}
	}

	if def.DeclaredName == "" {
		return nil, parseErrorf(path, "FORMAT_NAME not found")
	}
	return def, nil
}
