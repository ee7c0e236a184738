package definition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// encryptedMarker is the first line of an encrypted custom transformer.
const encryptedMarker = "FMW0001"

// customHeaderPrefix introduces each version of a custom transformer.
const customHeaderPrefix = "# TRANSFORMER_BEGIN"

// customHeaderFields is the field order of a custom transformer header line.
var customHeaderFields = []string{
	"name", "version", "category", "guid", "insert_mode", "blocked_looping",
	"process_count", "process_group_by", "process_groups_ordered",
	"build_num", "preserves_attrs", "deprecated", "pyver",
}

// isCustomTransformer sniffs the first line for the custom transformer
// markers: a shebang for plain files, FMW0001 for encrypted ones.
func isCustomTransformer(content []byte) bool {
	line, _, _ := strings.Cut(string(content), "\n")
	line = strings.TrimRight(line, "\r")
	return strings.HasPrefix(line, "#!") || strings.HasPrefix(line, encryptedMarker)
}

// keywordRecord matches one KEYWORD: VALUE record of the legacy format.
var keywordRecord = regexp.MustCompile(`^([A-Z][A-Z0-9_]*):\s+(.+?)\s*$`)

// parseFmx parses a plugin-built transformer in the legacy line format.
// Each TRANSFORMER_NAME record starts a version block; records are
// KEYWORD: VALUE pairs and PARAMETER_* records are ignored.
func parseFmx(path string, content []byte) (*fpkg.ComponentDefinition, error) {
	lines := strings.Split(string(content), "\n")

	var blocks [][]string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "TRANSFORMER_NAME") {
			blocks = append(blocks, nil)
		}
		if len(blocks) > 0 {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
		}
	}
	if len(blocks) == 0 {
		return nil, parseErrorf(path, "TRANSFORMER_NAME not found")
	}

	def := &fpkg.ComponentDefinition{}
	for _, block := range blocks {
		props := make(map[string]string)
		for _, line := range block {
			match := keywordRecord.FindStringSubmatch(line)
			if match == nil || strings.HasPrefix(match[1], "PARAMETER_") {
				continue
			}
			props[match[1]] = match[2]
		}

		name, ok := props["TRANSFORMER_NAME"]
		if !ok {
			return nil, parseErrorf(path, "TRANSFORMER_NAME not found")
		}
		if _, ok := props["VERSION"]; !ok {
			return nil, parseErrorf(path, "VERSION not found")
		}
		if def.DeclaredName == "" {
			def.DeclaredName = name
		}
		def.DeclaredNames = appendDeclaredName(def.DeclaredNames, name)

		// Malformed version numbers are coerced to zero here and judged
		// by the cross-reference validator.
		version, _ := strconv.Atoi(props["VERSION"])
		def.Versions = append(def.Versions, fpkg.DefinitionVersion{
			Version:             version,
			PythonCompatibility: props["PYTHON_COMPATIBILITY"],
			Deprecated:          isTruthy(props["DEPRECATED"]),
		})
	}

	return def, nil
}

// parseCustomFmx parses a package-authored transformer: one or more
// comma-separated "# TRANSFORMER_BEGIN" header lines, newest first.
// Encrypted bodies are opaque, but header lines stay in clear text.
func parseCustomFmx(path string, content []byte) (*fpkg.ComponentDefinition, error) {
	lines := strings.Split(string(content), "\n")

	def := &fpkg.ComponentDefinition{
		Custom:    true,
		Encrypted: len(lines) > 0 && strings.TrimSpace(lines[0]) == encryptedMarker,
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, customHeaderPrefix) {
			continue
		}

		fields := strings.Split(strings.TrimSpace(strings.TrimPrefix(line, customHeaderPrefix)), ",")
		if len(fields) < len(customHeaderFields) {
			return nil, parseErrorf(path, "transformer header has %d fields, expected %d", len(fields), len(customHeaderFields))
		}
		header := make(map[string]string, len(customHeaderFields))
		for i, key := range customHeaderFields {
			header[key] = strings.TrimSpace(fields[i])
		}

		if def.DeclaredName == "" {
			def.DeclaredName = header["name"]
		}
		def.DeclaredNames = appendDeclaredName(def.DeclaredNames, header["name"])

		version, _ := strconv.Atoi(header["version"])
		buildNum, _ := strconv.Atoi(header["build_num"])
		def.Versions = append(def.Versions, fpkg.DefinitionVersion{
			Version:             version,
			PythonCompatibility: header["pyver"],
			InsertMode:          header["insert_mode"],
			BuildNum:            buildNum,
			Deprecated:          isTruthy(header["deprecated"]),
		})
	}

	if len(def.Versions) == 0 {
		return nil, parseErrorf(path, "%s line not found", customHeaderPrefix)
	}

	return def, nil
}

// appendDeclaredName records a version block's name, keeping distinct
// values only so repeated blocks don't repeat downstream errors.
func appendDeclaredName(names []string, name string) []string {
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
