package definition

import (
	"encoding/json"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// fmxjDocument is the structured JSON transformer container.
type fmxjDocument struct {
	Info     fmxjInfo      `json:"info"`
	Versions []fmxjVersion `json:"versions"`
}

type fmxjInfo struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Aliases    []string `json:"aliases"`
	Deprecated bool     `json:"deprecated"`
}

type fmxjVersion struct {
	Version int    `json:"version"`
	Changes string `json:"changes"`
	// Some authoring tools emit the misspelled key; accept both and
	// prefer the correct spelling.
	PythonCompatibility    string `json:"pythonCompatibility"`
	PythonCompatibilityAlt string `json:"pythonCompatability"`
	Deprecated             bool   `json:"deprecated"`
}

// parseFmxj parses the structured JSON transformer format.
func parseFmxj(path string, content []byte) (*fpkg.ComponentDefinition, error) {
	var doc fmxjDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, parseErrorf(path, "invalid JSON: %v", err)
	}
	if doc.Info.Name == "" {
		return nil, parseErrorf(path, "info.name not found")
	}

	def := &fpkg.ComponentDefinition{
		DeclaredName:  doc.Info.Name,
		DeclaredNames: []string{doc.Info.Name},
		Custom:        false,
		Aliases:       doc.Info.Aliases,
		Categories:    doc.Info.Categories,
	}

	for _, v := range doc.Versions {
		compat := v.PythonCompatibility
		if compat == "" {
			compat = v.PythonCompatibilityAlt
		}
		def.Versions = append(def.Versions, fpkg.DefinitionVersion{
			Version:             v.Version,
			PythonCompatibility: compat,
			Deprecated:          v.Deprecated || doc.Info.Deprecated,
		})
	}

	return def, nil
}
