// Package crossref validates the manifest's declared content arrays against
// the inventory of definitions discovered on disk.
//
// Errors accumulate across all declared items so a single run reports the
// complete defect set. The declared-vs-found policy is asymmetric by
// design: a declared item with no definition is an error, while a
// definition not declared in the manifest raises nothing here and is
// excluded from the build plan instead.
package crossref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// Error is one cross-reference defect tied to a declared content item.
type Error struct {
	Type    fpkg.ContentType
	Name    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s '%s': %s", e.Type, e.Name, e.Message)
}

// result accumulates errors during one validation pass.
type result struct {
	errs []Error
}

func (r *result) addError(t fpkg.ContentType, name, format string, args ...interface{}) {
	r.errs = append(r.errs, Error{Type: t, Name: name, Message: fmt.Sprintf(format, args...)})
}

// Check validates every declared content item against the inventory and
// returns the complete error set. An empty result means the manifest and
// the on-disk definitions are structurally consistent.
func Check(manifest *fpkg.Manifest, inv *fpkg.Inventory) []Error {
	r := &result{}

	for _, tr := range manifest.PackageContent.Transformers {
		r.checkTransformer(manifest, inv, tr)
	}
	for _, entry := range manifest.PackageContent.Formats {
		r.checkFormat(manifest, inv, entry)
	}
	for _, entry := range manifest.PackageContent.WebServices {
		if inv.Find(fpkg.ContentWebServices, entry.Name) == nil {
			r.addError(fpkg.ContentWebServices, entry.Name, "declared in %s, but not found", fpkg.ManifestFilename)
		}
	}
	for _, entry := range manifest.PackageContent.WebFilesystems {
		if inv.Find(fpkg.ContentWebFilesystems, entry.Name) == nil {
			r.addError(fpkg.ContentWebFilesystems, entry.Name, "declared in %s, but not found", fpkg.ManifestFilename)
		}
	}
	for _, entry := range manifest.PackageContent.PythonPackages {
		r.checkPythonPackage(inv, entry)
	}

	r.checkNameUniqueness(manifest)

	return r.errs
}

func (r *result) checkTransformer(manifest *fpkg.Manifest, inv *fpkg.Inventory, tr fpkg.TransformerEntry) {
	t := fpkg.ContentTransformers

	if tr.Version < 1 {
		r.addError(t, tr.Name, "version must be >= 1")
	}

	def := inv.Find(t, tr.Name)
	if def == nil {
		r.addError(t, tr.Name, "declared in %s, but not found", fpkg.ManifestFilename)
		return
	}

	if !def.HasDoc {
		r.addError(t, tr.Name, "missing doc: %s.md", tr.Name)
	}

	// Every version block carries its own name record; all of them must be
	// the qualified name, not just the newest.
	fqname := manifest.QualifiedName(tr.Name)
	for _, declared := range def.DeclaredNames {
		if declared != fqname {
			r.addError(t, tr.Name, "%s name needs to be '%s', not '%s'", def.Path, fqname, declared)
		}
	}

	if tr.Version >= 1 && !def.HasVersion(tr.Version) {
		r.addError(t, tr.Name, "%s is missing version %d", def.Path, tr.Version)
	}

	latest := def.Latest()
	if latest == nil {
		return
	}

	if def.Custom {
		if latest.InsertMode != fpkg.InsertModeLinkedAlways {
			r.addError(t, tr.Name, "custom transformer Insert Mode must be %s, not %s", fpkg.InsertModeLinkedAlways, latest.InsertMode)
		}
		if latest.BuildNum < fpkg.MinCustomTransformerBuild {
			r.addError(t, tr.Name, "custom transformer must be created from FME build %d or newer", fpkg.MinCustomTransformerBuild)
		} else if latest.BuildNum < manifest.MinimumFMEBuild {
			r.addError(t, tr.Name, "custom transformer created with FME build older than minimum_fme_build in %s", fpkg.ManifestFilename)
		}
		for _, v := range def.Versions {
			if v.Deprecated && !manifest.Deprecated {
				r.addError(t, tr.Name, "definition version %d is deprecated, so %s must set deprecated: true", v.Version, fpkg.ManifestFilename)
				break
			}
		}
	}

	// Only the latest version's compatibility floor is judged; older
	// versions are grandfathered. The floor itself is waived for packages
	// targeting builds before the threshold release.
	if manifest.MinimumFMEBuild >= fpkg.GrandfatherFMEBuild {
		compat := latest.PythonCompatibility
		if compat != "" && compat != fpkg.PythonCompatAny && !validPythonCompatibility(compat) {
			r.addError(t, tr.Name, "python compatibility of latest version must be %d or newer, got '%s'", fpkg.MinPythonCompatibility, compat)
		}
	}
}

func (r *result) checkFormat(manifest *fpkg.Manifest, inv *fpkg.Inventory, entry fpkg.ContentEntry) {
	t := fpkg.ContentFormats

	def := inv.Find(t, entry.Name)
	if def == nil {
		r.addError(t, entry.Name, "declared in %s, but not found", fpkg.ManifestFilename)
		return
	}

	if !def.HasDoc {
		r.addError(t, entry.Name, "missing doc: %s.md", entry.Name)
	}

	fqname := manifest.QualifiedFormatName(entry.Name)
	if def.DeclaredName != fqname {
		r.addError(t, entry.Name, "%s FORMAT_NAME needs to be '%s', not '%s'", def.Path, fqname, def.DeclaredName)
	}
	if def.SourceReader != fqname {
		r.addError(t, entry.Name, "%s SOURCE_READER needs to be '%s'", def.Path, fqname)
	}

	if !def.HasFormatInfo {
		r.addError(t, entry.Name, "formatinfo %s.db declared in %s, but not found", entry.Name, fpkg.ManifestFilename)
	} else if def.FormatInfoName != fqname {
		r.addError(t, entry.Name, "%s.db must have FORMAT_NAME of '%s'", entry.Name, fqname)
	}
}

func (r *result) checkPythonPackage(inv *fpkg.Inventory, entry fpkg.ContentEntry) {
	// Wheel filenames normalize non-alphanumeric runs in the project name
	// to underscores, so match both spellings.
	want := normalizeWheelName(entry.Name)

	for _, project := range inv.WheelProjects {
		if normalizeWheelName(project) == want {
			return
		}
	}
	for _, wheel := range inv.Wheels {
		dist, _, _ := strings.Cut(wheel, "-")
		if normalizeWheelName(dist) == want {
			return
		}
	}

	r.addError(fpkg.ContentPythonPackages, entry.Name, "declared in %s, but no wheel or wheel project found", fpkg.ManifestFilename)
}

// checkNameUniqueness rejects display names shared across content arrays.
// Per-array duplicates are already rejected by the schema.
func (r *result) checkNameUniqueness(manifest *fpkg.Manifest) {
	seen := make(map[string]fpkg.ContentType)
	for _, t := range fpkg.ContentTypes {
		for _, entry := range manifest.PackageContent.Entries(t) {
			if prior, ok := seen[entry.Name]; ok && prior != t {
				r.addError(t, entry.Name, "name already declared under %s", prior)
				continue
			}
			seen[entry.Name] = t
		}
	}
}

func normalizeWheelName(name string) string {
	return strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return c
		}
		return '_'
	}, name)
}

// validPythonCompatibility reports whether a compatibility token names a
// python 3 version at or above the supported floor. Tokens are
// major.minor with the dot removed, so "311" is 3.11.
func validPythonCompatibility(compat string) bool {
	if !strings.HasPrefix(compat, "3") {
		return false
	}
	n, err := strconv.Atoi(compat)
	if err != nil {
		return false
	}
	return n >= fpkg.MinPythonCompatibility
}
