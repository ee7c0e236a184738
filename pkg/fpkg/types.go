package fpkg

import (
	"fmt"
	"strings"
)

// Manifest is the declared identity and content inventory of a package,
// loaded from package.yml. It is read once per run and never mutated.
type Manifest struct {
	FpkgVersion     int            `yaml:"fpkg_version"`
	UID             string         `yaml:"uid"`
	PublisherUID    string         `yaml:"publisher_uid"`
	Name            string         `yaml:"name"`
	Description     string         `yaml:"description"`
	Version         string         `yaml:"version"`
	MinimumFMEBuild int            `yaml:"minimum_fme_build"`
	Author          Author         `yaml:"author"`
	Deprecated      bool           `yaml:"deprecated"`
	Categories      []string       `yaml:"categories"`
	PackageContent  PackageContent `yaml:"package_content"`
}

// Author identifies the package author.
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// PackageContent holds the typed content arrays declared by the manifest.
// Every array may be empty or absent.
type PackageContent struct {
	Transformers   []TransformerEntry `yaml:"transformers"`
	Formats        []ContentEntry     `yaml:"formats"`
	WebServices    []ContentEntry     `yaml:"web_services"`
	WebFilesystems []ContentEntry     `yaml:"web_filesystems"`
	PythonPackages []ContentEntry     `yaml:"python_packages"`
}

// TransformerEntry declares one transformer and its latest version.
type TransformerEntry struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
}

// ContentEntry declares one named content item.
// Web service names carry their full filename (e.g. "MyService.xml").
type ContentEntry struct {
	Name string `yaml:"name"`
}

// Entries returns the declared names for the given content type.
func (c PackageContent) Entries(t ContentType) []ContentEntry {
	switch t {
	case ContentTransformers:
		entries := make([]ContentEntry, len(c.Transformers))
		for i, tr := range c.Transformers {
			entries[i] = ContentEntry{Name: tr.Name}
		}
		return entries
	case ContentFormats:
		return c.Formats
	case ContentWebServices:
		return c.WebServices
	case ContentWebFilesystems:
		return c.WebFilesystems
	case ContentPythonPackages:
		return c.PythonPackages
	default:
		return nil
	}
}

// ArchiveFilename returns the canonical archive filename for this manifest,
// of the form <uid>-<version>.fpkg.
func (m *Manifest) ArchiveFilename() string {
	return m.UID + "-" + m.Version + ArchiveExtension
}

// QualifiedName returns the fully qualified <publisher_uid>.<uid>.<name>
// identifier required inside transformer definitions.
func (m *Manifest) QualifiedName(name string) string {
	return fmt.Sprintf("%s.%s.%s", m.PublisherUID, m.UID, name)
}

// QualifiedFormatName returns the fully qualified format short name,
// which is the qualified name upper-cased.
func (m *Manifest) QualifiedFormatName(name string) string {
	return strings.ToUpper(m.QualifiedName(name))
}

// DefinitionVersion is one declared version inside a component definition.
type DefinitionVersion struct {
	// Version is the declared version number. Zero when the declared value
	// was absent or not numeric; that condition is judged downstream.
	Version int

	// PythonCompatibility is the raw compatibility token ("36", "311",
	// "2or3"). Empty when the version does not declare one.
	PythonCompatibility string

	// InsertMode is the linkage mode as written in a custom transformer
	// header, including surrounding quotes.
	InsertMode string

	// BuildNum is the FME build that produced a custom transformer version.
	BuildNum int

	// Deprecated reports whether this version is marked deprecated.
	Deprecated bool
}

// ComponentDefinition is the normalized description extracted from one
// on-disk definition file. Immutable after parse.
type ComponentDefinition struct {
	// Type is the content array this definition belongs to.
	Type ContentType

	// Name is the item name keyed against the manifest. For transformers and
	// formats this is the unqualified name derived from the filename; the
	// qualified name declared inside the file is kept in DeclaredName.
	Name string

	// DeclaredName is the name declared inside the definition file,
	// usually fully qualified as <publisher_uid>.<uid>.<name>.
	DeclaredName string

	// DeclaredNames lists every distinct name declared across the file's
	// version blocks. Transformer validation requires all of them to match
	// the qualified name, not just the first.
	DeclaredNames []string

	// Path is the definition file path relative to the package root.
	Path string

	// Custom reports whether a transformer is package-authored (custom)
	// rather than built on the plugin SDK.
	Custom bool

	// Encrypted reports whether the latest version is stored encrypted.
	Encrypted bool

	// Aliases lists alternative names declared by the definition.
	Aliases []string

	// Categories lists category tags declared by the definition.
	Categories []string

	// Versions holds every declared version, latest first.
	Versions []DefinitionVersion

	// SourceReader is the SOURCE_READER token declared by a format
	// definition (.fmf). Empty for other content types.
	SourceReader string

	// HasFormatInfo reports whether a formatinfo (.db) file sits next to a
	// format definition.
	HasFormatInfo bool

	// FormatInfoName is the FORMAT_NAME field of the formatinfo record.
	FormatInfoName string

	// FormatDirection is the DIRECTION field of the formatinfo record,
	// a combination of "r" and "w".
	FormatDirection string

	// HasMapping reports whether a <name>.fms mapping file sits next to the
	// definition.
	HasMapping bool

	// HasIcon reports whether a <name>.png icon sits next to a web
	// filesystem definition.
	HasIcon bool

	// HasDoc reports whether a <name>.md doc file sits next to the
	// definition.
	HasDoc bool
}

// Latest returns the newest declared version, or nil if none exist.
// Parsers keep versions ordered latest first.
func (d *ComponentDefinition) Latest() *DefinitionVersion {
	if len(d.Versions) == 0 {
		return nil
	}
	return &d.Versions[0]
}

// HasVersion reports whether the definition declares the given version.
func (d *ComponentDefinition) HasVersion(version int) bool {
	for _, v := range d.Versions {
		if v.Version == version {
			return true
		}
	}
	return false
}

// Inventory is the one-shot snapshot of component definitions discovered by
// scanning the package's content subdirectories. It is built once per run
// and compared against the manifest's declared arrays.
type Inventory struct {
	Definitions map[ContentType][]ComponentDefinition

	// Wheels lists prebuilt wheel filenames found directly under python/.
	Wheels []string

	// WheelProjects lists python/ subdirectories containing a recognized
	// build configuration file.
	WheelProjects []string
}

// Find returns the definition with the given name for a content type,
// or nil if none was discovered.
func (inv *Inventory) Find(t ContentType, name string) *ComponentDefinition {
	for i := range inv.Definitions[t] {
		if inv.Definitions[t][i].Name == name {
			return &inv.Definitions[t][i]
		}
	}
	return nil
}

// Names returns discovered definition names for a content type.
func (inv *Inventory) Names(t ContentType) []string {
	defs := inv.Definitions[t]
	names := make([]string, len(defs))
	for i := range defs {
		names[i] = defs[i].Name
	}
	return names
}
