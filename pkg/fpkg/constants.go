package fpkg

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Package built/verified successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitSchemaError     = 10 // package.yml failed schema validation
	ExitCrossRefError   = 11 // Manifest/content cross-reference validation failed
	ExitAssetError      = 12 // Icon or help materials failed validation
	ExitBuildError      = 13 // Python wheel build toolchain failed
	ExitManifestMissing = 14 // package.yml not found or unreadable
)

const (
	// ManifestFilename is the package manifest at the package root.
	ManifestFilename = "package.yml"

	// IconFilename is the optional package icon at the package root.
	IconFilename = "icon.png"

	// HelpIndexFilename maps help contexts to doc files inside the help directory.
	HelpIndexFilename = "package_help.csv"

	// BuildDirName is the staging directory created under the package root.
	// Each run stages into a unique subdirectory of it.
	BuildDirName = "build"

	// DistDirName is the output directory for assembled .fpkg archives.
	DistDirName = "dist"

	// ArchiveExtension is the file extension of an assembled package.
	ArchiveExtension = ".fpkg"
)

const (
	// MinPythonCompatibility is the lowest accepted PYTHON_COMPATIBILITY value
	// for the latest version of a transformer definition. The value encodes
	// the interpreter version with the dot removed ("36" means 3.6).
	MinPythonCompatibility = 36

	// GrandfatherFMEBuild is the build number of the first 2022 release.
	// Packages whose minimum_fme_build is older than this predate the
	// python-compatibility floor and are exempt from it.
	GrandfatherFMEBuild = 22000

	// MinCustomTransformerBuild is the oldest FME build allowed to have
	// produced a custom transformer definition.
	MinCustomTransformerBuild = 19000

	// MinManifestFMEBuild is the floor for the manifest's minimum_fme_build.
	MinManifestFMEBuild = 19000

	// InsertModeLinkedAlways is the required linkage mode for custom
	// transformers, quoted exactly as it appears in the definition header.
	InsertModeLinkedAlways = `"Linked Always"`

	// PythonCompatAny is the wildcard compatibility value accepted for
	// custom transformers in place of a numeric version.
	PythonCompatAny = "2or3"
)

const (
	// IconMinDimension is the minimum width and height of the package icon.
	IconMinDimension = 200
)

// ContentType identifies one of the typed content arrays in package_content
// and the package subdirectory holding the matching definitions.
type ContentType string

const (
	ContentTransformers   ContentType = "transformers"
	ContentFormats        ContentType = "formats"
	ContentWebServices    ContentType = "web_services"
	ContentWebFilesystems ContentType = "web_filesystems"
	ContentPythonPackages ContentType = "python_packages"
)

// ContentTypes lists all content types in manifest declaration order.
var ContentTypes = []ContentType{
	ContentTransformers,
	ContentFormats,
	ContentWebServices,
	ContentWebFilesystems,
	ContentPythonPackages,
}

// Directory returns the package subdirectory holding definitions of this type.
// Python packages live under "python" rather than "python_packages".
func (t ContentType) Directory() string {
	if t == ContentPythonPackages {
		return "python"
	}
	return string(t)
}

// TreeCopyIgnoreGlobs matches files that are never copied into an fpkg by
// tree copy. OS housekeeping files are excluded everywhere; FME definition
// extensions are listed because their copy is gated by validation and done
// file by file.
var TreeCopyIgnoreGlobs = []string{
	".*",
	"*.mclog",
	"*.flali",
	"*.fmf",
	"*.fmx",
	"*.fmxj",
	"*.db",
	"*.fms",
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
}
