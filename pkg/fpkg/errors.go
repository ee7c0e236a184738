package fpkg

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := packager.Build(ctx)
//	if errors.Is(err, fpkg.ErrSchemaValidation) {
//	    // package.yml does not conform to the manifest schema
//	}
var (
	// ErrManifestNotFound indicates package.yml is missing or unreadable.
	ErrManifestNotFound = errors.New("package.yml not found")

	// ErrSchemaValidation indicates the manifest failed schema validation.
	ErrSchemaValidation = errors.New("manifest schema validation failed")

	// ErrCrossRefValidation indicates declared content and on-disk
	// definitions are inconsistent, or a component-class rule was violated.
	ErrCrossRefValidation = errors.New("content validation failed")

	// ErrAssetValidation indicates the package icon or help materials
	// failed validation.
	ErrAssetValidation = errors.New("asset validation failed")

	// ErrWheelBuild indicates the Python wheel build toolchain failed.
	ErrWheelBuild = errors.New("wheel build failed")

	// ErrNotAnFpkg indicates the input file is not a .fpkg archive.
	ErrNotAnFpkg = errors.New("not an fpkg file")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrManifestNotFound):
		return ExitManifestMissing
	case errors.Is(err, ErrSchemaValidation):
		return ExitSchemaError
	case errors.Is(err, ErrCrossRefValidation):
		return ExitCrossRefError
	case errors.Is(err, ErrAssetValidation):
		return ExitAssetError
	case errors.Is(err, ErrWheelBuild):
		return ExitBuildError
	case errors.Is(err, ErrNotAnFpkg):
		return ExitUsageError
	}

	// Check for cobra argument and flag error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "arg(s), received") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "invalid argument") {
		return ExitUsageError
	}

	return ExitGeneralError
}
