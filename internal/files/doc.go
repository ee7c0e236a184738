// Package files provides file-related functionality organized into sub-packages.
//
// This package is organized into the following sub-packages:
//   - filesystem: Filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: Package directory discovery and component definition parsing
//
// # Usage
//
//	import (
//	    "github.com/safesoftware/fme-packager/internal/files/filesystem"
//	    "github.com/safesoftware/fme-packager/internal/files/scanner"
//	)
//
//	// Scan a package source directory
//	s := scanner.NewScanner(logger)
//	inventory, errs := s.Scan("./my-package")
//
// # Organization
//
// Each sub-package is focused on a specific concern:
//   - filesystem: Provides filesystem abstraction for testability
//   - scanner: Walks content directories and parses transformer and format definitions
package files
