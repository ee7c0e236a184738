// Package scanner builds the content inventory of a package directory.
//
// The scanner takes a one-shot snapshot of the definition files found under
// the package's content subdirectories (transformers/, formats/,
// web_services/, web_filesystems/, python/). Every validation decision
// downstream works against this snapshot; the directories are never
// re-scanned within a run.
//
// The scanner is filesystem-agnostic through the
// filesystem.FileSystemProvider interface, enabling both production use
// with the OS filesystem and testing with in-memory package layouts.
package scanner
