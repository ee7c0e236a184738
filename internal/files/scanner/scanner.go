package scanner

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/safesoftware/fme-packager/internal/definition"
	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// buildConfigFiles mark a python/ subdirectory as a buildable wheel project.
var buildConfigFiles = []string{"pyproject.toml", "setup.py", "setup.cfg"}

// Scanner discovers component definitions under a package's content
// subdirectories and parses them into an inventory snapshot.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	logger     fpkg.Logger
}

// NewScanner creates a scanner over the OS filesystem.
// A nil logger is replaced with a NullLogger.
func NewScanner(logger fpkg.Logger) *Scanner {
	return NewScannerWithFS(logger, filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(logger fpkg.Logger, fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Scanner{
		fsProvider: fsProvider,
		logger:     logger,
	}
}

// Scan walks the content subdirectories of the package rooted at root and
// returns the discovered inventory. Definition files that fail to parse are
// reported in the error slice; scanning continues so one run surfaces every
// defective file. A missing content subdirectory yields no definitions of
// that type and no error.
func (s *Scanner) Scan(root string) (*fpkg.Inventory, []error) {
	inv := &fpkg.Inventory{
		Definitions: make(map[fpkg.ContentType][]fpkg.ComponentDefinition),
	}

	var errs []error
	for _, contentType := range fpkg.ContentTypes {
		dir := filepath.Join(root, contentType.Directory())
		entries, err := s.fsProvider.ReadDir(dir)
		if err != nil {
			continue
		}

		if contentType == fpkg.ContentPythonPackages {
			s.scanPython(dir, entries, inv)
			continue
		}

		defs, scanErrs := s.scanDefinitions(contentType, dir, entries)
		inv.Definitions[contentType] = defs
		errs = append(errs, scanErrs...)
	}

	return inv, errs
}

// scanDefinitions parses the definition files of one content type.
func (s *Scanner) scanDefinitions(contentType fpkg.ContentType, dir string, entries []filesystem.FileInfo) ([]fpkg.ComponentDefinition, []error) {
	siblings := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			siblings[entry.Name()] = true
		}
	}

	var (
		defs []fpkg.ComponentDefinition
		errs []error
	)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		def, err := s.parseEntry(contentType, dir, entry.Name(), siblings)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if def == nil {
			continue
		}
		s.logger.Verbose("Discovered %s definition: %s", contentType, def.Path)
		defs = append(defs, *def)
	}
	return defs, errs
}

// parseEntry parses a single directory entry into a definition, or returns
// nil when the entry is not a definition file for the content type.
func (s *Scanner) parseEntry(contentType fpkg.ContentType, dir, name string, siblings map[string]bool) (*fpkg.ComponentDefinition, error) {
	relPath := path.Join(contentType.Directory(), name)
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	var def *fpkg.ComponentDefinition
	switch contentType {
	case fpkg.ContentTransformers:
		if ext != ".fmx" && ext != ".fmxj" {
			return nil, nil
		}
		content, err := s.fsProvider.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		def, err = definition.ParseTransformer(relPath, content)
		if err != nil {
			return nil, err
		}
		def.HasMapping = siblings[base+".fms"]
		if def.Encrypted {
			s.logger.Verbose("Transformer definition %s is encrypted", relPath)
		}

	case fpkg.ContentFormats:
		if ext != ".fmf" {
			return nil, nil
		}
		content, err := s.fsProvider.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		def, err = definition.ParseFormat(relPath, content)
		if err != nil {
			return nil, err
		}
		def.HasMapping = siblings[base+".fms"]
		if err := s.attachFormatInfo(def, dir, base); err != nil {
			return nil, err
		}

	case fpkg.ContentWebServices:
		// Web service entries are declared by full filename, any extension.
		if ext == ".md" {
			return nil, nil
		}
		def = &fpkg.ComponentDefinition{Name: name}

	case fpkg.ContentWebFilesystems:
		if ext != ".fme" {
			return nil, nil
		}
		def = &fpkg.ComponentDefinition{
			HasIcon: siblings[base+".png"],
		}

	default:
		return nil, nil
	}

	def.Type = contentType
	def.Path = relPath
	if def.Name == "" {
		def.Name = base
	}
	def.HasDoc = siblings[base+".md"]
	return def, nil
}

// attachFormatInfo parses the formatinfo (.db) record next to a format
// definition, when one exists.
func (s *Scanner) attachFormatInfo(def *fpkg.ComponentDefinition, dir, base string) error {
	dbName := base + ".db"
	dbPath := filepath.Join(dir, dbName)
	content, err := s.fsProvider.ReadFile(dbPath)
	if err != nil {
		return nil
	}

	relPath := path.Join(fpkg.ContentFormats.Directory(), dbName)
	line, err := definition.LastFormatInfoLine(relPath, content)
	if err != nil {
		return err
	}
	info, err := definition.ParseFormatInfo(relPath, line)
	if err != nil {
		return err
	}

	def.HasFormatInfo = true
	def.FormatInfoName = info.FormatName
	def.FormatDirection = strings.ToLower(info.Direction)
	return nil
}

// scanPython records prebuilt wheels and buildable wheel projects under the
// python/ content directory.
func (s *Scanner) scanPython(dir string, entries []filesystem.FileInfo, inv *fpkg.Inventory) {
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if !entry.IsDir() {
			if strings.HasSuffix(strings.ToLower(name), ".whl") {
				inv.Wheels = append(inv.Wheels, name)
			}
			continue
		}

		for _, config := range buildConfigFiles {
			if info, err := s.fsProvider.Stat(filepath.Join(dir, name, config)); err == nil && !info.IsDir() {
				s.logger.Verbose("Discovered wheel project: %s", name)
				inv.WheelProjects = append(inv.WheelProjects, name)
				break
			}
		}
	}

	sort.Strings(inv.Wheels)
	sort.Strings(inv.WheelProjects)
}
