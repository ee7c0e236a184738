// Package summarizer produces the JSON summary of an fpkg that FME Hub
// ingests: the manifest enriched with facts read from the definition files
// themselves, plus the archive's checksum.
package summarizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/safesoftware/fme-packager/internal/checksum"
	"github.com/safesoftware/fme-packager/internal/extractor"
	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/internal/files/scanner"
	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/internal/manifest"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// Summary is the Hub-facing description of a package.
type Summary struct {
	FpkgVersion     int      `json:"fpkg_version"`
	UID             string   `json:"uid"`
	PublisherUID    string   `json:"publisher_uid"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Version         string   `json:"version"`
	MinimumFMEBuild int      `json:"minimum_fme_build"`
	Author          Author   `json:"author"`
	Deprecated      bool     `json:"deprecated"`
	Categories      []string `json:"categories"`

	// SHA256 is the hex digest of the archive bytes. Empty when a package
	// directory was summarized instead of an archive.
	SHA256 string `json:"sha256,omitempty"`

	PackageContent Content `json:"package_content"`
}

// Author mirrors the manifest author for JSON output.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Content holds the enriched content arrays.
type Content struct {
	Transformers   []TransformerSummary `json:"transformers"`
	Formats        []FormatSummary      `json:"formats"`
	WebServices    []NamedSummary       `json:"web_services"`
	WebFilesystems []NamedSummary       `json:"web_filesystems"`
	PythonPackages []NamedSummary       `json:"python_packages"`
}

// TransformerSummary is one transformer enriched from its definition.
type TransformerSummary struct {
	Name                string   `json:"name"`
	LatestVersion       int      `json:"latest_version"`
	PythonCompatibility string   `json:"python_compatibility,omitempty"`
	Aliases             []string `json:"aliases"`
	Categories          []string `json:"categories"`
	Deprecated          bool     `json:"deprecated"`
	Description         *string  `json:"description"`
	DescriptionFormat   *string  `json:"description_format"`
}

// FormatSummary is one format enriched from its definition and formatinfo.
type FormatSummary struct {
	ShortName         string  `json:"short_name"`
	Name              string  `json:"name"`
	Direction         string  `json:"direction,omitempty"`
	Description       *string `json:"description"`
	DescriptionFormat *string `json:"description_format"`
}

// NamedSummary is a content item carrying only its name.
type NamedSummary struct {
	Name string `json:"name"`
}

// Summarizer builds package summaries.
type Summarizer struct {
	calculator checksum.Calculator
	logger     fpkg.Logger
}

// New creates a summarizer. Panics if calculator is nil.
func New(calculator checksum.Calculator, logger fpkg.Logger) *Summarizer {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Summarizer{calculator: calculator, logger: logger}
}

// SummarizeDir summarizes an extracted or unpacked package directory.
func (s *Summarizer) SummarizeDir(dir string) (*Summary, error) {
	provider := filesystem.NewOSFileSystem()

	doc, err := manifest.Load(provider, dir)
	if err != nil {
		return nil, err
	}
	m := doc.Manifest

	inv, scanErrs := scanner.NewScannerWithFS(s.logger, provider).Scan(dir)
	for _, scanErr := range scanErrs {
		s.logger.Warn("%v", scanErr)
	}

	summary := &Summary{
		FpkgVersion:     m.FpkgVersion,
		UID:             m.UID,
		PublisherUID:    m.PublisherUID,
		Name:            m.Name,
		Description:     m.Description,
		Version:         m.Version,
		MinimumFMEBuild: m.MinimumFMEBuild,
		Author:          Author{Name: m.Author.Name, Email: m.Author.Email},
		PackageContent: Content{
			Transformers:   []TransformerSummary{},
			Formats:        []FormatSummary{},
			WebServices:    []NamedSummary{},
			WebFilesystems: []NamedSummary{},
			PythonPackages: []NamedSummary{},
		},
	}

	categories := make(map[string]bool)
	for _, c := range m.Categories {
		categories[c] = true
	}

	allDeprecated := len(m.PackageContent.Transformers) > 0
	for _, tr := range m.PackageContent.Transformers {
		entry := TransformerSummary{
			Name:          tr.Name,
			LatestVersion: tr.Version,
			Aliases:       []string{},
			Categories:    []string{},
		}
		if def := inv.Find(fpkg.ContentTransformers, tr.Name); def != nil {
			if def.Aliases != nil {
				entry.Aliases = def.Aliases
			}
			if def.Categories != nil {
				entry.Categories = def.Categories
			}
			if latest := def.Latest(); latest != nil {
				entry.LatestVersion = latest.Version
				entry.PythonCompatibility = latest.PythonCompatibility
				entry.Deprecated = latest.Deprecated
			}
			for _, c := range def.Categories {
				categories[c] = true
			}
			entry.Description, entry.DescriptionFormat = readDescription(dir, def.Path)
		}
		if !entry.Deprecated {
			allDeprecated = false
		}
		summary.PackageContent.Transformers = append(summary.PackageContent.Transformers, entry)
	}

	for _, f := range m.PackageContent.Formats {
		entry := FormatSummary{
			ShortName: f.Name,
			Name:      m.QualifiedName(f.Name),
		}
		if def := inv.Find(fpkg.ContentFormats, f.Name); def != nil {
			entry.Direction = def.FormatDirection
			entry.Description, entry.DescriptionFormat = readDescription(dir, def.Path)
		}
		summary.PackageContent.Formats = append(summary.PackageContent.Formats, entry)
	}

	for _, ws := range m.PackageContent.WebServices {
		summary.PackageContent.WebServices = append(summary.PackageContent.WebServices,
			NamedSummary{Name: strings.TrimSuffix(ws.Name, ".xml")})
	}
	for _, wfs := range m.PackageContent.WebFilesystems {
		summary.PackageContent.WebFilesystems = append(summary.PackageContent.WebFilesystems, NamedSummary{Name: wfs.Name})
	}
	for _, pkg := range m.PackageContent.PythonPackages {
		summary.PackageContent.PythonPackages = append(summary.PackageContent.PythonPackages, NamedSummary{Name: pkg.Name})
	}

	summary.Deprecated = m.Deprecated || allDeprecated
	summary.Categories = sortedKeys(categories)
	return summary, nil
}

// SummarizeArchive extracts the archive to a temporary directory,
// summarizes it, and records the archive checksum.
func (s *Summarizer) SummarizeArchive(fpkgPath string) (*Summary, error) {
	dir, err := extractor.ExtractToTemp(fpkgPath)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	summary, err := s.SummarizeDir(dir)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fpkgPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive for checksum: %w", err)
	}
	summary.SHA256 = s.calculator.CalculateRaw(content)
	return summary, nil
}

// readDescription loads the markdown doc next to a definition.
func readDescription(dir, defPath string) (*string, *string) {
	base := strings.TrimSuffix(defPath, filepath.Ext(defPath))
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(base)+".md"))
	if err != nil {
		return nil, nil
	}
	description := string(content)
	format := "md"
	return &description, &format
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
