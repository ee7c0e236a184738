package packager

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// ExpectedHelpContexts maps the help contexts FME Workbench will look up for
// the declared content to the doc file each context should reference.
// Transformers get a single topic; formats get a family of topics whose set
// depends on the format's direction.
func ExpectedHelpContexts(manifest *fpkg.Manifest, inv *fpkg.Inventory) map[string]string {
	index := make(map[string]string)
	ident := fmt.Sprintf("%s_%s", manifest.PublisherUID, manifest.UID)

	for _, tr := range manifest.PackageContent.Transformers {
		index[fmt.Sprintf("fmx_%s_%s", ident, tr.Name)] = "/" + tr.Name + ".htm"
	}

	for _, entry := range manifest.PackageContent.Formats {
		direction := "rw"
		if def := inv.Find(fpkg.ContentFormats, entry.Name); def != nil && def.FormatDirection != "" {
			direction = def.FormatDirection
		}
		fmtIdent := strings.ToLower(fmt.Sprintf("%s_%s", ident, entry.Name))

		// The context prefix is "rw" even for read-only or write-only formats.
		index[fmt.Sprintf("rw_%s_index", fmtIdent)] = "/" + entry.Name + ".htm"
		index[fmt.Sprintf("rw_%s_feature_rep", fmtIdent)] = "/" + entry.Name + "_feature_rep.htm"
		for _, d := range []string{"r", "w"} {
			if !strings.Contains(direction, d) {
				continue
			}
			index[fmt.Sprintf("param_%s_%s", fmtIdent, d)] = fmt.Sprintf("/%s_param_%s.htm", entry.Name, d)
			index[fmt.Sprintf("ft_%s_param_%s", fmtIdent, d)] = fmt.Sprintf("/%s_ft_param_%s.htm", entry.Name, d)
		}
		index[fmt.Sprintf("ft_%s_user_attr", fmtIdent)] = "/" + entry.Name + "_ft_user_attr.htm"
	}

	return index
}

// ValidateHelp checks the help directory's index against the declared
// content. The index must exist and every row must reference an existing
// htm(l) or md file by absolute archive path. Contexts outside the expected
// set are fatal; expected contexts with no row only warn, since packages
// may legitimately ship partial documentation.
//
// A package with no help directory skips help entirely.
func ValidateHelp(helpDir string, manifest *fpkg.Manifest, inv *fpkg.Inventory, logger fpkg.Logger) error {
	indexPath := filepath.Join(helpDir, fpkg.HelpIndexFilename)
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", fpkg.ErrAssetValidation, indexPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: invalid %s: %v", fpkg.ErrAssetValidation, fpkg.HelpIndexFilename, err)
	}

	links := make(map[string]string, len(rows))
	for _, row := range rows {
		links[row[0]] = row[1]
	}

	for context, docPath := range links {
		if strings.Contains(context, ".") {
			return fmt.Errorf("%w: help context %s cannot contain '.'", fpkg.ErrAssetValidation, context)
		}
		if !strings.HasPrefix(docPath, "/") {
			return fmt.Errorf("%w: help path must start with /: %s", fpkg.ErrAssetValidation, docPath)
		}

		doc := filepath.Join(helpDir, strings.TrimPrefix(docPath, "/"))
		if _, err := os.Stat(doc); err != nil {
			return fmt.Errorf("%w: help entry %s does not exist", fpkg.ErrAssetValidation, doc)
		}

		switch strings.ToLower(strings.TrimPrefix(filepath.Ext(doc), ".")) {
		case "htm", "html", "md":
		default:
			return fmt.Errorf("%w: %s must be htm(l) or md", fpkg.ErrAssetValidation, doc)
		}
	}

	expected := ExpectedHelpContexts(manifest, inv)
	var unrecognized []string
	for context := range links {
		if _, ok := expected[context]; !ok {
			unrecognized = append(unrecognized, context)
		}
	}
	if len(unrecognized) > 0 {
		return fmt.Errorf("%w: unrecognized help contexts: %s", fpkg.ErrAssetValidation, strings.Join(unrecognized, ", "))
	}

	for context, docPath := range expected {
		if _, ok := links[context]; !ok {
			logger.Warn("Missing help for %s (%s)", context, docPath)
		}
	}

	return nil
}
