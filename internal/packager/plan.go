package packager

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/safesoftware/fme-packager/internal/files/filesystem"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// requiredRootFiles must exist at the package root and are always archived.
var requiredRootFiles = []string{fpkg.ManifestFilename, "README.md", "CHANGES.md"}

// localizationGlobs allow-list the fixed-name localization files; localized
// per-component docs are matched separately against the declared names.
var localizationGlobs = []string{"guiprompts_??.txt", "transformer-localized.??"}

// Item is one file selected for inclusion in the archive.
type Item struct {
	// Source is the file's path on disk.
	Source string

	// Target is the file's forward-slash path inside the archive.
	Target string
}

// Plan is the ordered list of files selected for the output archive.
// It never includes components absent from the manifest declaration, and
// always excludes the deny-list of housekeeping files.
type Plan struct {
	Items []Item
}

// add appends an item unless the target is already planned.
func (p *Plan) add(source, target string) {
	for _, item := range p.Items {
		if item.Target == target {
			return
		}
	}
	p.Items = append(p.Items, Item{Source: source, Target: target})
}

// BuildPlan selects the files to archive for the package rooted at srcDir.
// Undeclared component definitions are silently left out; a declared
// component's files missing from disk were already rejected by the
// cross-reference validator, so absence here is treated as an IO error.
func (p *Packager) BuildPlan(srcDir string, manifest *fpkg.Manifest, inv *fpkg.Inventory) (*Plan, error) {
	plan := &Plan{}

	for _, name := range requiredRootFiles {
		src := filepath.Join(srcDir, name)
		if _, err := p.fsProvider.Stat(src); err != nil {
			return nil, fmt.Errorf("%w: required file %s does not exist", fpkg.ErrAssetValidation, name)
		}
		plan.add(src, name)
	}

	iconPath := filepath.Join(srcDir, fpkg.IconFilename)
	if _, err := p.fsProvider.Stat(iconPath); err == nil {
		plan.add(iconPath, fpkg.IconFilename)
	} else {
		p.logger.Info("FME package has no icon")
	}

	for _, contentType := range []fpkg.ContentType{fpkg.ContentTransformers, fpkg.ContentFormats} {
		if err := p.planTree(plan, srcDir, contentType.Directory()); err != nil {
			return nil, err
		}
	}

	if err := p.planDefinitions(plan, srcDir, manifest, inv); err != nil {
		return nil, err
	}
	p.planLocalization(plan, srcDir, manifest)
	if err := p.planHelp(plan, srcDir); err != nil {
		return nil, err
	}
	p.planWheels(plan, srcDir, manifest, inv)

	return plan, nil
}

// planDefinitions adds the definition files of every declared component.
func (p *Packager) planDefinitions(plan *Plan, srcDir string, manifest *fpkg.Manifest, inv *fpkg.Inventory) error {
	for _, tr := range manifest.PackageContent.Transformers {
		def := inv.Find(fpkg.ContentTransformers, tr.Name)
		if def == nil {
			continue
		}
		p.logger.Info("Working on transformer: %s", tr.Name)
		plan.add(filepath.Join(srcDir, filepath.FromSlash(def.Path)), def.Path)
		if def.HasMapping {
			p.addSidecar(plan, srcDir, fpkg.ContentTransformers, tr.Name+".fms")
		}
	}

	for _, entry := range manifest.PackageContent.Formats {
		def := inv.Find(fpkg.ContentFormats, entry.Name)
		if def == nil {
			continue
		}
		p.logger.Info("Working on format: %s", entry.Name)
		plan.add(filepath.Join(srcDir, filepath.FromSlash(def.Path)), def.Path)
		if def.HasFormatInfo {
			p.addSidecar(plan, srcDir, fpkg.ContentFormats, entry.Name+".db")
		}
		if def.HasMapping {
			p.addSidecar(plan, srcDir, fpkg.ContentFormats, entry.Name+".fms")
		}
	}

	for _, entry := range manifest.PackageContent.WebServices {
		target := path.Join(fpkg.ContentWebServices.Directory(), entry.Name)
		plan.add(filepath.Join(srcDir, filepath.FromSlash(target)), target)
	}

	for _, entry := range manifest.PackageContent.WebFilesystems {
		def := inv.Find(fpkg.ContentWebFilesystems, entry.Name)
		if def == nil {
			continue
		}
		plan.add(filepath.Join(srcDir, filepath.FromSlash(def.Path)), def.Path)
		if def.HasIcon {
			iconName := entry.Name + ".png"
			iconSrc := filepath.Join(srcDir, fpkg.ContentWebFilesystems.Directory(), iconName)
			if err := EnforcePNG(iconSrc); err != nil {
				return err
			}
			plan.add(iconSrc, path.Join(fpkg.ContentWebFilesystems.Directory(), iconName))
		}
	}

	return nil
}

// addSidecar includes a companion file recorded in the inventory. Presence
// was established by the scanner, so no re-stat happens here.
func (p *Packager) addSidecar(plan *Plan, srcDir string, contentType fpkg.ContentType, name string) {
	plan.add(filepath.Join(srcDir, contentType.Directory(), name), path.Join(contentType.Directory(), name))
}

// planTree includes every file under a subdirectory that survives the
// deny-list. Definition file extensions sit on the deny-list, so their copy
// stays gated by declaration in planDefinitions.
func (p *Packager) planTree(plan *Plan, srcDir, subDir string) error {
	root := filepath.Join(srcDir, subDir)
	if info, err := p.fsProvider.Stat(root); err != nil || !info.IsDir() {
		return nil
	}

	dir, err := p.fsProvider.Open(root)
	if err != nil {
		return err
	}

	return dir.Walk(func(f filesystem.File, err error) error {
		if err != nil {
			return err
		}
		if f.Info().IsDir() {
			return nil
		}

		rel := filepath.ToSlash(f.RelativePath())
		for _, component := range strings.Split(rel, "/") {
			if denied(component) {
				return nil
			}
		}
		plan.add(f.Path(), path.Join(subDir, rel))
		return nil
	})
}

// planLocalization includes localization files matching the allow-list:
// fixed gui prompt names plus localized docs for declared components.
func (p *Packager) planLocalization(plan *Plan, srcDir string, manifest *fpkg.Manifest) {
	dir := filepath.Join(srcDir, "localization")
	entries, err := p.fsProvider.ReadDir(dir)
	if err != nil {
		return
	}

	globs := append([]string{}, localizationGlobs...)
	for _, entry := range manifest.PackageContent.Formats {
		globs = append(globs, entry.Name+"_??.md")
	}
	for _, tr := range manifest.PackageContent.Transformers {
		globs = append(globs, tr.Name+"_??.md")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, glob := range globs {
			if ok, _ := doublestar.Match(glob, entry.Name()); ok {
				p.logger.Info("Copying localization: %s", entry.Name())
				plan.add(filepath.Join(dir, entry.Name()), path.Join("localization", entry.Name()))
				break
			}
		}
	}
}

// planHelp includes the help tree. Help content was validated beforehand;
// the deny-list still applies so authoring leftovers stay out.
func (p *Packager) planHelp(plan *Plan, srcDir string) error {
	return p.planTree(plan, srcDir, "help")
}

// planWheels includes prebuilt wheels whose distribution name matches a
// declared python package. Wheels built from project directories are added
// to the staging tree by the rebuilder instead.
func (p *Packager) planWheels(plan *Plan, srcDir string, manifest *fpkg.Manifest, inv *fpkg.Inventory) {
	pythonDir := fpkg.ContentPythonPackages.Directory()
	for _, wheel := range inv.Wheels {
		if !wheelDeclared(wheel, manifest.PackageContent.PythonPackages) {
			continue
		}
		plan.add(filepath.Join(srcDir, pythonDir, wheel), path.Join("python", wheel))
	}
}

func wheelDeclared(wheel string, declared []fpkg.ContentEntry) bool {
	dist, _, _ := strings.Cut(wheel, "-")
	for _, entry := range declared {
		if strings.EqualFold(normalizeDistName(dist), normalizeDistName(entry.Name)) {
			return true
		}
	}
	return false
}

func normalizeDistName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// denied reports whether a file or directory name matches the deny-list.
func denied(name string) bool {
	for _, glob := range fpkg.TreeCopyIgnoreGlobs {
		if ok, _ := doublestar.Match(glob, name); ok {
			return true
		}
	}
	return false
}
