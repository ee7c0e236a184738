package manifest

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

//go:embed schema.cue
var manifestSchema string

// schemaRootPath is the root definition validated against.
const schemaRootPath = "#Manifest"

// SchemaError is one structural violation of the manifest schema.
// Path is a JSON-pointer style location inside package.yml.
type SchemaError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("package.yml: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("package.yml: %s", e.Message)
}

// Validate checks the raw manifest document against the embedded schema.
// It is a pure function over the document: all violations are collected
// and returned, none are raised.
//
// The CUE flow follows the usual three steps: compile the embedded schema,
// encode the document and unify it with the schema root, then validate
// requiring concrete values.
func Validate(doc *Document) []SchemaError {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(manifestSchema)
	if schemaValue.Err() != nil {
		return []SchemaError{{Message: fmt.Sprintf("internal error: failed to compile schema: %v", schemaValue.Err())}}
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaRootPath))
	if schemaRoot.Err() != nil {
		return []SchemaError{{Message: fmt.Sprintf("internal error: schema definition %s not found: %v", schemaRootPath, schemaRoot.Err())}}
	}

	docValue := ctx.Encode(doc.Raw)
	if docValue.Err() != nil {
		return []SchemaError{{Message: fmt.Sprintf("failed to encode manifest: %v", docValue.Err())}}
	}

	var errs []SchemaError
	unified := schemaRoot.Unify(docValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, SchemaError{
				Path:    pointerPath(cueerrors.Path(e)),
				Message: messageWithoutPath(e),
			})
		}
	}

	errs = append(errs, duplicateNameErrors(doc.Manifest)...)
	return errs
}

// duplicateNameErrors enforces uniqueItems on each content array: two items
// of the same type may not share a display name.
func duplicateNameErrors(m *fpkg.Manifest) []SchemaError {
	var errs []SchemaError
	for _, contentType := range fpkg.ContentTypes {
		seen := make(map[string]bool)
		for _, entry := range m.PackageContent.Entries(contentType) {
			if seen[entry.Name] {
				errs = append(errs, SchemaError{
					Path:    "/package_content/" + string(contentType),
					Message: fmt.Sprintf("duplicate name %q", entry.Name),
				})
			}
			seen[entry.Name] = true
		}
	}
	return errs
}

// pointerPath renders a CUE error path as a JSON-pointer style location,
// e.g. /package_content/transformers/0/name. CUE prefixes the path with the
// schema-root definition label (#Manifest), which is not part of package.yml
// and is dropped.
func pointerPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	if len(path) == 0 {
		return ""
	}
	return "/" + strings.Join(path, "/")
}

// messageWithoutPath strips the path prefix CUE sometimes repeats inside
// the error message itself.
func messageWithoutPath(e cueerrors.Error) string {
	msg := e.Error()
	if dotted := strings.Join(cueerrors.Path(e), "."); dotted != "" && strings.HasPrefix(msg, dotted) {
		msg = strings.TrimPrefix(msg, dotted)
		msg = strings.TrimPrefix(msg, ":")
		msg = strings.TrimSpace(msg)
	}
	return msg
}
