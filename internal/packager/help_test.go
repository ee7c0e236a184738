package packager

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safesoftware/fme-packager/internal/logging"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

func helpManifest() *fpkg.Manifest {
	return &fpkg.Manifest{
		UID:          "my-package",
		PublisherUID: "example",
		PackageContent: fpkg.PackageContent{
			Transformers: []fpkg.TransformerEntry{{Name: "MyGreeter", Version: 1}},
		},
	}
}

func emptyInventory() *fpkg.Inventory {
	return &fpkg.Inventory{Definitions: make(map[fpkg.ContentType][]fpkg.ComponentDefinition)}
}

func TestExpectedHelpContexts_Transformer(t *testing.T) {
	index := ExpectedHelpContexts(helpManifest(), emptyInventory())

	require.Len(t, index, 1)
	assert.Equal(t, "/MyGreeter.htm", index["fmx_example_my-package_MyGreeter"])
}

func TestExpectedHelpContexts_FormatDirections(t *testing.T) {
	manifest := helpManifest()
	manifest.PackageContent.Transformers = nil
	manifest.PackageContent.Formats = []fpkg.ContentEntry{{Name: "demo"}}

	inv := emptyInventory()
	inv.Definitions[fpkg.ContentFormats] = []fpkg.ComponentDefinition{
		{Type: fpkg.ContentFormats, Name: "demo", FormatDirection: "r"},
	}

	index := ExpectedHelpContexts(manifest, inv)

	assert.Contains(t, index, "rw_example_my-package_demo_index")
	assert.Contains(t, index, "rw_example_my-package_demo_feature_rep")
	assert.Contains(t, index, "ft_example_my-package_demo_user_attr")
	assert.Contains(t, index, "param_example_my-package_demo_r")
	assert.Contains(t, index, "ft_example_my-package_demo_param_r")
	assert.NotContains(t, index, "param_example_my-package_demo_w", "write topics not expected for read-only format")
	assert.NotContains(t, index, "ft_example_my-package_demo_param_w")
}

func writeHelpDir(t *testing.T, index string, docs ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, doc), []byte("<html></html>"), 0o644))
	}
	if index != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fpkg.HelpIndexFilename), []byte(index), 0o644))
	}
	return dir
}

func TestValidateHelp_Valid(t *testing.T) {
	dir := writeHelpDir(t, "fmx_example_my-package_MyGreeter,/MyGreeter.htm\n", "MyGreeter.htm")

	err := ValidateHelp(dir, helpManifest(), emptyInventory(), logging.NewNullLogger())
	assert.NoError(t, err)
}

func TestValidateHelp_MissingIndexIsFatal(t *testing.T) {
	dir := writeHelpDir(t, "", "MyGreeter.htm")

	err := ValidateHelp(dir, helpManifest(), emptyInventory(), logging.NewNullLogger())
	assert.ErrorIs(t, err, fpkg.ErrAssetValidation)
}

func TestValidateHelp_UnrecognizedContextIsFatal(t *testing.T) {
	dir := writeHelpDir(t,
		"fmx_example_my-package_MyGreeter,/MyGreeter.htm\nfmx_other_thing,/MyGreeter.htm\n",
		"MyGreeter.htm")

	err := ValidateHelp(dir, helpManifest(), emptyInventory(), logging.NewNullLogger())
	require.ErrorIs(t, err, fpkg.ErrAssetValidation)
	assert.Contains(t, err.Error(), "unrecognized help contexts: fmx_other_thing")
}

func TestValidateHelp_MissingExpectedContextWarns(t *testing.T) {
	dir := writeHelpDir(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, fpkg.HelpIndexFilename), nil, 0o644))

	var buf bytes.Buffer
	logger := logging.NewConsoleLoggerTo(&buf, false)

	err := ValidateHelp(dir, helpManifest(), emptyInventory(), logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fmx_example_my-package_MyGreeter")
}

func TestValidateHelp_RowDefects(t *testing.T) {
	tests := []struct {
		name    string
		index   string
		docs    []string
		wantMsg string
	}{
		{"relative path", "fmx_example_my-package_MyGreeter,MyGreeter.htm", []string{"MyGreeter.htm"}, "must start with /"},
		{"missing doc", "fmx_example_my-package_MyGreeter,/MyGreeter.htm", nil, "does not exist"},
		{"wrong extension", "fmx_example_my-package_MyGreeter,/MyGreeter.txt", []string{"MyGreeter.txt"}, "htm(l) or md"},
		{"dotted context", "fmx.example,/MyGreeter.htm", []string{"MyGreeter.htm"}, "cannot contain '.'"},
		{"wrong column count", "only_one_column", []string{"MyGreeter.htm"}, "invalid package_help.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeHelpDir(t, tt.index+"\n", tt.docs...)

			err := ValidateHelp(dir, helpManifest(), emptyInventory(), logging.NewNullLogger())
			require.ErrorIs(t, err, fpkg.ErrAssetValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
