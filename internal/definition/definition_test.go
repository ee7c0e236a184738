package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customFmx = `#!
# TRANSFORMER_BEGIN example.my-package.customFooBar,1,Examples,a1b2c3,"Linked Always",No,1,No,No,23200,Yes,No,37
# body follows
MACRO foo bar
# TRANSFORMER_END
`

const customFmxTwoVersions = `FMW0001
# TRANSFORMER_BEGIN example.my-package.test,2,Examples,a1b2c3,"Embedded Always",No,1,No,No,23200,Yes,No,310
encryptedbody==
# TRANSFORMER_BEGIN example.my-package.test,1,Examples,a1b2c3,"Embedded Always",No,1,No,No,22000,Yes,No,310
MACRO old
`

const legacyFmx = `TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 2
CATEGORY: Strings
PYTHON_COMPATIBILITY: 38
PARAMETER_NAME: GREETING
PARAMETER_DEFAULT: hello
TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 1
PYTHON_COMPATIBILITY: 36
`

const greeterFmxj = `{
  "info": {
    "name": "example.my-package.DemoGreeter",
    "categories": ["Strings"],
    "aliases": ["Hello"]
  },
  "versions": [
    {"version": 1, "changes": "Initial release.", "pythonCompatibility": "38"},
    {"version": 2, "changes": "Bug fixes.", "pythonCompatibility": "311"}
  ]
}`

func TestParseTransformer_CustomFmx(t *testing.T) {
	def, err := ParseTransformer("transformers/customFooBar.fmx", []byte(customFmx))
	require.NoError(t, err)

	assert.True(t, def.Custom)
	assert.False(t, def.Encrypted)
	assert.Equal(t, "example.my-package.customFooBar", def.DeclaredName)
	require.Len(t, def.Versions, 1)
	v := def.Versions[0]
	assert.Equal(t, 1, v.Version)
	assert.Equal(t, `"Linked Always"`, v.InsertMode)
	assert.Equal(t, "37", v.PythonCompatibility)
	assert.Equal(t, 23200, v.BuildNum)
	assert.False(t, v.Deprecated)
}

func TestParseTransformer_CustomFmxEncryptedVersioned(t *testing.T) {
	def, err := ParseTransformer("transformers/customEncrypted2Ver.fmx", []byte(customFmxTwoVersions))
	require.NoError(t, err)

	assert.True(t, def.Custom)
	assert.True(t, def.Encrypted)
	require.Len(t, def.Versions, 2)
	assert.Equal(t, 2, def.Versions[0].Version)
	assert.Equal(t, 1, def.Versions[1].Version)
	for _, v := range def.Versions {
		assert.Equal(t, `"Embedded Always"`, v.InsertMode)
		assert.Equal(t, "310", v.PythonCompatibility)
	}
}

func TestParseTransformer_LegacyFmx(t *testing.T) {
	def, err := ParseTransformer("transformers/MyGreeter.fmx", []byte(legacyFmx))
	require.NoError(t, err)

	assert.False(t, def.Custom)
	assert.Equal(t, "example.my-package.MyGreeter", def.DeclaredName)
	require.Len(t, def.Versions, 2)

	latest := def.Latest()
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "38", latest.PythonCompatibility)
	assert.Equal(t, "36", def.Versions[1].PythonCompatibility)
	assert.Equal(t, []string{"example.my-package.MyGreeter"}, def.DeclaredNames)
}

func TestParseTransformer_LegacyFmxRecordsEveryName(t *testing.T) {
	renamed := legacyFmx + "TRANSFORMER_NAME: example.my-package.OldName\nVERSION: 0\n"
	def, err := ParseTransformer("transformers/MyGreeter.fmx", []byte(renamed))
	require.NoError(t, err)

	assert.Equal(t, "example.my-package.MyGreeter", def.DeclaredName)
	assert.Equal(t, []string{"example.my-package.MyGreeter", "example.my-package.OldName"}, def.DeclaredNames)
}

func TestParseTransformer_LegacyFmxSkipsParameters(t *testing.T) {
	def, err := ParseTransformer("transformers/MyGreeter.fmx", []byte(legacyFmx))
	require.NoError(t, err)
	// PARAMETER_* records must not leak into any extracted field.
	assert.NotContains(t, def.DeclaredName, "GREETING")
}

func TestParseTransformer_Fmxj(t *testing.T) {
	def, err := ParseTransformer("transformers/DemoGreeter.fmxj", []byte(greeterFmxj))
	require.NoError(t, err)

	assert.Equal(t, "example.my-package.DemoGreeter", def.DeclaredName)
	assert.Equal(t, []string{"Hello"}, def.Aliases)
	assert.Equal(t, []string{"Strings"}, def.Categories)
	require.Len(t, def.Versions, 2)
	assert.Equal(t, 2, def.Latest().Version)
	assert.Equal(t, "311", def.Latest().PythonCompatibility)
}

func TestParseTransformer_FmxjMisspelledCompatibilityKey(t *testing.T) {
	content := `{
  "info": {"name": "example.my-package.PortConfig"},
  "versions": [{"version": 1, "pythonCompatability": "36"}]
}`
	def, err := ParseTransformer("transformers/PortConfig.fmxj", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "36", def.Latest().PythonCompatibility)
}

func TestParseTransformer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"zero versions fmxj", "t.fmxj", `{"info": {"name": "x"}, "versions": []}`},
		{"missing name fmxj", "t.fmxj", `{"versions": [{"version": 1}]}`},
		{"invalid json", "t.fmxj", `{`},
		{"no transformer name", "t.fmx", "VERSION: 1\n"},
		{"missing version record", "t.fmx", "TRANSFORMER_NAME: x\nCATEGORY: y\n"},
		{"custom without header", "t.fmx", "#!\nMACRO only\n"},
		{"short custom header", "t.fmx", "#!\n# TRANSFORMER_BEGIN name,1,cat\n"},
		{"unknown extension", "t.fms", "TRANSFORMER_NAME: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransformer(tt.path, []byte(tt.content))
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.path, parseErr.Path)
		})
	}
}

func TestParseTransformer_InvalidUTF8(t *testing.T) {
	_, err := ParseTransformer("transformers/Bad.fmx", []byte{0xff, 0xfe, 0x00})
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "UTF-8")
	assert.Contains(t, parseErr.Error(), "transformers/Bad.fmx")
}

func TestParseTransformer_MalformedVersionCoerced(t *testing.T) {
	content := "TRANSFORMER_NAME: example.my-package.X\nVERSION: beta\nPYTHON_COMPATIBILITY: 36\n"
	def, err := ParseTransformer("t.fmx", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 0, def.Latest().Version)
}

func TestParseFormatInfo(t *testing.T) {
	line := "EXAMPLE.MY-PACKAGE.DEMO|Demo Format|FILE|rw|Yes|Yes|*.demo|DYNAMIC|No|||Yes|0|0|GENERIC|No|Demo"
	info, err := ParseFormatInfo("formats/demo.db", line)
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.MY-PACKAGE.DEMO", info.FormatName)
	assert.Equal(t, "Demo Format", info.FormatLongName)
	assert.Equal(t, "rw", info.Direction)
	assert.Equal(t, "Demo", info.MarketingFamily)
}

func TestParseFormatInfo_WrongFieldCount(t *testing.T) {
	_, err := ParseFormatInfo("formats/demo.db", "A|B|C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 17")
}

func TestLastFormatInfoLine(t *testing.T) {
	content := "; comment\n; another\nFIRST|line\nLAST|line\n"
	line, err := LastFormatInfoLine("formats/demo.db", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "LAST|line", line)
}

func TestLastFormatInfoLine_Empty(t *testing.T) {
	_, err := LastFormatInfoLine("formats/demo.db", []byte("; only comments\n"))
	require.Error(t, err)
}
