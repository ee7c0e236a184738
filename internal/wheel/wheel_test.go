package wheel

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

// fakeBuilder drops a wheel into the project's dist directory without
// running a toolchain.
type fakeBuilder struct {
	wheelName string
	err       error
	built     []string
}

func (b *fakeBuilder) Build(projectDir string) (string, error) {
	b.built = append(b.built, projectDir)
	if b.err != nil {
		return "", b.err
	}
	distDir := filepath.Join(projectDir, "dist")
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return "", err
	}
	artifact := filepath.Join(distDir, b.wheelName)
	if err := os.WriteFile(artifact, []byte("wheel bytes"), 0o644); err != nil {
		return "", err
	}
	return artifact, nil
}

func TestRebuild_NoProjectsIsNoOp(t *testing.T) {
	r := NewRebuilder(&fakeBuilder{}, nil)
	outputDir := filepath.Join(t.TempDir(), "out")

	built, err := r.Rebuild(t.TempDir(), nil, outputDir)
	require.NoError(t, err)
	assert.Empty(t, built)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestRebuild_CollectsWheels(t *testing.T) {
	pythonDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pythonDir, "my_lib"), 0o755))
	outputDir := filepath.Join(t.TempDir(), "out")

	builder := &fakeBuilder{wheelName: "my_lib-1.0.0-py3-none-any.whl"}
	r := NewRebuilder(builder, nil)

	built, err := r.Rebuild(pythonDir, []string{"my_lib"}, outputDir)
	require.NoError(t, err)
	require.Equal(t, []string{"my_lib-1.0.0-py3-none-any.whl"}, built)

	_, err = os.Stat(filepath.Join(outputDir, "my_lib-1.0.0-py3-none-any.whl"))
	assert.NoError(t, err, "wheel should be collected into the output directory")

	_, err = os.Stat(filepath.Join(pythonDir, "my_lib", "dist"))
	assert.True(t, os.IsNotExist(err), "nested dist directory should be removed")
}

func TestRebuild_BuildFailureAborts(t *testing.T) {
	builder := &fakeBuilder{err: fpkg.ErrWheelBuild}
	r := NewRebuilder(builder, nil)

	_, err := r.Rebuild(t.TempDir(), []string{"a", "b"}, filepath.Join(t.TempDir(), "out"))
	require.ErrorIs(t, err, fpkg.ErrWheelBuild)
	assert.Len(t, builder.built, 1, "build must abort on first failure")
}

func TestFindBuiltWheel(t *testing.T) {
	distDir := t.TempDir()

	_, err := findBuiltWheel(distDir)
	require.ErrorIs(t, err, fpkg.ErrWheelBuild, "empty dist directory")

	require.NoError(t, os.WriteFile(filepath.Join(distDir, "a-1.0-py3-none-any.whl"), nil, 0o644))
	path, err := findBuiltWheel(distDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(distDir, "a-1.0-py3-none-any.whl"), path)

	require.NoError(t, os.WriteFile(filepath.Join(distDir, "b-1.0-py3-none-any.whl"), nil, 0o644))
	_, err = findBuiltWheel(distDir)
	require.ErrorIs(t, err, fpkg.ErrWheelBuild, "two wheels is ambiguous")
}

func TestCheckWheels(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewConsoleLoggerTo(&buf, false)

	CheckWheels([]string{
		"good-1.0.0-py3-none-any.whl",
		"old-1.0.0-py2-none-any.whl",
		"native-1.0.0-py3-cp39-manylinux1_x86_64.whl",
	}, logger)

	output := buf.String()
	assert.NotContains(t, output, "good-1.0.0")
	assert.Contains(t, output, "old-1.0.0-py2-none-any.whl is not a Python 3 wheel")
	assert.Contains(t, output, "native-1.0.0-py3-cp39-manylinux1_x86_64.whl is not a pure-Python wheel")
}
