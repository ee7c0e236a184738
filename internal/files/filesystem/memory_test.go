package filesystem

import (
	"testing"
)

func TestMemoryFileSystem_ReadFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	mfs.AddFile("package.yml", "uid: example\n")

	content, err := mfs.ReadFile("/pkg/package.yml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(content) != "uid: example\n" {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestMemoryFileSystem_ImplicitDirectories(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	mfs.AddFile("transformers/Greeter.fmx", "TRANSFORMER_NAME: Greeter")

	info, err := mfs.Stat("/pkg/transformers")
	if err != nil {
		t.Fatalf("Parent directory should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected directory")
	}
}

func TestMemoryFileSystem_WalkDeterministic(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	mfs.AddFile("b.txt", "b")
	mfs.AddFile("a.txt", "a")
	mfs.AddFile("sub/c.txt", "c")

	dir, err := mfs.Open("/pkg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var paths []string
	err = dir.Walk(func(f File, err error) error {
		if err != nil {
			return err
		}
		if !f.Info().IsDir() {
			paths = append(paths, f.RelativePath())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{"a.txt", "b.txt", "sub/c.txt"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestMemoryFileSystem_OpenSubdirectoryRelativePaths(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	mfs.AddFile("transformers/Greeter.fmx", "x")

	dir, err := mfs.Open("/pkg/transformers")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var got string
	_ = dir.Walk(func(f File, err error) error {
		if err == nil && !f.Info().IsDir() {
			got = f.RelativePath()
		}
		return nil
	})

	if got != "Greeter.fmx" {
		t.Errorf("RelativePath = %q, want %q", got, "Greeter.fmx")
	}
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	mfs.AddFile("python/wheel-proj/pyproject.toml", "")
	mfs.AddFile("python/demo.whl", "")

	entries, err := mfs.ReadDir("/pkg/python")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name() != "demo.whl" || entries[1].Name() != "wheel-proj" {
		t.Errorf("Unexpected entries: %v, %v", entries[0].Name(), entries[1].Name())
	}
}

func TestMemoryFileSystem_OpenMissing(t *testing.T) {
	mfs := NewMemoryFileSystem("/pkg")
	if _, err := mfs.Open("/pkg/nope"); err == nil {
		t.Error("Expected error for missing directory")
	}
}
