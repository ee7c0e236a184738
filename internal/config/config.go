// Package config resolves the build environment for a packaging run.
//
// Settings come from an optional .env file at the package root, overridden
// by process environment variables of the same name. Everything has a
// working default, so packages need no configuration at all.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional per-package environment file.
const EnvFileName = ".env"

// Environment variable names.
const (
	EnvPython    = "FME_PACKAGER_PYTHON"
	EnvOutputDir = "FME_PACKAGER_OUTPUT_DIR"
)

// BuildConfig is the resolved build environment.
type BuildConfig struct {
	// Python is the interpreter used to rebuild wheel projects.
	// Empty means the builder's default.
	Python string

	// OutputDir overrides where the assembled archive is written.
	// Empty means dist/ under the package root.
	OutputDir string
}

// Load resolves the build config for the package at sourcePath. A missing
// .env file is not an error; a malformed one is.
func Load(sourcePath string) (*BuildConfig, error) {
	values := map[string]string{}

	envPath := filepath.Join(sourcePath, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		values, err = godotenv.Read(envPath)
		if err != nil {
			return nil, err
		}
	}

	return &BuildConfig{
		Python:    resolve(values, EnvPython),
		OutputDir: resolve(values, EnvOutputDir),
	}, nil
}

// resolve prefers the process environment over the .env file.
func resolve(fileValues map[string]string, key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fileValues[key]
}
