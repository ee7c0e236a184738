package packager

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

// ValidateIcon checks that the package icon is a PNG of at least
// IconMinDimension on each side and square. The icon itself is optional;
// callers skip validation when the file is absent.
func ValidateIcon(path string) error {
	config, err := decodePNGConfig(path)
	if err != nil {
		return err
	}

	if config.Width < fpkg.IconMinDimension || config.Height < fpkg.IconMinDimension {
		return fmt.Errorf("%w: min dimensions are %dx%d, %s is %dx%d",
			fpkg.ErrAssetValidation, fpkg.IconMinDimension, fpkg.IconMinDimension, path, config.Width, config.Height)
	}
	if config.Width != config.Height {
		return fmt.Errorf("%w: %s must be square, got %dx%d", fpkg.ErrAssetValidation, path, config.Width, config.Height)
	}
	return nil
}

// EnforcePNG checks that the file decodes as a PNG. Used for optional
// per-component icons, which have no dimension requirements.
func EnforcePNG(path string) error {
	_, err := decodePNGConfig(path)
	return err
}

func decodePNGConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %s: %v", fpkg.ErrAssetValidation, path, err)
	}
	defer f.Close()

	config, err := png.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %s must be a valid PNG: %v", fpkg.ErrAssetValidation, path, err)
	}
	return config, nil
}
