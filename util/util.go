// Package util is a set of utility variables or methods
package util

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".JPEG", ".JPG",
	".png", ".PNG",
)

// IsSupported reports whether the file name has an image extension the site serves.
func IsSupported(name string) bool {
	return SupportedExt.Contains(filepath.Ext(name))
}

// ContentType maps a supported file name to its MIME type.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// ReadDimensions returns the pixel size of a JPEG or PNG file without
// decoding the whole image.
func ReadDimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return DecodeDimensions(filepath.Ext(path), f)
}

func DecodeDimensions(ext string, r io.Reader) (width, height int, err error) {
	var cfg image.Config
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		cfg, err = jpeg.DecodeConfig(r)
	case ".png":
		cfg, err = png.DecodeConfig(r)
	default:
		return 0, 0, fmt.Errorf("unknown file extension to get resolution details: %q", ext)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

var aspectRatios = []struct {
	label string
	ratio float64
}{
	{"16/9", 16.0 / 9.0},
	{"4/3", 4.0 / 3.0},
	{"1/1", 1.0},
}

// ClassifyAspectRatio returns the closest supported slider ratio for an image.
// Portrait images are compared by their inverted ratio. Unknown sizes map to 4/3.
func ClassifyAspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "4/3"
	}
	r := float64(width) / float64(height)
	if r < 1 {
		r = 1 / r
	}

	best, bestDiff := "4/3", math.MaxFloat64
	for _, ar := range aspectRatios {
		if d := math.Abs(r - ar.ratio); d < bestDiff {
			best, bestDiff = ar.label, d
		}
	}
	return best
}
