package util

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestReadDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.png")
	writePNG(t, path, 32, 18)

	w, h, err := ReadDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 32, w)
	assert.Equal(t, 18, h)
}

func TestReadDimensionsErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ReadDimensions(filepath.Join(dir, "missing.png"))
	require.Error(t, err)

	notImage := filepath.Join(dir, "fake.jpg")
	require.NoError(t, os.WriteFile(notImage, []byte("not a jpeg"), 0o644))
	_, _, err = ReadDimensions(notImage)
	require.Error(t, err)

	gif := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(gif, []byte("GIF89a"), 0o644))
	_, _, err = ReadDimensions(gif)
	require.Error(t, err)
}

func TestClassifyAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{1920, 1080, "16/9"},
		{1024, 768, "4/3"},
		{800, 800, "1/1"},
		{768, 1024, "4/3"},
		{1080, 1920, "16/9"},
		{1100, 1000, "1/1"},
		{0, 100, "4/3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAspectRatio(tt.w, tt.h), "%dx%d", tt.w, tt.h)
	}
}

func TestSupportedAndContentType(t *testing.T) {
	assert.True(t, IsSupported("a.JPG"))
	assert.True(t, IsSupported("dir/b.png"))
	assert.False(t, IsSupported("c.gif"))
	assert.False(t, IsSupported("README"))

	assert.Equal(t, "image/jpeg", ContentType("a.JPEG"))
	assert.Equal(t, "image/png", ContentType("b.png"))
	assert.Equal(t, "application/octet-stream", ContentType("c.txt"))
}
