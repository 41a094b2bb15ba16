package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "source")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestGeneratorProducesAllWidths(t *testing.T) {
	path := writeTestPNG(t, 1000, 400)
	gen := NewGenerator(nil)
	require.NoError(t, gen.Generate(path))

	for _, width := range Widths {
		target := fmt.Sprintf("%s_%d", path, width)
		f, err := os.Open(target)
		require.NoError(t, err, "missing thumbnail for width %d", width)
		img, _, err := image.Decode(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		require.Equal(t, width, img.Bounds().Dx())
		wantHeight := 400 * width / 1000
		require.Equal(t, wantHeight, img.Bounds().Dy(), "aspect ratio for width %d", width)
	}
}

func TestGeneratorSkipsFailingWidth(t *testing.T) {
	path := writeTestPNG(t, 600, 600)
	// A directory at the widest target path makes that width fail while the
	// remaining widths still render.
	require.NoError(t, os.Mkdir(fmt.Sprintf("%s_%d", path, Widths[0]), 0o755))

	gen := NewGenerator(nil)
	require.NoError(t, gen.Generate(path))

	for _, width := range Widths[1:] {
		_, err := os.Stat(fmt.Sprintf("%s_%d", path, width))
		require.NoError(t, err, "thumbnail for width %d should exist", width)
	}
}

func TestGeneratorRejectsMissingSource(t *testing.T) {
	gen := NewGenerator(nil)
	err := gen.Generate(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestGeneratorRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))
	gen := NewGenerator(nil)
	require.Error(t, gen.Generate(path))
}
