package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
)

// Widths lists the thumbnail widths produced for every stored image, widest
// first. Each width is written alongside the original as <path>_<width>.
var Widths = []int{500, 250, 100}

// Generator renders scaled copies of a stored image on local disk.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator returns a Generator that logs per-width failures through the
// supplied logger.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate decodes the image at path and writes one scaled copy per entry in
// Widths. A failing width is logged and skipped so the remaining widths are
// still produced. Generate returns an error only when the source cannot be
// read or decoded, or when every width fails.
func (g *Generator) Generate(path string) error {
	src, format, err := decodeImage(path)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	var produced int
	for _, width := range Widths {
		target := fmt.Sprintf("%s_%d", path, width)
		if err := writeScaled(src, format, width, target); err != nil {
			g.logger.Error("thumbnail generation failed",
				"source", path,
				"width", width,
				"error", err,
			)
			continue
		}
		produced++
	}
	if produced == 0 {
		return fmt.Errorf("no thumbnails produced for %s", path)
	}
	return nil
}

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

func writeScaled(src image.Image, format string, width int, target string) error {
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return errors.New("source image is empty")
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := encodeImage(out, dst, format); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	return out.Close()
}

func encodeImage(f *os.File, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	case "gif":
		return gif.Encode(f, img, nil)
	default:
		return png.Encode(f, img)
	}
}
