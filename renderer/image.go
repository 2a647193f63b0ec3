package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/pthm-cable/earthnoise/terrain"
)

// Image formats accepted by WriteImage.
const (
	FormatPNG  = "png"
	FormatTIFF = "tiff"
	FormatNone = "none"
)

// Colors returns one colour per heightmap pixel in row-major order. With
// cells the palette is used; without, the plain height gradient.
func Colors(hm *terrain.Heightmap, cells []terrain.Cell, p Palette) []color.RGBA {
	out := make([]color.RGBA, len(hm.Values))
	norm := hm.Normalized()
	for i, v := range norm.Values {
		if cells != nil {
			out[i] = p.Color(v, cells[i])
		} else {
			out[i] = Gradient(v)
		}
	}
	return out
}

// ColorImage paints a heightmap with Colors.
func ColorImage(hm *terrain.Heightmap, cells []terrain.Cell, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hm.W, hm.H))
	for i, c := range Colors(hm, cells, p) {
		img.SetRGBA(i%hm.W, i/hm.W, c)
	}
	return img
}

// GrayImage16 stores the normalised heights at 16-bit precision.
func GrayImage16(hm *terrain.Heightmap) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, hm.W, hm.H))
	norm := hm.Normalized()
	for i, v := range norm.Values {
		img.SetGray16(i%hm.W, i/hm.W, color.Gray16{Y: uint16(math.Round(clamp01(v) * math.MaxUint16))})
	}
	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeTIFF writes img as a deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// WriteImage encodes img to path in the given format. FormatNone writes
// nothing.
func WriteImage(path string, img image.Image, format string) error {
	var encode func(io.Writer, image.Image) error
	switch format {
	case FormatNone:
		return nil
	case FormatPNG:
		encode = EncodePNG
	case FormatTIFF:
		encode = EncodeTIFF
	default:
		return fmt.Errorf("unknown image format %q", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing image: %w", err)
	}
	return f.Close()
}
