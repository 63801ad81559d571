package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/df07/go-raytracer/pkg/core"
)

// WriteColor writes one PPM pixel line "R G B" for a sum of samples
func WriteColor(w io.Writer, sum core.Color, samples int) error {
	r, g, b := ToBytes(sum, samples)
	_, err := fmt.Fprintf(w, "%d %d %d\n", r, g, b)
	return err
}

// WritePPM writes the framebuffer as a plain-text P3 pixel map, top row
// (j = Height-1) first
func WritePPM(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for j := fb.Height - 1; j >= 0; j-- {
		for i := 0; i < fb.Width; i++ {
			if err := WriteColor(bw, fb.At(i, j), fb.Samples); err != nil {
				return fmt.Errorf("failed to write pixel (%d, %d): %w", i, j, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}

// WritePNG encodes the framebuffer as PNG
func WritePNG(w io.Writer, fb *Framebuffer) error {
	if err := png.Encode(w, fb.Image()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Thumbnail scales img to the given width, keeping its aspect ratio
func Thumbnail(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.Bilinear)
}
