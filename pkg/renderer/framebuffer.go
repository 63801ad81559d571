package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-raytracer/pkg/core"
)

// Framebuffer accumulates summed color samples per pixel. Pixel (i, j) uses
// the camera's convention: i grows to the right and j grows upwards, so row
// j = 0 is the bottom of the image.
type Framebuffer struct {
	Width   int
	Height  int
	Samples int // Samples summed into every pixel
	pixels  []core.Color
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height, samples int) *Framebuffer {
	return &Framebuffer{
		Width:   width,
		Height:  height,
		Samples: samples,
		pixels:  make([]core.Color, width*height),
	}
}

// Set stores the summed color of pixel (i, j)
func (fb *Framebuffer) Set(i, j int, sum core.Color) {
	fb.pixels[j*fb.Width+i] = sum
}

// At returns the summed color of pixel (i, j)
func (fb *Framebuffer) At(i, j int) core.Color {
	return fb.pixels[j*fb.Width+i]
}

// Average returns the mean sample color of pixel (i, j) in linear space
func (fb *Framebuffer) Average(i, j int) core.Color {
	if fb.Samples <= 0 {
		return core.Color{}
	}
	return fb.At(i, j).Multiply(1.0 / float64(fb.Samples))
}

// Image converts the framebuffer to an 8-bit image with row 0 at the top
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for j := 0; j < fb.Height; j++ {
		for i := 0; i < fb.Width; i++ {
			r, g, b := ToBytes(fb.At(i, j), fb.Samples)
			img.SetRGBA(i, fb.Height-1-j, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}

// ToBytes converts a sum of samples to 8-bit channels: each channel is
// averaged, gamma corrected with gamma 2 and clamped to [0, 0.999] before
// scaling by 256.
func ToBytes(sum core.Color, samples int) (r, g, b int) {
	scale := 1.0 / float64(samples)
	return channelByte(sum.X, scale), channelByte(sum.Y, scale), channelByte(sum.Z, scale)
}

func channelByte(c, scale float64) int {
	x := math.Sqrt(scale * c)
	// NaN fails both comparisons below, so map it to black first
	if math.IsNaN(x) {
		x = 0
	}
	return int(256 * max(0.0, min(0.999, x)))
}
