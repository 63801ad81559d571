package renderer

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Samples taken per pixel
	MaxDepth        int           // Bounce limit per camera ray
	Elapsed         time.Duration // Wall-clock time of the render
}

// SamplesPerSecond returns the camera ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// String summarizes the render for log lines
func (s RenderStats) String() string {
	return fmt.Sprintf("%dx%d, %s samples (%d spp, depth %d) in %v, %s samples/s",
		s.Width, s.Height,
		humanize.Comma(int64(s.TotalSamples)),
		s.SamplesPerPixel, s.MaxDepth,
		s.Elapsed.Round(time.Millisecond),
		humanize.Comma(int64(s.SamplesPerSecond())))
}
