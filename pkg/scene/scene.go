package scene

import (
	"github.com/df07/go-raytracer/pkg/geometry"
	"github.com/df07/go-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   *renderer.CameraConfig // Nil for the fixed camera
	World          *geometry.HittableList
	SamplingConfig renderer.SamplingConfig
	Width          int // Image width
	Height         int // Image height
	AspectRatio    float64
}

// New creates an empty scene with the fixed camera, default sampling and a
// 400 pixel wide 16:9 image
func New(name string) *Scene {
	s := &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
	s.SetImageSize(DefaultWidth, renderer.DefaultAspectRatio)
	return s
}

// DefaultWidth is the image width used when nothing overrides it
const DefaultWidth = 400

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() geometry.Hittable {
	return s.World
}

// Add appends objects to the world
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

// SetImageSize sets the image width and aspect ratio. The height is the width
// divided by the aspect ratio, truncated, and the camera is rebuilt to match.
func (s *Scene) SetImageSize(width int, aspectRatio float64) {
	s.Width = width
	s.AspectRatio = aspectRatio
	s.Height = int(float64(width) / aspectRatio)
	s.rebuildCamera()
}

// SetCameraConfig switches to a look-at camera
func (s *Scene) SetCameraConfig(config renderer.CameraConfig) {
	s.CameraConfig = &config
	s.rebuildCamera()
}

func (s *Scene) rebuildCamera() {
	if s.CameraConfig == nil {
		s.Camera = renderer.NewCamera(s.AspectRatio)
		return
	}
	s.CameraConfig.AspectRatio = s.AspectRatio
	s.Camera = renderer.NewLookAtCamera(*s.CameraConfig)
}

// GetPrimitiveCount returns the number of top-level objects in the world
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
