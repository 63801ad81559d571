package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
	"github.com/df07/go-raytracer/pkg/renderer"
	"github.com/df07/go-raytracer/pkg/scene"
)

var (
	// ErrUnknownShape is returned for an object whose type is not sphere,
	// plane or cube
	ErrUnknownShape = errors.New("unknown shape type")
	// ErrInvalidScene is returned for scene files with missing or out of
	// range values
	ErrInvalidScene = errors.New("invalid scene description")
)

// SceneFile is the YAML layout of a scene description
type SceneFile struct {
	Image    *ImageSpec    `yaml:"image"`
	Sampling *SamplingSpec `yaml:"sampling"`
	Camera   *CameraSpec   `yaml:"camera"`
	Objects  []ObjectSpec  `yaml:"objects"`
}

// ImageSpec overrides the output image size
type ImageSpec struct {
	Width       int     `yaml:"width"`
	AspectRatio float64 `yaml:"aspect_ratio"`
}

// SamplingSpec overrides the sampling configuration
type SamplingSpec struct {
	SamplesPerPixel int `yaml:"samples_per_pixel"`
	MaxDepth        int `yaml:"max_depth"`
}

// CameraSpec places a look-at camera
type CameraSpec struct {
	LookFrom []float64 `yaml:"look_from"`
	LookAt   []float64 `yaml:"look_at"`
	Up       []float64 `yaml:"up"`
	VFov     float64   `yaml:"vfov"`
}

// ObjectSpec describes one primitive. Only the fields of its Type are used.
type ObjectSpec struct {
	Type string `yaml:"type"`

	// sphere and cube
	Center []float64 `yaml:"center"`
	// sphere
	Radius float64 `yaml:"radius"`
	// plane
	Point  []float64 `yaml:"point"`
	Normal []float64 `yaml:"normal"`
	// cube
	HalfExtent float64        `yaml:"half_extent"`
	Rotations  []RotationSpec `yaml:"rotations"`
}

// RotationSpec turns a cube about an axis, through its center unless a
// pivot is given. Exactly one of Degrees and Radians must be set.
type RotationSpec struct {
	Axis    []float64 `yaml:"axis"`
	Degrees *float64  `yaml:"degrees"`
	Radians *float64  `yaml:"radians"`
	Pivot   []float64 `yaml:"pivot"`
}

// LoadScene loads and builds a YAML scene file
func LoadScene(filename string) (*scene.Scene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ParseScene(name, file)
}

// ParseScene reads a YAML scene description and builds the scene
func ParseScene(name string, reader io.Reader) (*scene.Scene, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", name, err)
	}

	var file SceneFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", name, err)
	}

	return file.Build(name)
}

// Build creates the scene described by the file
func (f *SceneFile) Build(name string) (*scene.Scene, error) {
	s := scene.New(name)

	if f.Image != nil {
		if f.Image.Width < 2 {
			return nil, fmt.Errorf("image width %d: %w", f.Image.Width, ErrInvalidScene)
		}
		aspect := f.Image.AspectRatio
		if aspect == 0 {
			aspect = renderer.DefaultAspectRatio
		}
		if aspect < 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
			return nil, fmt.Errorf("aspect ratio %v: %w", aspect, ErrInvalidScene)
		}
		s.SetImageSize(f.Image.Width, aspect)
	}

	if f.Sampling != nil {
		if f.Sampling.SamplesPerPixel < 1 || f.Sampling.MaxDepth < 1 {
			return nil, fmt.Errorf("sampling %+v: %w", *f.Sampling, ErrInvalidScene)
		}
		s.SamplingConfig = renderer.SamplingConfig{
			SamplesPerPixel: f.Sampling.SamplesPerPixel,
			MaxDepth:        f.Sampling.MaxDepth,
		}
	}

	if f.Camera != nil {
		config, err := f.Camera.config()
		if err != nil {
			return nil, err
		}
		s.SetCameraConfig(config)
	}

	for i, spec := range f.Objects {
		object, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		s.Add(object)
	}

	return s, nil
}

func (c *CameraSpec) config() (renderer.CameraConfig, error) {
	lookFrom, err := parseVec3("camera.look_from", c.LookFrom)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	lookAt, err := parseVec3("camera.look_at", c.LookAt)
	if err != nil {
		return renderer.CameraConfig{}, err
	}
	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		if up, err = parseDirection("camera.up", c.Up); err != nil {
			return renderer.CameraConfig{}, err
		}
	}
	if lookFrom == lookAt {
		return renderer.CameraConfig{}, fmt.Errorf("camera looks at its own position: %w", ErrInvalidScene)
	}
	if up.Cross(core.UnitVector(lookFrom.Subtract(lookAt))).LengthSquared() < 1e-12 {
		return renderer.CameraConfig{}, fmt.Errorf("camera.up is parallel to the view direction: %w", ErrInvalidScene)
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		return renderer.CameraConfig{}, fmt.Errorf("camera.vfov %v must be in (0, 180): %w", c.VFov, ErrInvalidScene)
	}

	return renderer.CameraConfig{
		LookFrom: lookFrom,
		LookAt:   lookAt,
		Up:       up,
		VFov:     c.VFov,
	}, nil
}

func (o *ObjectSpec) build() (geometry.Hittable, error) {
	switch o.Type {
	case "sphere":
		center, err := parseVec3("center", o.Center)
		if err != nil {
			return nil, err
		}
		if o.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius %v: %w", o.Radius, ErrInvalidScene)
		}
		return geometry.NewSphere(center, o.Radius), nil

	case "plane":
		point, err := parseVec3("point", o.Point)
		if err != nil {
			return nil, err
		}
		normal, err := parseDirection("normal", o.Normal)
		if err != nil {
			return nil, err
		}
		return geometry.NewPlane(point, normal), nil

	case "cube":
		center, err := parseVec3("center", o.Center)
		if err != nil {
			return nil, err
		}
		if o.HalfExtent <= 0 {
			return nil, fmt.Errorf("cube half_extent %v: %w", o.HalfExtent, ErrInvalidScene)
		}
		cube := geometry.NewCube(center, o.HalfExtent)
		for i, rotation := range o.Rotations {
			if err := rotation.apply(cube); err != nil {
				return nil, fmt.Errorf("rotation %d: %w", i, err)
			}
		}
		return cube, nil

	default:
		return nil, fmt.Errorf("%q: %w", o.Type, ErrUnknownShape)
	}
}

func (r *RotationSpec) apply(cube *geometry.Cube) error {
	axis, err := parseDirection("axis", r.Axis)
	if err != nil {
		return err
	}

	var angle float64
	switch {
	case r.Degrees != nil && r.Radians != nil:
		return fmt.Errorf("both degrees and radians given: %w", ErrInvalidScene)
	case r.Degrees != nil:
		angle = *r.Degrees * math.Pi / 180
	case r.Radians != nil:
		angle = *r.Radians
	default:
		return fmt.Errorf("rotation needs degrees or radians: %w", ErrInvalidScene)
	}

	if r.Pivot == nil {
		cube.Rotate(axis, angle)
		return nil
	}
	pivot, err := parseVec3("pivot", r.Pivot)
	if err != nil {
		return err
	}
	cube.RotateAbout(pivot, axis, angle)
	return nil
}

// parseVec3 converts a three element YAML list to a vector
func parseVec3(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s needs 3 values, got %d: %w", field, len(values), ErrInvalidScene)
	}
	v := core.NewVec3(values[0], values[1], values[2])
	if !v.IsFinite() {
		return core.Vec3{}, fmt.Errorf("%s has non-finite values: %w", field, ErrInvalidScene)
	}
	return v, nil
}

// parseDirection is parseVec3 for vectors that will be normalized
func parseDirection(field string, values []float64) (core.Vec3, error) {
	v, err := parseVec3(field, values)
	if err != nil {
		return core.Vec3{}, err
	}
	if v.LengthSquared() == 0 {
		return core.Vec3{}, fmt.Errorf("%s must not be the zero vector: %w", field, ErrInvalidScene)
	}
	return v, nil
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	// Check for empty filename
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Clean the path to resolve . and .. components
	cleanPath := filepath.Clean(filename)

	// Only allow files in a scenes/ directory or the temp directory (for tests)
	if !strings.HasPrefix(cleanPath, "scenes"+string(filepath.Separator)) &&
		!strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.Contains(cleanPath, string(filepath.Separator)+"scenes"+string(filepath.Separator)) {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("invalid file type: only .yaml and .yml files are allowed")
	}

	// Check for extremely long paths that could cause issues
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
