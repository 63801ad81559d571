package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
)

// ErrUnknownScene is returned for scene IDs with no built-in definition
var ErrUnknownScene = errors.New("unknown scene")

// DefaultSceneID names the scene rendered when none is requested
const DefaultSceneID = "cube"

type builtin struct {
	info  SceneInfo
	build func() *Scene
}

var builtins = map[string]builtin{
	"cube": {
		info:  builtinInfo("cube", "Rotated Cube", "Unit cube turned 45 degrees about the vertical axis"),
		build: NewCubeScene,
	},
	"sphere": {
		info:  builtinInfo("sphere", "Sphere on Ground", "Small sphere resting on an infinite ground plane"),
		build: NewSphereScene,
	},
	"mixed": {
		info:  builtinInfo("mixed", "Mixed Primitives", "Sphere, tilted cube and ground plane together"),
		build: NewMixedScene,
	},
	"empty": {
		info:  builtinInfo("empty", "Empty Sky", "No objects, only the sky gradient"),
		build: NewEmptyScene,
	},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtInGroup,
		Type:        "builtin",
	}
}

// NewBuiltin creates the built-in scene with the given ID
func NewBuiltin(id string) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	return b.build(), nil
}

// BuiltinScenes lists the built-in scenes sorted by ID
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// NewCubeScene creates a cube of half-extent 1 at (0, 0, -1.5), rotated a
// quarter of a half turn about +Y so an edge faces the camera
func NewCubeScene() *Scene {
	s := New("cube")

	cube := geometry.NewCube(core.NewVec3(0, 0, -1.5), 1.0)
	cube.Rotate(core.NewVec3(0, 1, 0), math.Pi/4)
	s.Add(cube)

	return s
}

// NewSphereScene creates a small sphere sitting on the ground
func NewSphereScene() *Scene {
	s := New("sphere")

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5),
		geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)),
	)

	return s
}

// NewMixedScene places every primitive type in one scene
func NewMixedScene() *Scene {
	s := New("mixed")

	cube := geometry.NewCube(core.NewVec3(1.2, 0.05, -1.8), 0.4)
	cube.Rotate(core.NewVec3(0, 1, 0), math.Pi/6)
	cube.Rotate(core.NewVec3(1, 0, 0), math.Pi/8)

	s.Add(
		geometry.NewSphere(core.NewVec3(-0.6, 0, -1.2), 0.5),
		cube,
		geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)),
	)

	return s
}

// NewEmptyScene creates a scene with nothing but sky
func NewEmptyScene() *Scene {
	return New("empty")
}
