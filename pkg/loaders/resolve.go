package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-raytracer/pkg/scene"
)

// CreateScene resolves a scene name: a path ending in .yaml or .yml is
// loaded directly, "file:<name>" loads <scenesDir>/<name>.yaml (or .yml),
// and anything else is a built-in scene ID.
func CreateScene(name, scenesDir string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("empty scene name: %w", scene.ErrUnknownScene)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return LoadScene(name)
	}

	if fileName, ok := strings.CutPrefix(name, scene.FileScenePrefix); ok {
		if fileName == "" || strings.ContainsAny(fileName, `/\`) {
			return nil, fmt.Errorf("invalid scene file name %q: %w", fileName, scene.ErrUnknownScene)
		}
		path := filepath.Join(scenesDir, fileName+".yaml")
		s, err := LoadScene(path)
		if err == nil {
			return s, nil
		}
		if alt, altErr := LoadScene(filepath.Join(scenesDir, fileName+".yml")); altErr == nil {
			return alt, nil
		}
		return nil, err
	}

	return scene.NewBuiltin(name)
}
