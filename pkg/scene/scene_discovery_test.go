package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"two-cubes", "Two Cubes"},
		{"sphere_on_ground", "Sphere On Ground"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.yaml",
			content: `# Scene: Cube Stack
# Description: Two cubes on a plane
# Group: Experiments

objects: []`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Cube Stack",
				DisplayName: "Cube Stack",
				Description: "Two cubes on a plane",
				Group:       "Experiments",
				Type:        "file",
			},
		},
		{
			name: "partial-metadata.yaml",
			content: `# Description: Only a description
objects: []`,
			expected: SceneInfo{
				ID:          "file:partial-metadata",
				Name:        "Partial Metadata",
				DisplayName: "Partial Metadata",
				Description: "Only a description",
				Group:       fileGroup,
				Type:        "file",
			},
		},
		{
			name: "no_metadata.yml",
			content: `objects: []
# Scene: Ignored after the header`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       fileGroup,
				Type:        "file",
			},
		},
		{
			name: "empty_values.yaml",
			content: `#Scene:
#Group:
objects: []`,
			expected: SceneInfo{
				ID:          "file:empty_values",
				Name:        "Empty Values",
				DisplayName: "Empty Values",
				Group:       fileGroup,
				Type:        "file",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)
			tc.expected.FilePath = path

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_MissingFile(t *testing.T) {
	result, err := ParseSceneMetadata("nonexistent.yaml")
	if err != nil {
		t.Errorf("ParseSceneMetadata() should handle missing files gracefully: %v", err)
	}
	if result.ID != "file:nonexistent" {
		t.Errorf("ID = %q, want fallback", result.ID)
	}
}

func TestListFileScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "b.yaml", "# Scene: Beta\nobjects: []\n")
	writeSceneFile(t, dir, "a.yml", "# Scene: Alpha\nobjects: []\n")
	writeSceneFile(t, dir, "notes.txt", "# Scene: Not a scene\n")

	scenes, err := ListFileScenes(dir)
	if err != nil {
		t.Fatalf("ListFileScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Got %d scenes, want 2", len(scenes))
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Beta" {
		t.Errorf("Scenes not sorted by display name: %q, %q", scenes[0].DisplayName, scenes[1].DisplayName)
	}
}

func TestListFileScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Errorf("ListFileScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "stack.yaml", "# Scene: Stack\n# Group: Experiments\nobjects: []\n")
	writeSceneFile(t, dir, "plain.yaml", "objects: []\n")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var names []string
	for _, group := range response.Groups {
		names = append(names, group.Name)
	}
	if got := strings.Join(names, ","); got != "Built-in Scenes,Experiments,Scene Files" {
		t.Errorf("Group order = %q", got)
	}

	if n := len(response.Groups[0].Scenes); n != len(BuiltinScenes()) {
		t.Errorf("Built-in group has %d scenes, want %d", n, len(BuiltinScenes()))
	}

	for _, group := range response.Groups[1:] {
		for _, scene := range group.Scenes {
			if scene.Type != "file" || !strings.HasPrefix(scene.ID, FileScenePrefix) || scene.FilePath == "" {
				t.Errorf("Malformed file scene %+v", scene)
			}
		}
	}
}
