package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-raytracer/pkg/config"
	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/publish"
	"github.com/df07/go-raytracer/pkg/scene"
)

func testStreams() (IOStreams, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return IOStreams{In: &bytes.Buffer{}, Out: out, ErrOut: errOut}, out, errOut
}

func TestRenderCommand_PPMToStdout(t *testing.T) {
	streams, out, errOut := testStreams()
	cmd := NewRootCommand(streams)
	cmd.SetArgs([]string{"render", "--scene=sphere", "--width=16", "--samples=2", "--max-depth=3"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "P3", lines[0])
	assert.Equal(t, "16 9", lines[1])
	assert.Equal(t, "255", lines[2])
	assert.Len(t, lines, 3+16*9)
	assert.Empty(t, errOut.String(), "progress goes to glog when stderr is not a terminal")
}

func TestRootCommand_RendersByDefault(t *testing.T) {
	streams, out, _ := testStreams()
	cmd := NewRootCommand(streams)
	cmd.SetArgs([]string{"--scene=empty", "--width=4", "--aspect-ratio=2", "--samples=1"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "P3\n4 2\n255\n"))
}

func TestRenderCommand_PNGWithThumbnail(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "renders", "cube.png")

	streams, _, _ := testStreams()
	cmd := NewRootCommand(streams)
	cmd.SetArgs([]string{"render", "--width=40", "--samples=1", "--max-depth=2", "-o", output, "--thumbnail-width=10"})
	require.NoError(t, cmd.Execute())

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 22, img.Bounds().Dy())

	thumb, err := os.Open(filepath.Join(dir, "renders", "cube_thumb.png"))
	require.NoError(t, err)
	defer thumb.Close()
	thumbImg, err := png.Decode(thumb)
	require.NoError(t, err)
	assert.Equal(t, 10, thumbImg.Bounds().Dx())
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"render", "--scene=cornell-box"}},
		{"invalid width", []string{"render", "--width=1"}},
		{"unknown format", []string{"render", "--format=gif"}},
		{"missing scene file", []string{"render", "--scene-file=scenes/missing.yaml"}},
		{"positional arguments", []string{"render", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streams, _, _ := testStreams()
			cmd := NewRootCommand(streams)
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestRenderOptions_SceneFileKeepsItsSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`image:
  width: 30
  aspect_ratio: 3
sampling:
  samples_per_pixel: 2
  max_depth: 4
objects:
  - type: sphere
    center: [0, 0, -1]
    radius: 0.5
`), 0644))

	streams, out, _ := testStreams()
	cmd := NewRootCommand(streams)
	cmd.SetArgs([]string{"render", "--scene-file=" + path, "--max-depth=2"})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(out.String(), "P3\n30 10\n255\n"))
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 100
	cfg.SamplesPerPixel = 7

	builtin := scene.NewEmptyScene()
	applyOverrides(builtin, cfg, false, func(string) bool { return false })
	assert.Equal(t, 100, builtin.Width)
	assert.Equal(t, 56, builtin.Height)
	assert.Equal(t, 7, builtin.SamplingConfig.SamplesPerPixel)

	fromFile := scene.NewEmptyScene()
	applyOverrides(fromFile, cfg, true, func(key string) bool { return key == "samples" })
	assert.Equal(t, 400, fromFile.Width, "file scenes keep their size")
	assert.Equal(t, 7, fromFile.SamplingConfig.SamplesPerPixel, "explicit settings still apply")
}

// recordingProgress captures progress lines and whether Done was called
type recordingProgress struct {
	lines int
	done  bool
}

func (p *recordingProgress) Printf(string, ...interface{}) { p.lines++ }
func (p *recordingProgress) Done()                         { p.done = true }

func TestRenderOptions_PublishesOutputs(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeUploader{}
	progress := &recordingProgress{}

	streams, _, _ := testStreams()
	o := NewRenderOptions(streams)
	o.progress = progress
	o.newPublisher = func(cfg config.S3Config) (*publish.Publisher, error) {
		return publish.NewPublisher(fake, cfg.Bucket, cfg.Prefix), nil
	}
	o.Config = config.Default()
	o.Config.Output = filepath.Join(dir, "out.ppm")
	o.Config.ThumbnailWidth = 8
	o.Config.S3.Bucket = "bucket"
	o.Scene = scene.NewEmptyScene()
	o.Scene.SetImageSize(16, 2)
	o.Scene.SamplingConfig.SamplesPerPixel = 1

	require.NoError(t, o.Validate())
	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, []string{"renders/out.ppm", "renders/out_thumb.png"}, fake.keys)
	assert.Equal(t, 8, progress.lines)
	assert.True(t, progress.done)
}

func TestScenesCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stack.yaml"), []byte("# Scene: Stack\nobjects: []\n"), 0644))

	streams, out, _ := testStreams()
	cmd := NewRootCommand(streams)
	cmd.SetArgs([]string{"scenes", "--scenes-dir=" + dir})
	require.NoError(t, cmd.Execute())

	for _, want := range []string{"ID", "cube", "sphere", "mixed", "empty", "file:stack", "Stack"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	_, isGlog := newProgressLogger(&buf).(core.GlogLogger)
	assert.True(t, isGlog, "non-terminal writers fall back to glog")

	p := &terminalProgress{w: &buf}
	p.Printf("Scanlines remaining: %d", 3)
	p.Done()
	assert.Equal(t, "\rScanlines remaining: 3 \nDone.\n", buf.String())
}
