package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/df07/go-raytracer/pkg/config"
	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/loaders"
	"github.com/df07/go-raytracer/pkg/publish"
	"github.com/df07/go-raytracer/pkg/renderer"
	"github.com/df07/go-raytracer/pkg/scene"
)

// RenderOptions holds the state of one render command
type RenderOptions struct {
	ConfigFile string
	ScenesDir  string

	Config config.RenderConfig
	Scene  *scene.Scene

	// newPublisher is replaced in tests
	newPublisher func(config.S3Config) (*publish.Publisher, error)
	// progress receives scanline updates
	progress core.Logger

	IOStreams
}

// NewRenderOptions creates options with the default collaborators
func NewRenderOptions(streams IOStreams) *RenderOptions {
	return &RenderOptions{
		ScenesDir: "scenes",
		newPublisher: func(cfg config.S3Config) (*publish.Publisher, error) {
			client, err := publish.NewS3Client(cfg)
			if err != nil {
				return nil, err
			}
			return publish.NewPublisher(client, cfg.Bucket, cfg.Prefix), nil
		},
		IOStreams: streams,
	}
}

// NewRenderCommand creates the render subcommand
func NewRenderCommand(streams IOStreams) *cobra.Command {
	o := NewRenderOptions(streams)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PPM or PNG image",
		Long: `Render a built-in scene or a YAML scene file.

Settings come from defaults, then --config, then RAYTRACER_* environment
variables, then flags. Without --output the image is written to stdout as PPM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd.Flags()); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&o.ConfigFile, "config", o.ConfigFile, "Config file (YAML, JSON or TOML)")
	cmd.Flags().StringVar(&o.ScenesDir, "scenes-dir", o.ScenesDir, "Directory searched for file: scenes")
	config.AddFlags(cmd.Flags())

	return cmd
}

// Complete loads the configuration and builds the scene
func (o *RenderOptions) Complete(flags *pflag.FlagSet) error {
	v := config.NewViper()
	if err := config.BindFlags(v, flags); err != nil {
		return err
	}
	cfg, err := config.Load(v, o.ConfigFile)
	if err != nil {
		return err
	}
	o.Config = cfg

	if o.Config.SceneFile != "" {
		o.Scene, err = loaders.LoadScene(o.Config.SceneFile)
	} else {
		o.Scene, err = loaders.CreateScene(o.Config.Scene, o.ScenesDir)
	}
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	applyOverrides(o.Scene, o.Config, o.Config.SceneFile != "" || isFileScene(o.Config.Scene), changedSetting(v, flags))

	if o.progress == nil {
		o.progress = newProgressLogger(o.ErrOut)
	}
	return nil
}

// Validate checks the completed options
func (o *RenderOptions) Validate() error {
	if o.Scene == nil {
		return errors.New("no scene to render")
	}
	if o.Scene.Width < 2 || o.Scene.Height < 2 {
		return fmt.Errorf("%w: image %dx%d is smaller than 2x2", config.ErrInvalidConfig, o.Scene.Width, o.Scene.Height)
	}
	if o.Config.S3.Bucket != "" && o.Config.Output == "" {
		return fmt.Errorf("%w: publishing to S3 needs an output file", config.ErrInvalidConfig)
	}
	return nil
}

// Run renders the scene and writes, thumbnails and publishes the result
func (o *RenderOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	glog.Infof("Rendering scene %q (%d objects) at %dx%d, %d samples, depth %d",
		o.Scene.Name, o.Scene.GetPrimitiveCount(), o.Scene.Width, o.Scene.Height,
		o.Scene.SamplingConfig.SamplesPerPixel, o.Scene.SamplingConfig.MaxDepth)

	rt := renderer.NewRaytracer(o.Scene, o.Scene.Width, o.Scene.Height)
	rt.SetSamplingConfig(o.Scene.SamplingConfig)
	rt.SetRandom(rand.New(rand.NewSource(o.Config.Seed)))
	rt.SetLogger(o.progress)

	fb, stats, err := rt.Render(ctx)
	if done, ok := o.progress.(interface{ Done() }); ok {
		done.Done()
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	glog.Infof("Rendered %s", stats)

	format := o.Config.OutputFormat()
	var buf bytes.Buffer
	if format == config.FormatPNG {
		err = renderer.WritePNG(&buf, fb)
	} else {
		err = renderer.WritePPM(&buf, fb)
	}
	if err != nil {
		return err
	}

	if o.Config.Output == "" {
		_, err := o.Out.Write(buf.Bytes())
		return err
	}

	outputs := []output{{path: o.Config.Output, data: buf.Bytes(), contentType: publish.ContentType(format)}}
	if o.Config.ThumbnailWidth > 0 {
		var thumb bytes.Buffer
		if err := png.Encode(&thumb, renderer.Thumbnail(fb.Image(), o.Config.ThumbnailWidth)); err != nil {
			return fmt.Errorf("failed to encode thumbnail: %w", err)
		}
		outputs = append(outputs, output{path: o.Config.ThumbnailPath(), data: thumb.Bytes(), contentType: publish.ContentTypePNG})
	}

	for _, out := range outputs {
		if err := writeFile(out.path, out.data); err != nil {
			return err
		}
		glog.Infof("Wrote %s (%s)", out.path, humanize.Bytes(uint64(len(out.data))))
	}

	if o.Config.S3.Bucket == "" {
		return nil
	}
	publisher, err := o.newPublisher(o.Config.S3)
	if err != nil {
		return err
	}
	publisher.SetLogger(core.GlogLogger{})
	for _, out := range outputs {
		if _, err := publisher.Publish(ctx, filepath.Base(out.path), out.data, out.contentType); err != nil {
			return err
		}
	}
	return nil
}

type output struct {
	path        string
	data        []byte
	contentType string
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// applyOverrides copies image and sampling settings onto the scene. Scene
// files keep their own settings unless a setting was given explicitly.
func applyOverrides(s *scene.Scene, cfg config.RenderConfig, fromFile bool, changed func(string) bool) {
	if !fromFile || changed("width") || changed("aspect-ratio") {
		s.SetImageSize(cfg.Width, cfg.AspectRatio)
	}
	if !fromFile || changed("samples") {
		s.SamplingConfig.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if !fromFile || changed("max-depth") {
		s.SamplingConfig.MaxDepth = cfg.MaxDepth
	}
}

// changedSetting reports whether key was set by a flag, the environment or
// a config file rather than left at its default
func changedSetting(v *viper.Viper, flags *pflag.FlagSet) func(string) bool {
	return func(key string) bool {
		if flag := flags.Lookup(key); flag != nil && flag.Changed {
			return true
		}
		if v.InConfig(key) {
			return true
		}
		_, ok := os.LookupEnv(config.EnvPrefix + "_" + envKey(key))
		return ok
	}
}

func envKey(key string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

func isFileScene(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml" || strings.HasPrefix(name, scene.FileScenePrefix)
}
