// Package config loads render settings from defaults, an optional config
// file, RAYTRACER_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RAYTRACER_SAMPLES
const EnvPrefix = "RAYTRACER"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// RenderConfig holds everything needed to render one image
type RenderConfig struct {
	Scene           string   `mapstructure:"scene"`
	SceneFile       string   `mapstructure:"scene-file"`
	Width           int      `mapstructure:"width"`
	AspectRatio     float64  `mapstructure:"aspect-ratio"`
	SamplesPerPixel int      `mapstructure:"samples"`
	MaxDepth        int      `mapstructure:"max-depth"`
	Seed            int64    `mapstructure:"seed"`
	Output          string   `mapstructure:"output"` // Empty writes to stdout
	Format          string   `mapstructure:"format"` // Empty picks from the output extension
	ThumbnailWidth  uint     `mapstructure:"thumbnail-width"`
	S3              S3Config `mapstructure:"s3"`
}

// S3Config locates the bucket rendered images are published to. Publishing
// is off while Bucket is empty.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
	// Static credentials; the default AWS credential chain is used when empty
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
}

// Default returns the settings of the original command line renderer
func Default() RenderConfig {
	return RenderConfig{
		Scene:           "cube",
		Width:           400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "renders/",
		},
	}
}

// flagKeys maps flag names to config keys where they differ
var flagKeys = map[string]string{
	"s3-bucket":   "s3.bucket",
	"s3-region":   "s3.region",
	"s3-endpoint": "s3.endpoint",
	"s3-prefix":   "s3.prefix",
}

// NewViper creates a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("scene", d.Scene)
	v.SetDefault("scene-file", d.SceneFile)
	v.SetDefault("width", d.Width)
	v.SetDefault("aspect-ratio", d.AspectRatio)
	v.SetDefault("samples", d.SamplesPerPixel)
	v.SetDefault("max-depth", d.MaxDepth)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("thumbnail-width", d.ThumbnailWidth)
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.prefix", d.S3.Prefix)
	v.SetDefault("s3.access-key", d.S3.AccessKey)
	v.SetDefault("s3.secret-key", d.S3.SecretKey)

	// scene-file and s3.bucket become RAYTRACER_SCENE_FILE and RAYTRACER_S3_BUCKET
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// AddFlags registers the render flags on flags
func AddFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("scene", d.Scene, "Built-in scene to render")
	flags.String("scene-file", d.SceneFile, "YAML scene description; overrides --scene")
	flags.Int("width", d.Width, "Image width in pixels")
	flags.Float64("aspect-ratio", d.AspectRatio, "Image width divided by height")
	flags.Int("samples", d.SamplesPerPixel, "Samples per pixel")
	flags.Int("max-depth", d.MaxDepth, "Maximum ray bounce depth")
	flags.Int64("seed", d.Seed, "Random seed")
	flags.StringP("output", "o", d.Output, "Output file; empty writes PPM to stdout")
	flags.String("format", d.Format, "Output format, ppm or png; empty picks from the output extension")
	flags.Uint("thumbnail-width", d.ThumbnailWidth, "Also write a thumbnail this many pixels wide (0 disables)")
	flags.String("s3-bucket", d.S3.Bucket, "Publish the image to this S3 bucket")
	flags.String("s3-region", d.S3.Region, "S3 region")
	flags.String("s3-endpoint", d.S3.Endpoint, "Custom S3 endpoint")
	flags.String("s3-prefix", d.S3.Prefix, "Key prefix for published images")
}

// BindFlags makes flags set on the command line override every other source
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		key := flag.Name
		if mapped, ok := flagKeys[key]; ok {
			key = mapped
		}
		if !isKnownKey(v, key) {
			return
		}
		if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	})
	return bindErr
}

func isKnownKey(v *viper.Viper, key string) bool {
	for _, k := range v.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Load reads configFile when given, then decodes and validates the result
func Load(v *viper.Viper, configFile string) (RenderConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return RenderConfig{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var config RenderConfig
	if err := v.Unmarshal(&config); err != nil {
		return RenderConfig{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return config, nil
}

// LoadS3 reads only the S3 settings from v. Each key is looked up on its
// own so RAYTRACER_S3_* variables override the defaults.
func LoadS3(v *viper.Viper) S3Config {
	return S3Config{
		Bucket:    v.GetString("s3.bucket"),
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		Prefix:    v.GetString("s3.prefix"),
		AccessKey: v.GetString("s3.access-key"),
		SecretKey: v.GetString("s3.secret-key"),
	}
}

// Validate checks ranges and combinations
func (c RenderConfig) Validate() error {
	if c.Width < 2 {
		return fmt.Errorf("%w: width %d must be at least 2", ErrInvalidConfig, c.Width)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidConfig, c.AspectRatio)
	}
	if c.Height() < 2 {
		return fmt.Errorf("%w: height %d must be at least 2", ErrInvalidConfig, c.Height())
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth %d must be positive", ErrInvalidConfig, c.MaxDepth)
	}
	if c.Scene == "" && c.SceneFile == "" {
		return fmt.Errorf("%w: no scene or scene file given", ErrInvalidConfig)
	}
	switch c.Format {
	case "", FormatPPM, FormatPNG:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.OutputFormat() == FormatPNG && c.Output == "" {
		return fmt.Errorf("%w: png output needs an output file", ErrInvalidConfig)
	}
	if c.ThumbnailWidth > 0 && c.Output == "" {
		return fmt.Errorf("%w: thumbnails need an output file", ErrInvalidConfig)
	}
	return nil
}

// Height is the width divided by the aspect ratio, truncated
func (c RenderConfig) Height() int {
	return int(float64(c.Width) / c.AspectRatio)
}

// OutputFormat resolves Format, falling back to the output extension
func (c RenderConfig) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	if strings.EqualFold(filepath.Ext(c.Output), ".png") {
		return FormatPNG
	}
	return FormatPPM
}

// ThumbnailPath returns the thumbnail file name next to the output
func (c RenderConfig) ThumbnailPath() string {
	ext := filepath.Ext(c.Output)
	return strings.TrimSuffix(c.Output, ext) + "_thumb.png"
}
