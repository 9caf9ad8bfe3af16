package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no config path
// is given.
const EnvVar = "MTLOC_CONFIG"

// Config holds batch and font generation settings.
type Config struct {
	Workers     int      `yaml:"workers"`
	ImageFormat string   `yaml:"image_format"`
	Preview     bool     `yaml:"preview"`
	PreviewSize int      `yaml:"preview_size"`
	Skip        []string `yaml:"skip"`
	CharsetSkip []string `yaml:"charset_skip"`
	Font        Font     `yaml:"font"`
}

// Font tunes glyph atlas generation.
type Font struct {
	// AdjustX and AdjustY shift recorded glyph positions and shrink
	// recorded sizes for fonts whose ink is visually trimmed.
	AdjustX int `yaml:"adjust_x"`
	AdjustY int `yaml:"adjust_y"`
	// SizePx overrides the pixel size from the GFD header when non-zero.
	SizePx int `yaml:"size_px"`
}

// Load reads a YAML config file. An empty path falls back to $MTLOC_CONFIG;
// if that is unset too, Load returns an empty Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Workers     int
	ImageFormat string
	Preview     bool
	SizePx      int
	AdjustX     int
	AdjustY     int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.ImageFormat != "" {
		c.ImageFormat = flags.ImageFormat
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.SizePx > 0 {
		c.Font.SizePx = flags.SizePx
	}
	if flags.AdjustX != 0 {
		c.Font.AdjustX = flags.AdjustX
	}
	if flags.AdjustY != 0 {
		c.Font.AdjustY = flags.AdjustY
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ImageFormat == "" {
		c.ImageFormat = "png"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Skip == nil {
		c.Skip = []string{"_sce08_c000_0000_jpn.gmd"}
	}
	if c.CharsetSkip == nil {
		c.CharsetSkip = []string{"sce08_c003_0020"}
	}
}
