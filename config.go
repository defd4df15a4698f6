package inkboard

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/utils"
	"github.com/pelletier/go-toml/v2"
)

const configFile = "config.toml"

// Config holds the board options. Colors are hex strings, sizes are pixels.
type Config struct {
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	Background   string  `toml:"background"`
	BrushColor   string  `toml:"brush_color"`
	BrushRadius  float32 `toml:"brush_radius"`
	EraserRadius float32 `toml:"eraser_radius"`
	Blend        string  `toml:"blend"`
	KernelSize   int     `toml:"kernel_size"`
	BrushImage   string  `toml:"brush_image"`
	StampDensity float32 `toml:"stamp_density"`
}

// DefaultConfig returns the settings of a fresh 2048×2048 transparent board
// with a black 10 pixel brush and a 30 pixel eraser.
func DefaultConfig() Config {
	return Config{
		Width:        2048,
		Height:       2048,
		Background:   "transparent",
		BrushColor:   "#000000",
		BrushRadius:  10,
		EraserRadius: 30,
		Blend:        imop.Normal,
		KernelSize:   DefaultKernelSize,
		StampDensity: DefaultStampDensity,
	}
}

// DefaultConfigPath returns ~/.config/inkboard/config.toml, or the
// equivalent location of the platform.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "inkboard", configFile)
}

// LoadConfig reads a TOML configuration file on top of the defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	return DecodeConfig(f)
}

// DecodeConfig parses TOML from r on top of the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("could not decode the config file: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports option values that cannot be corrected by clamping.
func (c Config) Validate() error {
	if _, err := utils.HexToRGBA(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := utils.HexToRGBA(c.BrushColor); err != nil {
		return fmt.Errorf("brush_color: %w", err)
	}
	if err := imop.NewBlend().Set(c.Blend); err != nil && c.Blend != "" {
		return err
	}
	return nil
}

// Normalize clamps numeric options into their valid ranges.
func (c Config) Normalize() Config {
	c.Width = utils.Max(c.Width, 1)
	c.Height = utils.Max(c.Height, 1)
	c.BrushRadius = utils.Max(c.BrushRadius, MinRadius)
	c.EraserRadius = utils.Max(c.EraserRadius, MinRadius)
	c.KernelSize = utils.Max(c.KernelSize, 1)
	if c.StampDensity <= 0 {
		c.StampDensity = DefaultStampDensity
	}
	if c.Blend == "" {
		c.Blend = imop.Normal
	}
	return c
}

// Save writes the configuration as TOML.
func (c Config) Save(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c Config) colors() (bg, brush color.NRGBA, err error) {
	if bg, err = utils.HexToRGBA(c.Background); err != nil {
		return
	}
	brush, err = utils.HexToRGBA(c.BrushColor)
	return
}
