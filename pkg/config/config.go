// Package config handles the twinscript.toml engine configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
)

// DefaultFileName is the configuration looked up next to the binary when
// no --config flag is given.
const DefaultFileName = "twinscript.toml"

var (
	// ErrUnknownKey is returned when the file has keys no field decodes.
	ErrUnknownKey = errors.New("config: unknown key")
	// ErrInvalid is returned for a value outside its allowed range.
	ErrInvalid = errors.New("config: invalid value")
)

// Config represents a twinscript.toml file.
//
//	[engine]
//	game = "lba2"
//	max_instructions_per_frame = 1000
//	frame_rate = 60
//	seed = 1
//	charset = "cp850"
//
//	[audio]
//	soundfont = "GeneralUser-GS.sf2"
//	muted = false
//
//	[viewer]
//	scale = 0.25
//	width = 640
//	height = 480
type Config struct {
	Engine Engine `toml:"engine"`
	Audio  Audio  `toml:"audio"`
	Viewer Viewer `toml:"viewer"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Engine configures script execution.
type Engine struct {
	Game                    string `toml:"game"`
	MaxInstructionsPerFrame int    `toml:"max_instructions_per_frame"`
	FrameRate               int    `toml:"frame_rate"`
	Seed                    uint64 `toml:"seed"`
	Charset                 string `toml:"charset"`
}

// Audio configures sample and music playback.
type Audio struct {
	SoundFont     string `toml:"soundfont"`
	Muted         bool   `toml:"muted"`
	SamplePattern string `toml:"sample_pattern"`
	MusicPattern  string `toml:"music_pattern"`
}

// Viewer configures the debug window.
type Viewer struct {
	Scale  float64 `toml:"scale"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: Engine{
			Game:                    string(opcode.GameLBA2),
			MaxInstructionsPerFrame: 1000,
			FrameRate:               60,
			Seed:                    1,
			Charset:                 "cp850",
		},
		Viewer: Viewer{
			Scale:  0.25,
			Width:  640,
			Height: 480,
		},
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration at path. An empty path returns the
// defaults; so does a missing DefaultFileName, which is optional.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultFileName {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if _, err := c.Table(); err != nil {
		return err
	}
	if _, err := script.CharsetByName(c.Engine.Charset); err != nil {
		return err
	}
	if c.Engine.MaxInstructionsPerFrame <= 0 {
		return fmt.Errorf("%w: max_instructions_per_frame must be positive, got %d", ErrInvalid, c.Engine.MaxInstructionsPerFrame)
	}
	if c.Engine.FrameRate <= 0 || c.Engine.FrameRate > 1000 {
		return fmt.Errorf("%w: frame_rate must be in 1..1000, got %d", ErrInvalid, c.Engine.FrameRate)
	}
	if c.Viewer.Scale <= 0 {
		return fmt.Errorf("%w: viewer scale must be positive, got %g", ErrInvalid, c.Viewer.Scale)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("%w: viewer size %dx%d", ErrInvalid, c.Viewer.Width, c.Viewer.Height)
	}
	return nil
}

// Table returns the opcode table of the configured game.
func (c *Config) Table() (*opcode.Table, error) {
	return opcode.ForGame(opcode.Game(c.Engine.Game))
}

// FrameDuration is the simulated time of one frame.
func (c *Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.Engine.FrameRate)
}
