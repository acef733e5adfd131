// Package joyconfig loads the TOML configuration `joy` reads before
// assembling or running a program: memory layout, RNG seeding, VM
// cycle limits, and the display conventions `visualize` renders with.
package joyconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/joy-lang/joy/memword"
)

// Config is the full joy.toml shape.
type Config struct {
	Assembler struct {
		MemorySize uint32 `toml:"memory_size"`
		MemoryMode string `toml:"memory_mode"` // "little-endian" | "big-endian"
		RNGSeed    uint64 `toml:"rng_seed"`    // 0 = OS entropy
	} `toml:"assembler"`

	VM struct {
		MaxCycles uint64 `toml:"max_cycles"` // 0 = unbounded
		MockIO    bool   `toml:"mock_io"`
	} `toml:"vm"`

	Display struct {
		BytesPerLine int    `toml:"bytes_per_line"`
		NumberFormat string `toml:"number_format"` // "hex" | "dec"
	} `toml:"display"`
}

// DefaultConfig returns joy's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.MemorySize = 0x10000
	cfg.Assembler.MemoryMode = "little-endian"
	cfg.Assembler.RNGSeed = 0

	cfg.VM.MaxCycles = 0
	cfg.VM.MockIO = false

	cfg.Display.BytesPerLine = 16
	cfg.Display.NumberFormat = "hex"

	return cfg
}

// MemwordMode translates the configured endianness into a memword.Mode.
func (c *Config) MemwordMode() memword.Mode {
	if c.Assembler.MemoryMode == "big-endian" {
		return memword.BigEndian
	}
	return memword.LittleEndian
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "joy")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "joy")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load looks for ./joy.toml, falling back to the user config path,
// falling back to DefaultConfig().
func Load() (*Config, error) {
	if _, err := os.Stat("joy.toml"); err == nil {
		return LoadFrom("joy.toml")
	}
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given file, returning
// DefaultConfig() unmodified if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to the given file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
