package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tool locates the external binaries the engine invokes.
type Tool struct {
	YtDlpPath string `toml:"ytdlp_path"`
}

// Defaults seeds request fields when a front-end supplies nothing.
type Defaults struct {
	OutputDir        string `toml:"output_dir"`
	FilenameTemplate string `toml:"filename_template"`
}

// Logging controls the engine log output.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the engine configuration shared by the GUI and the CLI.
type Config struct {
	Tool     Tool     `toml:"tool"`
	Defaults Defaults `toml:"defaults"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tool: Tool{YtDlpPath: "yt-dlp"},
		Defaults: Defaults{
			FilenameTemplate: "%(title)s.%(ext)s",
		},
		Logging: Logging{Level: "info"},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "tubegrab", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tool.YtDlpPath) == "" {
		return fmt.Errorf("tool.ytdlp_path must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// WriteSample writes the annotated sample config to path, creating parent
// directories. Refuses to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
