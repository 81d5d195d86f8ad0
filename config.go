package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigName = ".boxmend.yaml"

type Config struct {
	// SaveDirectory is where the preview writes saved text and PNG exports.
	// Empty means the working directory.
	SaveDirectory string `yaml:"save_directory"`
	// Confirmations asks before quitting, closing buffers or overwriting.
	Confirmations bool `yaml:"confirmations"`
	// Detect skips input that does not look like a diagram.
	Detect bool `yaml:"detect"`
	// Markdown limits repairs in .md files to fenced code blocks.
	Markdown bool `yaml:"markdown"`
	// Backup keeps a .bak copy when rewriting a file in place.
	Backup bool `yaml:"backup"`
	// Jobs bounds how many files are repaired at once.
	Jobs int `yaml:"jobs"`

	Watch   WatchConfig   `yaml:"watch"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

type WatchConfig struct {
	Debounce   string   `yaml:"debounce"`
	Extensions []string `yaml:"extensions"`
}

type ExportConfig struct {
	FontSize   float64 `yaml:"font_size"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	Padding    int     `yaml:"padding"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		SaveDirectory: "",
		Confirmations: true,
		Detect:        false,
		Markdown:      true,
		Backup:        false,
		Jobs:          4,
		Watch: WatchConfig{
			Debounce:   "500ms",
			Extensions: []string{".txt", ".md"},
		},
		Export: ExportConfig{
			FontSize:   12,
			CellWidth:  8,
			CellHeight: 16,
			Padding:    2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultConfigPath returns ~/.boxmend.yaml, or "" without a home directory.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, defaultConfigName)
}

// LoadConfig reads a YAML config over the defaults. A missing file is not
// an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.SaveDirectory = expandPath(cfg.SaveDirectory)
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("BOXMEND_SAVE_DIR"); dir != "" {
		c.SaveDirectory = dir
	}
	if level := os.Getenv("BOXMEND_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if jobs := os.Getenv("BOXMEND_JOBS"); jobs != "" {
		if n, err := strconv.Atoi(jobs); err == nil && n > 0 {
			c.Jobs = n
		}
	}
}

// GetSavePath places filename under SaveDirectory unless it already has a
// directory component.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) || filepath.Dir(filename) != "." {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// DebounceDuration parses Watch.Debounce, falling back to 500ms.
func (c *Config) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(c.Watch.Debounce); err == nil && d > 0 {
		return d
	}
	return 500 * time.Millisecond
}

// WatchesExtension reports whether files with the extension of path are
// repaired by the watcher.
func (c *Config) WatchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Watch.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
