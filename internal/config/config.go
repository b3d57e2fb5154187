package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Fonny configuration
type Config struct {
	Serial  SerialConfig  `mapstructure:"serial"`
	Exec    ExecConfig    `mapstructure:"exec"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// SerialConfig controls the serial transport
type SerialConfig struct {
	// Port is the serial device path (default: /dev/ttyACM0)
	Port string `mapstructure:"port"`
	// BaudRate is the line speed (default: 115200)
	BaudRate int `mapstructure:"baud_rate"`
	// ReadTimeoutMs is the read timeout in milliseconds; it bounds how
	// long the reader goroutine blocks between shutdown checks
	ReadTimeoutMs int `mapstructure:"read_timeout_ms"`
}

// ExecConfig controls the subprocess transport used when no hardware
// is attached
type ExecConfig struct {
	// Command is the interpreter command line, e.g. "gforth"
	Command string `mapstructure:"command"`
	// Args are additional arguments passed to the command
	Args []string `mapstructure:"args"`
}

// ArchiveConfig controls durable event recording
type ArchiveConfig struct {
	// Enabled controls whether events are recorded to the database (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database path; empty means {data dir}/events.db
	Path string `mapstructure:"path"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the log directory; empty means stderr
	Dir string `mapstructure:"dir"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MaxOutputLines limits how many lines of output are kept for display
	MaxOutputLines int `mapstructure:"max_output_lines"`
}

// ReadTimeout returns the serial read timeout as a time.Duration
func (c *SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:          "/dev/ttyACM0",
			BaudRate:      115200,
			ReadTimeoutMs: 1000,
		},
		Exec: ExecConfig{
			Command: "",
			Args:    []string{},
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    "",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		TUI: TUIConfig{
			MaxOutputLines: 1000,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("serial.port", defaults.Serial.Port)
	viper.SetDefault("serial.baud_rate", defaults.Serial.BaudRate)
	viper.SetDefault("serial.read_timeout_ms", defaults.Serial.ReadTimeoutMs)

	viper.SetDefault("exec.command", defaults.Exec.Command)
	viper.SetDefault("exec.args", defaults.Exec.Args)

	viper.SetDefault("archive.enabled", defaults.Archive.Enabled)
	viper.SetDefault("archive.path", defaults.Archive.Path)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("tui.max_output_lines", defaults.TUI.MaxOutputLines)
}

// Load reads the configuration from viper into a Config struct and
// validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fonny")
	}
	// Fall back to ~/.config/fonny
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fonny"
	}
	return filepath.Join(home, ".config", "fonny")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the path where Fonny stores session data
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fonny")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fonny"
	}
	return filepath.Join(home, ".local", "share", "fonny")
}

// ResolveArchivePath returns the archive database path, falling back
// to {DataDir}/events.db when unset.
func (c *ArchiveConfig) ResolveArchivePath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(DataDir(), "events.db")
}
