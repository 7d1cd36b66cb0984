package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Wrapper      WrapperConfig      `toml:"wrapper"`
	Synchronizer SynchronizerConfig `toml:"synchronizer"`
	Database     DatabaseConfig     `toml:"database"`
	Logging      LoggingConfig      `toml:"logging"`
}

// WrapperConfig contains the mount/sync/unmount sequence settings.
type WrapperConfig struct {
	MountPoint     string   `toml:"mount_point"`
	MountCommand   []string `toml:"mount_command"`
	UnmountCommand []string `toml:"unmount_command"`
	LockPath       string   `toml:"lock_path"`
	Strict         bool     `toml:"strict"`
}

// SynchronizerConfig contains the fixed arguments handed to the synchronizer.
type SynchronizerConfig struct {
	Command   []string `toml:"command"`
	Source    string   `toml:"source"`
	Dest      string   `toml:"dest"`
	Playlist  string   `toml:"playlist"`
	Normalize bool     `toml:"normalize"`
	Workers   int      `toml:"workers"`
	CopyRate  float64  `toml:"copy_rate"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Args returns the fixed synchronizer flags in invocation order:
// --source, --dest, --playlist and, when enabled, --normalize.
func (c SynchronizerConfig) Args() []string {
	args := []string{
		"--source", c.Source,
		"--dest", c.Dest,
		"--playlist", c.Playlist,
	}
	if c.Normalize {
		args = append(args, "--normalize")
	}
	return args
}

// Validate reports missing values the wrapper cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Wrapper.MountPoint == "" {
		missing = append(missing, "wrapper.mount_point")
	}
	if len(c.Wrapper.MountCommand) == 0 {
		missing = append(missing, "wrapper.mount_command")
	}
	if len(c.Wrapper.UnmountCommand) == 0 {
		missing = append(missing, "wrapper.unmount_command")
	}
	if c.Synchronizer.Source == "" {
		missing = append(missing, "synchronizer.source")
	}
	if c.Synchronizer.Dest == "" {
		missing = append(missing, "synchronizer.dest")
	}
	if c.Synchronizer.Playlist == "" {
		missing = append(missing, "synchronizer.playlist")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
