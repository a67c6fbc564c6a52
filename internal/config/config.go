// Package config loads docparse settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
)

const (
	DefaultWordsPerPage = 500
	DefaultWorkers      = 4
)

const (
	envDBPath       = "DOCPARSE_DB_PATH"
	envTemplateDir  = "DOCPARSE_TEMPLATE_DIR"
	envWorkers      = "DOCPARSE_WORKERS"
	envWordsPerPage = "DOCPARSE_WORDS_PER_PAGE"
	envLogOutput    = "DOCPARSE_LOG_OUTPUT"
	envLogLevel     = "DOCPARSE_LOG_LEVEL"
	envLogFile      = "DOCPARSE_LOG_FILE"
)

type LogSettings struct {
	Output string `yaml:"output"`
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
}

type Config struct {
	Log          LogSettings `yaml:"log"`
	DBPath       string      `yaml:"db_path"`
	TemplateDir  string      `yaml:"template_dir"`
	WordsPerPage int         `yaml:"words_per_page"`
	Workers      int         `yaml:"workers"`
}

// Default returns the built-in settings. DBPath is left empty; ResolveDBPath
// resolves it lazily.
func Default() Config {
	return Config{
		WordsPerPage: DefaultWordsPerPage,
		Workers:      DefaultWorkers,
	}
}

// Load reads path (when non-empty), applies environment overrides and
// validates the result. A missing file named explicitly is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, parseerr.Wrap(parseerr.InvalidConfiguration, path, err, "cannot read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, parseerr.Wrap(parseerr.InvalidConfiguration, path, err, "invalid config file")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(envTemplateDir); v != "" {
		c.TemplateDir = v
	}
	if v := os.Getenv(envLogOutput); v != "" {
		c.Log.Output = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		c.Log.File = v
	}

	var err error
	if c.Workers, err = envInt(envWorkers, c.Workers); err != nil {
		return err
	}
	if c.WordsPerPage, err = envInt(envWordsPerPage, c.WordsPerPage); err != nil {
		return err
	}
	return nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, parseerr.Wrap(parseerr.InvalidConfiguration, "", err, fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

// Validate rejects negative sizes and a template directory that does not
// exist. Zero values mean "use the default".
func (c Config) Validate() error {
	if c.WordsPerPage < 0 {
		return parseerr.New(parseerr.InvalidConfiguration, "", "words_per_page must not be negative, got %d", c.WordsPerPage)
	}
	if c.Workers < 0 {
		return parseerr.New(parseerr.InvalidConfiguration, "", "workers must not be negative, got %d", c.Workers)
	}
	if c.TemplateDir != "" {
		info, err := os.Stat(c.TemplateDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return parseerr.Wrap(parseerr.InvalidConfiguration, c.TemplateDir, err, "template directory does not exist")
			}
			return parseerr.Wrap(parseerr.InvalidConfiguration, c.TemplateDir, err, "cannot access template directory")
		}
		if !info.IsDir() {
			return parseerr.New(parseerr.InvalidConfiguration, c.TemplateDir, "template_dir is not a directory")
		}
	}
	return nil
}

// LogConfig converts the log section for logger.NewLogger.
func (c Config) LogConfig() logger.LogConfig {
	return logger.LogConfig{
		Output:   c.Log.Output,
		Level:    c.Log.Level,
		FilePath: c.Log.File,
	}
}

// ResolveDBPath returns the configured database path or the default under
// the user's home directory.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".docparse", "docparse.db"), nil
}
