package config

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// EnvConfig names the environment variable holding the config path.
	EnvConfig = "DICTAMEN_CONFIG"
	// EnvDB names the environment variable holding the database path.
	EnvDB = "DICTAMEN_DB"
	// UserDir is the per-user directory under $HOME.
	UserDir = ".dictamen"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// DefaultDBFile is the database file name inside UserDir.
	DefaultDBFile = "dictamen.db"
)

// Loader resolves and loads the configuration file.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Path returns the config path with precedence: flag, $DICTAMEN_CONFIG,
// ~/.dictamen/config.yaml.
func (l *Loader) Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return UserConfigFile
	}
	return filepath.Join(home, UserDir, UserConfigFile)
}

// Load reads the config at path. A missing file yields the defaults; any
// other read, parse, or validation failure is returned.
func (l *Loader) Load(path string) (*Config, error) {
	config, err := LoadFromFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		l.logger.Debug("no config file, using defaults", zap.String("path", path))
		config = DefaultConfig()
	case err != nil:
		return nil, err
	default:
		l.logger.Debug("loaded config", zap.String("path", path), zap.Int("overrides", len(config.Overrides)))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DBPath returns the database path with precedence: flag, $DICTAMEN_DB,
// config db, ~/.dictamen/dictamen.db.
func (c *Config) DBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvDB); p != "" {
		return p
	}
	if c.DB != "" {
		return c.DB
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDBFile
	}
	return filepath.Join(home, UserDir, DefaultDBFile)
}
