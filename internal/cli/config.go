package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/varmap/internal/kinds"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyKinds   = "kinds"

	backendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrNoKinds        = errors.New("kinds must list at least one kind")
)

// Config is the content of config.yaml.
type Config struct {
	Backend string   `yaml:"backend"`
	DataDir string   `yaml:"data_dir,omitempty"`
	Kinds   []string `yaml:"kinds"`
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if c.Backend != backendSQLite {
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	if len(c.Kinds) == 0 {
		return ErrNoKinds
	}
	if _, err := kinds.Set(c.Kinds...); err != nil {
		return fmt.Errorf("kinds: %w", err)
	}
	return nil
}

// defaultConfig is written by init when config.yaml is missing.
func defaultConfig(dataDir string) Config {
	return Config{
		Backend: backendSQLite,
		DataDir: dataDir,
		Kinds:   append([]string(nil), kinds.DefaultKinds...),
	}
}

// loadConfig reads config.yaml from configDir with Viper. A missing file
// yields the defaults.
func loadConfig(configDir string) (Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, backendSQLite)
	v.SetDefault(cfgKeyKinds, kinds.DefaultKinds)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: v.GetString(cfgKeyDataDir),
		Kinds:   v.GetStringSlice(cfgKeyKinds),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// writeConfigIfMissing creates config.yaml in configDir. An existing file is
// left alone.
func writeConfigIfMissing(configDir string, cfg Config) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
