package config

import (
	"os"

	"github.com/plaimi/q/internal/ports"
)

// Load resolves the bot configuration: compiled defaults, then the TOML file
// at configPath, then the process environment. It reads nothing else and
// opens no connections.
func Load(configPath string) (ports.BotConfig, error) {
	return LoadFrom(configPath, os.LookupEnv)
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(configPath string, lookup LookupFunc) (ports.BotConfig, error) {
	opts, err := FromFile(Defaults(), configPath)
	if err != nil {
		return ports.BotConfig{}, err
	}
	opts, err = FromEnv(opts, lookup)
	if err != nil {
		return ports.BotConfig{}, err
	}
	return Build(opts)
}

// Store serves one resolved configuration to any number of readers.
type Store struct {
	configPath string
	config     ports.BotConfig
}

func NewStore(configPath string) (*Store, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	return &Store{configPath: configPath, config: cfg}, nil
}

// NewStaticStore wraps an already built configuration.
func NewStaticStore(cfg ports.BotConfig) *Store {
	return &Store{config: cfg}
}

// GetConfig returns a copy; callers cannot alter the stored master list.
func (s *Store) GetConfig() ports.BotConfig {
	cfg := s.config
	cfg.Masters = append([]string(nil), s.config.Masters...)
	return cfg
}

func (s *Store) Path() string {
	return s.configPath
}

var _ ports.ConfigReader = (*Store)(nil)
