package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`
	CacheSize int    `yaml:"cache_size"`
	CORS      struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

func DefaultConfig() Config {
	return Config{Addr: ":9867"}
}

// LoadConfig reads a YAML config file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	if config.Addr == "" {
		config.Addr = DefaultConfig().Addr
	}
	return config, nil
}
