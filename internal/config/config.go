package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type GraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type ProxyConfig struct {
	// Backend selects the Proxy implementation: "neo4j" or "memory".
	Backend string `toml:"backend"`
	// PopularTablesLimit caps the popularity ranking endpoint.
	PopularTablesLimit int `toml:"popular_tables_limit"`
}

type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Server ServerConfig `toml:"server"`
	Proxy  ProxyConfig  `toml:"proxy"`
}

// Default returns a config that runs against a local bolt endpoint with no
// config file present.
func Default() *Config {
	return &Config{
		Graph:  GraphConfig{URI: "bolt://localhost:7687"},
		Server: ServerConfig{Port: "8080"},
		Proxy:  ProxyConfig{Backend: "neo4j", PopularTablesLimit: 100},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
