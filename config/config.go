// Package config loads the engine's runtime configuration from a YAML file:
// the client identity used to filter distributor settlement rows, the
// default branch name, and the mapping from external group identifiers to
// vendor groups.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tallyops/advicenorm/advice"
)

// Config is the application configuration.
type Config struct {
	// ClientName is the legal-entity identity of the client whose rows
	// are kept when distributor settlement sheets mix several entities.
	ClientName string `yaml:"client_name"`

	// ClientEntityUUID identifies the client in the master-data registry
	// used by the enrichment stage.
	ClientEntityUUID string `yaml:"client_entity_uuid"`

	// Groups maps external group identifiers (the opaque UUID strings
	// extraction payloads carry) to vendor group names. The canonical
	// group names always resolve, so the map only needs entries for
	// external identifiers.
	Groups map[string]string `yaml:"groups"`

	// Server holds the HTTP API listen address.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Groups: map[string]string{},
		Server: ServerConfig{Host: "127.0.0.1", Port: 8973},
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for id, name := range c.Groups {
		if advice.ParseVendorGroup(name) == advice.GroupUnknown {
			return fmt.Errorf("group mapping %q: unknown vendor group %q", id, name)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}

// ResolveGroup maps a raw group identifier from an extraction payload to a
// vendor group: first through the configured aliases, then as a canonical
// group name. Unknown identifiers resolve to GroupUnknown.
func (c *Config) ResolveGroup(id string) advice.VendorGroup {
	if name, ok := c.Groups[id]; ok {
		return advice.ParseVendorGroup(name)
	}
	return advice.ParseVendorGroup(id)
}
