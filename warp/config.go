package warp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the serialized form of a warp route set: an ordered token list,
// per-token connections, and the static fee/blacklist option tables.
type Config struct {
	Tokens  []TokenConfig  `json:"tokens" yaml:"tokens" toml:"tokens"`
	Options *OptionsConfig `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// TokenConfig describes one token and the counterparts it connects to.
type TokenConfig struct {
	ChainName                string             `json:"chainName" yaml:"chainName" toml:"chainName"`
	Standard                 TokenStandard      `json:"standard" yaml:"standard" toml:"standard"`
	Decimals                 uint8              `json:"decimals" yaml:"decimals" toml:"decimals"`
	Symbol                   string             `json:"symbol" yaml:"symbol" toml:"symbol"`
	Name                     string             `json:"name" yaml:"name" toml:"name"`
	AddressOrDenom           string             `json:"addressOrDenom,omitempty" yaml:"addressOrDenom,omitempty" toml:"addressOrDenom,omitempty"`
	CollateralAddressOrDenom string             `json:"collateralAddressOrDenom,omitempty" yaml:"collateralAddressOrDenom,omitempty" toml:"collateralAddressOrDenom,omitempty"`
	Connections              []ConnectionConfig `json:"connections,omitempty" yaml:"connections,omitempty" toml:"connections,omitempty"`
}

// ConnectionConfig names a counterpart token by its composite
// "<protocol>|<chainName>|<addressOrDenom>" key.
type ConnectionConfig struct {
	Token         string `json:"token" yaml:"token" toml:"token"`
	SourcePort    string `json:"sourcePort,omitempty" yaml:"sourcePort,omitempty" toml:"sourcePort,omitempty"`
	SourceChannel string `json:"sourceChannel,omitempty" yaml:"sourceChannel,omitempty" toml:"sourceChannel,omitempty"`
}

// OptionsConfig carries the static override tables consulted before any live
// network call.
type OptionsConfig struct {
	LocalFeeConstants      []FeeConstantConfig `json:"localFeeConstants,omitempty" yaml:"localFeeConstants,omitempty" toml:"localFeeConstants,omitempty"`
	InterchainFeeConstants []FeeConstantConfig `json:"interchainFeeConstants,omitempty" yaml:"interchainFeeConstants,omitempty" toml:"interchainFeeConstants,omitempty"`
	RouteBlacklist         []ChainPair         `json:"routeBlacklist,omitempty" yaml:"routeBlacklist,omitempty" toml:"routeBlacklist,omitempty"`
}

// FeeConstantConfig pins one fee leg for a chain pair. Amount is a decimal
// integer string in the fee token's smallest unit.
type FeeConstantConfig struct {
	Origin         string `json:"origin" yaml:"origin" toml:"origin"`
	Destination    string `json:"destination" yaml:"destination" toml:"destination"`
	Amount         string `json:"amount" yaml:"amount" toml:"amount"`
	AddressOrDenom string `json:"addressOrDenom,omitempty" yaml:"addressOrDenom,omitempty" toml:"addressOrDenom,omitempty"`
}

// ChainPair keys the override tables.
type ChainPair struct {
	Origin      string `json:"origin" yaml:"origin" toml:"origin"`
	Destination string `json:"destination" yaml:"destination" toml:"destination"`
}

// connectionKey is the parsed form of ConnectionConfig.Token.
type connectionKey struct {
	protocol  string
	chainName string
	address   string
}

func parseConnectionKey(s string) (connectionKey, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 || parts[1] == "" {
		return connectionKey{}, fmt.Errorf("malformed connection token key %q, want <protocol>|<chainName>|<addressOrDenom>", s)
	}
	return connectionKey{
		protocol:  parts[0],
		chainName: parts[1],
		address:   parts[2],
	}, nil
}

// ParseConfig decodes a serialized config. The encoding is chosen by the file
// extension: .yaml/.yml, .json, or .toml.
func ParseConfig(data []byte, filename string) (Config, error) {
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal json config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config extension %q", ext)
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// validate checks the shape invariants that do not need the chain registry.
func (c Config) validate() error {
	if len(c.Tokens) == 0 {
		return fmt.Errorf("config declares no tokens")
	}
	for i, tc := range c.Tokens {
		if tc.ChainName == "" {
			return fmt.Errorf("token %d: missing chainName", i)
		}
		if !tc.Standard.Valid() {
			return fmt.Errorf("token %d (%s): unknown standard %q", i, tc.ChainName, tc.Standard)
		}
		for _, conn := range tc.Connections {
			if _, err := parseConnectionKey(conn.Token); err != nil {
				return fmt.Errorf("token %d (%s): %w", i, tc.ChainName, err)
			}
		}
	}
	return nil
}
