package vsupport

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvLogLevel = "VSUPPORT_LOG_LEVEL"
	EnvLogJSON  = "VSUPPORT_LOG_JSON"
	EnvDebug    = "VSUPPORT_DEBUG"

	// DefaultVersionSegment is the package segment of the server class holding the version,
	// "v1_16_R3" in "org.bukkit.craftbukkit.v1_16_R3".
	DefaultVersionSegment = 3
)

type (
	// Config of the layer, usually decoded from a TOML file.
	Config struct {
		Debug          bool           `toml:"debug"`
		LogLevel       string         `toml:"log_level"`
		LogJSON        bool           `toml:"log_json"`
		VersionSegment int            `toml:"version_segment"`
		Bridges        []BridgeConfig `toml:"bridge"`
	}
	// BridgeConfig names an object file that contributes functions for one host version.
	BridgeConfig struct {
		Version  string    `toml:"version"`
		File     string    `toml:"file"`
		Package  string    `toml:"package"`
		Bindings []Binding `toml:"binding"`
	}
	// Binding publishes symbol Symbol of a bridge as static function Name of class Class.
	// Signature names a function type registered by the embedding program.
	Binding struct {
		Class     string `toml:"class"`
		Name      string `toml:"name"`
		Symbol    string `toml:"symbol"`
		Signature string `toml:"signature"`
	}
)

func DefaultConfig() Config {
	return Config{LogLevel: "info", VersionSegment: DefaultVersionSegment}
}

// LoadConfig decodes path, fills defaults and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from VSUPPORT_* variables, ignoring unparsable values.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		c.LogJSON = v
	}
	if v, ok := parseBool(os.Getenv(EnvDebug)); ok {
		c.Debug = v
	}
}

func (c Config) Validate() error {
	if c.VersionSegment < 0 {
		return fmt.Errorf("version_segment must not be negative: %d", c.VersionSegment)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for i, b := range c.Bridges {
		if b.Version == "" || b.File == "" {
			return fmt.Errorf("bridge[%d]: version and file are required", i)
		}
		for j, x := range b.Bindings {
			if x.Class == "" || x.Name == "" || x.Symbol == "" || x.Signature == "" {
				return fmt.Errorf("bridge[%d].binding[%d]: class, name, symbol and signature are required", i, j)
			}
		}
	}
	return nil
}

// BridgesFor lists the bridges configured for version.
func (c Config) BridgesFor(version string) []BridgeConfig {
	var v []BridgeConfig
	for _, b := range c.Bridges {
		if b.Version == version {
			v = append(v, b)
		}
	}
	return v
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
