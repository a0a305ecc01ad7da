package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the client configuration, loaded from YAML with environment
// variable references expanded.
type Config struct {
	// BaseURL is the root of the imagepost service.
	BaseURL string `yaml:"base_url"`

	// AuthScheme selects how sessions are held: "bearer" or "cookie".
	// One scheme per deployment; the controller never branches on both.
	AuthScheme string `yaml:"auth_scheme"`

	// StatePath is the SQLite file for persisted client state.
	StatePath string `yaml:"state_path"`

	// Timeout bounds each HTTP round trip.
	Timeout Duration `yaml:"timeout"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`
}

// Default returns a config populated with the package defaults.
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		AuthScheme: DefaultScheme,
		StatePath:  defaultStatePath(),
		Timeout:    Duration(DefaultTimeout),
		LogLevel:   "info",
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults apply. Values may reference environment variables as ${VAR} or
// ${VAR:-default}.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	expanded := ExpandEnvWithDefaults(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultScheme
	}
	if cfg.AuthScheme != "bearer" && cfg.AuthScheme != "cookie" {
		return nil, fmt.Errorf("invalid auth_scheme %q (want bearer or cookie)", cfg.AuthScheme)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Duration(DefaultTimeout)
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// ExpandEnvWithDefaults replaces ${VAR} and ${VAR:-default} references with
// environment values. An unset variable without a default expands to the
// empty string.
func ExpandEnvWithDefaults(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name := groups[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		if groups[2] != "" {
			return strings.TrimPrefix(groups[2], ":-")
		}
		return ""
	})
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStateFile
	}
	return filepath.Join(home, DefaultStateFile)
}
