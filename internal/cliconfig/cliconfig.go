// Package cliconfig resolves chaosd's configuration from flags,
// environment variables, and an optional YAML file, in that order of
// precedence.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvEndpoint = "CHAOSD_ENDPOINT"
	EnvRegion   = "CHAOSD_REGION"
	EnvConfig   = "CHAOSD_CONFIG"
)

// Defaults.
const (
	// DefaultEndpoint is the emulator base URL. The chaos API lives under
	// /_localstack/chaos on the same port as the emulated services.
	DefaultEndpoint = "http://localhost:4566"
	DefaultRegion   = "us-east-1"
	DefaultTimeout  = 5 * time.Second

	// ConfigFileName is looked up in the working directory and ~/.chaosd.
	ConfigFileName = "chaosd.yaml"
)

// DefaultServices are the emulated services scenarios act on when the
// config file does not name its own set.
var DefaultServices = []string{"s3", "dynamodb", "lambda", "sqs", "sns"}

// DefaultDependencies is the service dependency graph used by the
// cascade-failure scenario: a fault in the key propagates to the values.
var DefaultDependencies = map[string][]string{
	"s3":         {"lambda", "cloudfront"},
	"dynamodb":   {"lambda", "apigateway"},
	"lambda":     {"sqs", "sns"},
	"rds":        {"lambda", "ecs"},
	"sqs":        {"lambda"},
	"apigateway": {"lambda", "dynamodb"},
}

// Config is the resolved chaosd configuration.
type Config struct {
	// Endpoint is the emulator base URL.
	Endpoint string `yaml:"endpoint"`
	// Region is the default region faults and probes are scoped to.
	Region string `yaml:"region"`
	// Services is the default service set for multi-service scenarios.
	Services []string `yaml:"services"`
	// Timeout bounds each chaos API call.
	Timeout time.Duration `yaml:"timeout"`
	// Dependencies is the service dependency graph for cascade-failure.
	Dependencies map[string][]string `yaml:"dependencies"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		Region:       DefaultRegion,
		Services:     append([]string(nil), DefaultServices...),
		Timeout:      DefaultTimeout,
		Dependencies: DefaultDependencies,
	}
}

// GetEndpoint returns the emulator endpoint from the environment, falling
// back to the default. Flag values override this at the command layer.
func GetEndpoint() string {
	if v := os.Getenv(EnvEndpoint); v != "" {
		return v
	}
	return DefaultEndpoint
}

// GetRegion returns the default region from the environment, falling back
// to the default.
func GetRegion() string {
	if v := os.Getenv(EnvRegion); v != "" {
		return v
	}
	return DefaultRegion
}

// Load resolves the configuration: defaults, then the YAML file (explicit
// path, $CHAOSD_CONFIG, ./chaosd.yaml, ~/.chaosd/chaosd.yaml — first hit
// wins), then environment variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.fillDefaults()
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		cfg.Region = v
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields the file left empty.
func (c *Config) fillDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if len(c.Services) == 0 {
		c.Services = append([]string(nil), DefaultServices...)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.Dependencies) == 0 {
		c.Dependencies = DefaultDependencies
	}
}

func findConfigFile() string {
	if v := os.Getenv(EnvConfig); v != "" {
		return v
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".chaosd", ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
