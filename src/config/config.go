package config

import (
	"errors"
	"fmt"
	"os"

	"stock-trend/src/models"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

var validate = validator.New()

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file.
// A missing file is not an error: the built-in defaults are used.
func NewConfig(configPath string) (*Config, error) {
	var modelConfig models.MConfig

	// 1. Defaults first so the file only needs to name what it changes
	if err := defaults.Set(&modelConfig); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	// 2. Overlay the YAML file content
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, &modelConfig); err != nil {
				return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
			}
		}
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs configuration validation
func (c *Config) Validate() error {
	if c.MConfig == nil {
		return fmt.Errorf("config is empty")
	}
	if err := validate.Struct(c.MConfig); err != nil {
		return err
	}

	if c.GrpcPort != 0 && c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("grpc port %d collides with http port", c.GrpcPort)
	}
	if c.Network.Enabled && len(c.Network.Proxies) == 0 {
		return fmt.Errorf("network.enabled requires at least one proxy")
	}

	return nil
}
