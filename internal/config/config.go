// Package config reads the settings of the gofat16 command from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envVarPrefix = "GOFAT16"

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "yaml"}

type Config struct {
	LogLevel  string `split_words:"true" default:"info"`
	Format    string `default:"text"`
	Partition int    `default:"0"`
}

// Load reads the GOFAT16_* environment variables. Unset variables get their defaults.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if !validFormat(c.Format) {
		return fmt.Errorf("unsupported format %q (supported: text, json, yaml)", c.Format)
	}

	if c.Partition < 0 {
		return fmt.Errorf("invalid partition %d: must be 0 (whole image) or a 1-based partition number", c.Partition)
	}

	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
