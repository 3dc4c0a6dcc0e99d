// Package config loads ufsctl settings from ufs.yaml, a .env file and the
// process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KirillLvov/userfs"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "ufs.yaml"

// Environment variables that override file settings.
const (
	EnvMaxDescriptors = "UFS_MAX_DESCRIPTORS"
	EnvBlockPoolSize  = "UFS_BLOCK_POOL_SIZE"
	EnvVerbose        = "UFS_VERBOSE"
)

type Config struct {
	MaxDescriptors int  `yaml:"max_descriptors"`
	BlockPoolSize  int  `yaml:"block_pool_size"`
	Verbose        bool `yaml:"verbose"`
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ReadEnvFile returns the variables defined in a .env file. A missing file
// yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return vars, nil
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Chain returns a LookupFunc that consults the process environment first and
// falls back to vars, matching godotenv's no-override behavior.
func Chain(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
}

// ApplyEnv overrides fields of cfg with values found through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvMaxDescriptors); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxDescriptors, err)
		}
		c.MaxDescriptors = n
	}
	if v, ok := lookup(EnvBlockPoolSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBlockPoolSize, err)
		}
		c.BlockPoolSize = n
	}
	if v, ok := lookup(EnvVerbose); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvVerbose, err)
		}
		c.Verbose = b
	}
	return nil
}

// Resolve builds the effective configuration for a working directory:
// dir/ufs.yaml (optional), then dir/.env, then the process environment.
func Resolve(dir string) (*Config, error) {
	return resolve(filepath.Join(dir, ConfigFileName), true)
}

// ResolveFile is like Resolve for an explicit config path, which must exist.
// The .env file is looked up next to it.
func ResolveFile(path string) (*Config, error) {
	return resolve(path, false)
}

func resolve(path string, optional bool) (*Config, error) {
	cfg, err := Load(path)
	if optional && errors.Is(err, ErrConfigNotFound) {
		cfg = &Config{}
	} else if err != nil {
		return nil, err
	}

	vars, err := ReadEnvFile(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(Chain(vars)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the configuration into userfs options.
func (c *Config) Options(logger userfs.Logger) userfs.Options {
	return userfs.Options{
		MaxDescriptors: c.MaxDescriptors,
		BlockPoolSize:  c.BlockPoolSize,
		Logger:         logger,
	}
}
