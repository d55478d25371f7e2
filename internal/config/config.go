// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads rsacore settings from defaults, rsacore.yaml,
// RSACORE_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/rsacore/internal/rsa"
)

const (
	appName   = "rsacore"
	envPrefix = "RSACORE"
)

// Config is the full set of user settings.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database,omitempty"`
	Language string   `mapstructure:"language" yaml:"language,omitempty"`
	Log      Log      `mapstructure:"log" yaml:"log,omitempty"`
	Keygen   Keygen   `mapstructure:"keygen" yaml:"keygen,omitempty"`
	Metrics  Metrics  `mapstructure:"metrics" yaml:"metrics,omitempty"`
}

type Database struct {
	Type string `mapstructure:"type" yaml:"type,omitempty"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// Keygen holds key generation parameters. Zero values fall back to the
// library defaults.
type Keygen struct {
	Bits           int `mapstructure:"bits" yaml:"bits,omitempty"`
	MinBits        int `mapstructure:"min_bits" yaml:"min_bits,omitempty"`
	PublicExponent int `mapstructure:"public_exponent" yaml:"public_exponent,omitempty"`
	Confidence     int `mapstructure:"confidence" yaml:"confidence,omitempty"`
	Workers        int `mapstructure:"workers" yaml:"workers,omitempty"`
	MaxAttempts    int `mapstructure:"max_attempts" yaml:"max_attempts,omitempty"`
	ExponentSearch int `mapstructure:"exponent_search" yaml:"exponent_search,omitempty"`
}

type Metrics struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":          "sqlite",
		"database.dsn":           "rsacore.db",
		"language":               "en",
		"log.level":              "info",
		"log.format":             "auto",
		"keygen.bits":            2048,
		"keygen.min_bits":        rsa.DefaultMinBits,
		"keygen.public_exponent": rsa.DefaultPublicExponent,
		"keygen.confidence":      rsa.DefaultConfidence,
		"keygen.workers":         runtime.NumCPU(),
		"keygen.max_attempts":    0,
		"keygen.exponent_search": rsa.DefaultExponentSearch,
		"metrics.textfile":       "",
	}
}

// BuilderOptions converts the keygen section for rsa.NewKeyPairBuilder.
func (c Config) BuilderOptions() rsa.Options {
	return rsa.Options{
		MinBits:        c.Keygen.MinBits,
		PublicExponent: c.Keygen.PublicExponent,
		Confidence:     c.Keygen.Confidence,
		Workers:        c.Keygen.Workers,
		MaxAttempts:    c.Keygen.MaxAttempts,
		ExponentSearch: c.Keygen.ExponentSearch,
	}
}

// GetConfigPath returns the user or system-wide rsacore.yaml location.
func GetConfigPath(system bool) (string, error) {
	var dir string
	if system {
		switch runtime.GOOS {
		case "windows":
			dir = filepath.Join(os.Getenv("ProgramData"), appName)
		default:
			dir = filepath.Join("/etc", appName)
		}
	} else {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		dir = filepath.Join(userDir, appName)
	}
	return filepath.Join(dir, appName+".yaml"), nil
}

// LoadConfig resolves T from defaults, the first rsacore.yaml found (or
// configFile when non-empty), the environment and the flags of cmd.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if p, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(p))
	}
	if p, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(p))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine unless it was named explicitly.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
