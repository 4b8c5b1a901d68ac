// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles application configuration including reading and writing
// the configuration file and providing the defaults used to build Pake commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pakewrapper/internal/pake"
	"pakewrapper/internal/util"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPakePath     = "/opt/homebrew/bin/pake"
	DefaultWidth        = 1280
	DefaultHeight       = 800
	DefaultConfirmToken = "y"
	DefaultLogFile      = "~/.pakewrapper.log"
)

// Config represents the top-level application configuration
type Config struct {
	// PakePath is the location of the packaging binary
	PakePath string `yaml:"pake_path"`

	// Width and Height are the window dimensions passed to Pake
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// MultiArch adds --multi-arch to build a universal bundle
	MultiArch bool `yaml:"multi_arch"`

	// ConfirmToken is the answer that confirms the build prompt
	ConfirmToken string `yaml:"confirm_token"`

	// LogFile is the append-only log file, '~/' paths are allowed
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{
		PakePath:     DefaultPakePath,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		MultiArch:    true,
		ConfirmToken: DefaultConfirmToken,
		LogFile:      DefaultLogFile,
	}
}

// Validate checks that the configuration can produce a usable command.
func (c Config) Validate() error {
	var errs []error
	if c.PakePath == "" {
		errs = append(errs, errors.New("pake_path must not be empty"))
	}
	if c.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		errs = append(errs, fmt.Errorf("height must be positive, got %d", c.Height))
	}
	if c.ConfirmToken == "" {
		errs = append(errs, errors.New("confirm_token must not be empty"))
	}
	return errors.Join(errs...)
}

// PakeOptions returns the fixed part of every Pake command.
func (c Config) PakeOptions() pake.Options {
	return pake.Options{
		Binary:    c.PakePath,
		Width:     c.Width,
		Height:    c.Height,
		MultiArch: c.MultiArch,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "pakewrapper", "config.yaml"), nil
}

// LoadConfig reads the configuration at path. A missing file yields Default().
// Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

func EnsureConfigDir(path string) error {
	configDir := filepath.Dir(path)
	err := os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(path string, cfg Config) error {
	err := EnsureConfigDir(path)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(path, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

func ResolvePath(path string) (string, error) {
	return util.ExpandHome(path)
}
