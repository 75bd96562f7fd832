// Copyright 2025 The Gitsearch Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the one immutable Config record gitsearch's outer
// faces build a facade.Options from: CLI flags override environment
// variables, which override a discovered .gitsearch/config.yaml, which
// overrides DefaultConfig — the same precedence and directory-walking
// discovery as the teacher's cmd/cie/config.go, renamed to gitsearch's own
// fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	gserrors "github.com/coderadar/gitsearch/internal/errors"
)

const (
	configDirName  = ".gitsearch"
	configFileName = "config.yaml"
)

// Config is the one recognized configuration record. Fields mirror
// facade.Options plus the cache backend's connection address, since
// facade.Options.CacheBackend alone doesn't say where "shared" points.
type Config struct {
	WorkerCount             int    `yaml:"worker_count"`
	CacheBackend            string `yaml:"cache_backend"` // none, local, shared
	SharedCacheURL          string `yaml:"shared_cache_url"`
	CacheTTLSeconds         int    `yaml:"cache_ttl_seconds"`
	ExternalScannerEnabled  bool   `yaml:"external_scanner_enabled"`
	RequestDeadlineSeconds  int    `yaml:"request_deadline_seconds"`
}

// Default returns sensible out-of-the-box values for local, single-user use.
func Default() *Config {
	return &Config{
		WorkerCount:            4,
		CacheBackend:           "local",
		SharedCacheURL:         "",
		CacheTTLSeconds:        900,
		ExternalScannerEnabled: true,
		RequestDeadlineSeconds: 300,
	}
}

// Load reads configPath if non-empty, or auto-discovers
// .gitsearch/config.yaml by walking up from the current directory,
// then applies environment variable overrides. Returns Default() values
// overlaid by whatever was found; a missing file is not an error, it is
// discovery failing quietly into defaults — teacher's findConfigFile
// instead treats discovery failure as fatal because cie requires an
// explicit project config, but gitsearch works standalone with no file
// at all.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv("GITSEARCH_CONFIG_PATH")
	}
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath) //nolint:gosec // path from explicit flag, env var, or directory discovery
		if err != nil {
			return nil, gserrors.NewConfigError(
				"Cannot read configuration file",
				fmt.Sprintf("failed to read %s", configPath),
				"check file permissions and ensure the file exists",
				err,
			)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, gserrors.NewConfigError(
				"Invalid configuration format",
				"YAML parsing failed — the config file contains syntax errors",
				fmt.Sprintf("edit %s to fix syntax errors", configPath),
				err,
			)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// ConfigPath returns <dir>/.gitsearch/config.yaml.
func ConfigPath(dir string) string {
	return filepath.Join(dir, configDirName, configFileName)
}

// Save writes cfg to configPath as YAML, creating the parent directory if
// needed.
func Save(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return gserrors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"this is a bug; please report it with your configuration",
			err,
		)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return gserrors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("permission denied creating %s", dir),
			"check directory permissions",
			err,
		)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return gserrors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("permission denied writing to %s", configPath),
			"check file permissions and disk space",
			err,
		)
	}
	return nil
}

// findConfigFile walks from the current directory up to the filesystem
// root looking for .gitsearch/config.yaml, returning "" (not an error) if
// none is found anywhere.
func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", gserrors.NewInternalError(
			"Cannot access working directory",
			"failed to determine current directory path",
			"check system permissions and try again",
			err,
		)
	}
	for {
		candidate := ConfigPath(dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// applyEnvOverrides lets GITSEARCH_* environment variables override
// file-based configuration, highest precedence short of explicit CLI
// flags (which callers apply after Load returns).
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GITSEARCH_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WorkerCount = n
		}
	}
	if v := os.Getenv("GITSEARCH_CACHE_BACKEND"); v != "" {
		c.CacheBackend = v
	}
	if v := os.Getenv("GITSEARCH_SHARED_CACHE_URL"); v != "" {
		c.SharedCacheURL = v
	}
	if v := os.Getenv("GITSEARCH_EXTERNAL_SCANNER_ENABLED"); v != "" {
		c.ExternalScannerEnabled = v == "1" || v == "true"
	}
}
