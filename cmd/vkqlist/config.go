// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/vkqlist/config.yaml).
// Flags given on the command line win over config values.
type Config struct {
	Project  string `yaml:"project"`
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vkqlist", "config.yaml")
}

// loadConfig reads the config file at path.  A missing or unreadable
// file is a zero Config.
func loadConfig(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// settings are the values shared by every command once flags and the
// config file are merged.
type settings struct {
	project  string
	format   string
	logLevel string
}

func resolveSettings(cmd *cli.Command) settings {
	path := cmd.String("config")
	if !cmd.IsSet("config") {
		path = configPath()
	}
	cfg := loadConfig(path)

	s := settings{
		project:  cmd.String("project"),
		format:   cmd.String("format"),
		logLevel: cmd.String("log-level"),
	}
	if cfg.Project != "" && !cmd.IsSet("project") {
		s.project = cfg.Project
	}
	if cfg.Format != "" && !cmd.IsSet("format") {
		s.format = cfg.Format
	}
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		s.logLevel = cfg.LogLevel
	}
	return s
}
