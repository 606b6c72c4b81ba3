// Package config loads poshell's tunable settings from a config file (via
// Viper), environment variables, and defaults. None of these settings
// change the executor's semantics; they only parameterize the REPL's
// cosmetics, the internal diagnostics (log level, descriptor-check
// interval), and the implementation-defined limits spec.md leaves open
// (max pipeline length, max input line length).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds user-configurable settings for the shell.
type Config struct {
	Prompt            string `mapstructure:"prompt"`
	HistoryFile       string `mapstructure:"history_file"`
	HistoryLimit      int    `mapstructure:"history_limit"`
	InterruptPrompt   string `mapstructure:"interrupt_prompt"`
	EOFPrompt         string `mapstructure:"exit_message"`
	MaxPipelineLength int    `mapstructure:"max_pipeline_length"`
	MaxLineLength     int    `mapstructure:"max_line_length"`
	Theme             string `mapstructure:"theme"`
	PathColour        string `mapstructure:"path_colour"`
	PathColourBold    bool   `mapstructure:"path_colour_bold"`
	LogLevel          string `mapstructure:"log_level"`
	FDCheckInterval   uint   `mapstructure:"fd_check_interval"`
}

// Load reads configuration from a file named "config" in the current
// directory and from POSHELL_-prefixed environment variables (which take
// precedence over the file) using Viper, layered over Default. If no config file is
// present this is not an error: Load returns the defaults unchanged.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("poshell")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("prompt", def.Prompt)
	v.SetDefault("history_file", def.HistoryFile)
	v.SetDefault("history_limit", def.HistoryLimit)
	v.SetDefault("interrupt_prompt", def.InterruptPrompt)
	v.SetDefault("exit_message", def.EOFPrompt)
	v.SetDefault("max_pipeline_length", def.MaxPipelineLength)
	v.SetDefault("max_line_length", def.MaxLineLength)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("path_colour", def.PathColour)
	v.SetDefault("path_colour_bold", def.PathColourBold)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("fd_check_interval", def.FDCheckInterval)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return def, fmt.Errorf("poshell: config: failed to read config: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return def, fmt.Errorf("poshell: config: failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config populated with sensible defaults, used both as
// the fallback when loading fails and as the base layer Load defaults onto.
func Default() *Config {
	return &Config{
		Prompt:            "shell> ",
		HistoryFile:       filepath.Join(os.Getenv("HOME"), ".poshell_history"),
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "\nexit",
		MaxPipelineLength: 64,
		MaxLineLength:     4096,
		Theme:             "none",
		LogLevel:          "info",
		FDCheckInterval:   20,
	}
}
