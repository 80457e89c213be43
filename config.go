package main

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the console's tunable surface, loaded from an optional yaml
// file.
type Config struct {
	// Prompt shown while the console waits for a line.
	Prompt string `yaml:"prompt"`
	// HistoryFile persists line history between sessions; empty disables.
	HistoryFile string `yaml:"history-file"`
	// MaxFrames bounds one backtrace walk. The raw frame chain carries
	// no cycle marker, so this bound is what guarantees termination.
	MaxFrames int `yaml:"max-frames"`
}

const (
	defaultPrompt    = "K> "
	defaultMaxFrames = 256
)

func defaultConfig() *Config {
	return &Config{Prompt: defaultPrompt, MaxFrames: defaultMaxFrames}
}

// LoadConfig reads path, falling back to defaults when path is empty or
// the file is unusable. A broken config never stops the console.
func LoadConfig(path string) *Config {
	cfg := defaultConfig()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		configLogger().Warnf("could not read config file: %v", err)
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		configLogger().Warnf("could not parse config file: %v", err)
		return defaultConfig()
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = defaultMaxFrames
	}
	return cfg
}
