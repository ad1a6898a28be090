// Package config provides the configuration structure for text2speech.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Built-in defaults. The CLI must remain usable with zero configuration, so
// every field has a working default and a project TOML only overrides what
// it names.
const (
	defaultServiceHost    = "127.0.0.1"
	defaultServicePort    = 8020
	defaultTimeoutSeconds = 300
	defaultTemperature    = 0.75
	defaultBaseLogsDir    = "/tmp/text2speech/logs"
)

// TTSConfig holds the connection and tuning parameters for the XTTS
// synthesis service.
type TTSConfig struct {
	ServiceHost    string  `toml:"service_host"`
	ServicePort    int     `toml:"service_port"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
	Preprocess     bool    `toml:"preprocess"`
}

// GetServiceURL returns the base URL of the synthesis service.
func (t TTSConfig) GetServiceURL() string {
	return fmt.Sprintf("http://%s:%d", t.ServiceHost, t.ServicePort)
}

// PathsConfig holds the file system locations used by the CLI. An empty
// VoicesDir means "the voices directory shipped next to the binary".
type PathsConfig struct {
	VoicesDir   string `toml:"voices_dir"`
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	TTS   TTSConfig   `toml:"tts"`
	Paths PathsConfig `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TTS: TTSConfig{
			ServiceHost:    defaultServiceHost,
			ServicePort:    defaultServicePort,
			TimeoutSeconds: defaultTimeoutSeconds,
			Temperature:    defaultTemperature,
			Preprocess:     true,
		},
		Paths: PathsConfig{
			VoicesDir:   "",
			BaseLogsDir: defaultBaseLogsDir,
		},
	}
}

// Load loads the configuration via the central configurator, layered over
// the built-in defaults. A missing project configuration is not an error:
// the defaults are returned and the condition is logged.
func Load(log *logger.Logger) *Config {
	cfg := Default()

	err := configurator.Load(cfg, log)
	if err != nil {
		log.Warn("No project configuration loaded, using built-in defaults: %v", err)

		return Default()
	}

	return cfg
}
