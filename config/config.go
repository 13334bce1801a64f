// Package config defines the serialisable application configuration and its
// loader. Configurations are YAML documents reachable through any URL scheme
// afs supports (file, embed, mem, s3, gs, ...).
package config

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/mapper"
)

// Config is the declarative application configuration. The zero value is
// usable: every nested section inherits its package defaults.
type Config struct {
	Recognizer RecognizerConfig  `json:"recognizer" yaml:"recognizer"`
	Queue      QueueConfig       `json:"queue" yaml:"queue"`
	Policy     *policy.Config    `json:"policy,omitempty" yaml:"policy,omitempty"`
	Spotify    SpotifyConfig     `json:"spotify" yaml:"spotify"`
	Bindings   []*mapper.Binding `json:"bindings" yaml:"bindings"`
	Tracing    TracingConfig     `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// RecognizerConfig describes the external recognition process.
type RecognizerConfig struct {
	Command       string   `json:"command" yaml:"command"`
	Args          []string `json:"args,omitempty" yaml:"args,omitempty"`
	Dir           string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	MinConfidence float64  `json:"minConfidence,omitempty" yaml:"minConfidence,omitempty"`
}

// QueueConfig sizes the observation queue.
type QueueConfig struct {
	Buffer int `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// SpotifyConfig points at the scy credential resource used to mint tokens.
type SpotifyConfig struct {
	CredentialsURL string `json:"credentialsURL,omitempty" yaml:"credentialsURL,omitempty"`
	CredentialsKey string `json:"credentialsKey,omitempty" yaml:"credentialsKey,omitempty"`
}

// TracingConfig enables the stdout trace exporter.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// Validate reports invalid settings.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Queue.Buffer < 0 {
		return fmt.Errorf("queue.buffer must be >= 0")
	}
	if c.Recognizer.MinConfidence < 0 || c.Recognizer.MinConfidence > 1 {
		return fmt.Errorf("recognizer.minConfidence must be within 0..1")
	}
	seen := map[string]bool{}
	for i, binding := range c.Bindings {
		if binding == nil {
			return fmt.Errorf("bindings[%d] was empty", i)
		}
		if binding.Gesture == "" || binding.Action == "" {
			return fmt.Errorf("bindings[%d] requires both gesture and action", i)
		}
		if seen[string(binding.Gesture)] {
			return fmt.Errorf("bindings[%d] duplicates gesture %v", i, binding.Gesture)
		}
		seen[string(binding.Gesture)] = true
	}
	return nil
}

// Load reads and validates a YAML configuration from the supplied URL.
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
