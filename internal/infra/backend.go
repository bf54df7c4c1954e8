package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"uniformgen/internal/domain"
)

// BackendConfig is the optional YAML file that tunes the inference backend:
//
//	candidates:
//	  - stability-ai/sdxl
//	defaults:
//	  steps: 30
//	  guidance: 7.5
//	  width: 768
//	  height: 768
type BackendConfig struct {
	Candidates []string          `yaml:"candidates"`
	Defaults   InferenceDefaults `yaml:"defaults"`
}

// InferenceDefaults are the sampler settings used when a request leaves them unset.
type InferenceDefaults struct {
	Steps    int     `yaml:"steps"`
	Guidance float64 `yaml:"guidance"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// LoadBackendConfig reads the backend file. An empty path yields an empty config and
// every value falls back to the built-in defaults. Env overrides for the sampler
// defaults (INFERENCE_STEPS, INFERENCE_GUIDANCE) apply on top of the file.
func LoadBackendConfig(path string) (*BackendConfig, error) {
	cfg := &BackendConfig{}
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read backend config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse backend config: %w", err)
		}
	}
	cfg.Defaults.Steps = getEnvInt("INFERENCE_STEPS", cfg.Defaults.Steps)
	cfg.Defaults.Guidance = getEnvFloat("INFERENCE_GUIDANCE", cfg.Defaults.Guidance)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}
	return cfg, nil
}

// Validate rejects malformed candidates and negative sampler values.
func (c *BackendConfig) Validate() error {
	for i, id := range c.Candidates {
		id = strings.TrimSpace(id)
		if strings.Count(id, "/") != 1 || strings.HasPrefix(id, "/") || strings.HasSuffix(id, "/") {
			return fmt.Errorf("candidate %d (%q) must be owner/name", i, id)
		}
		c.Candidates[i] = id
	}
	d := c.Defaults
	if d.Steps < 0 || d.Guidance < 0 || d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("defaults must not be negative")
	}
	return nil
}

// Params converts the defaults into request parameters; zero fields stay zero and are
// filled by DesignRequest.WithDefaults.
func (c *BackendConfig) Params() domain.InferenceParams {
	if c == nil {
		return domain.InferenceParams{}
	}
	return domain.InferenceParams{
		Steps:    c.Defaults.Steps,
		Guidance: c.Defaults.Guidance,
		Width:    c.Defaults.Width,
		Height:   c.Defaults.Height,
	}
}
