// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*Config
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 2),
	}
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(Config)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()
	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withJSON merges the JSON file named either by the explicit path (from the
// --config CLI flag) or by the LABSYNC_CONFIG env variable picked up in
// withEnv. Values already present keep precedence; the file only fills
// gaps.
func (b *configBuilder) withJSON(explicitPath string) *configBuilder {
	jsonPath := explicitPath
	if jsonPath == "" {
		for _, cfg := range b.configs {
			if cfg.JSONFilePath != "" {
				jsonPath = cfg.JSONFilePath
			}
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, jsonCfg)
	return b
}

// GetConfig assembles the final configuration: environment first, then an
// optional JSON file (explicit path wins over LABSYNC_CONFIG), then
// defaults and validation.
func GetConfig(jsonPath string) (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withJSON(jsonPath).
		build()
}
