package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects partial configs in priority order. The first source
// that sets a field wins; later sources only fill what is still zero.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// push records a source result. Failed sources are skipped and their errors
// surface from build.
func (b *configBuilder) push(cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	if cfg != nil {
		b.configs = append(b.configs, cfg)
	}

	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	cfg := new(StructuredConfig)
	return b.push(cfg, parseEnv(cfg))
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	return b.push(parseFlags(args))
}

// withJSON loads the file named by the first source that set JSONFilePath.
// Nothing is added when no source names a file.
func (b *configBuilder) withJSON() *configBuilder {
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			return b.push(parseJSON(cfg.JSONFilePath))
		}
	}

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.push(defaults(), nil)
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(merged, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := merged.validate(); err != nil {
		return nil, err
	}

	return merged, nil
}
