package config

import (
	"fmt"
	"maps"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/infra/confloader"
)

// NodeEnvVar is the conventional front-end environment variable, honored
// as an alias for build.node_env.
const NodeEnvVar = "NODE_ENV"

// Load reads the configuration from defaults, the optional YAML file at
// path and the environment, then verifies it.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithEnvAlias(NodeEnvVar, "build.node_env"),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DomainPlugins converts the configured plugins. An empty list returns nil
// so callers fall back to the defaults.
func (c PostCSSConfig) DomainPlugins() []domain.Plugin {
	if len(c.Plugins) == 0 {
		return nil
	}
	out := make([]domain.Plugin, len(c.Plugins))
	for i, p := range c.Plugins {
		out[i] = domain.Plugin{Name: p.Name, Options: maps.Clone(p.Options)}
	}
	return out
}

// Section returns the build section in the form the build service reloads.
func (b BuildSection) Section() service.BuildSection {
	return service.BuildSection{
		NodeEnv: b.NodeEnv,
		AppDir:  b.AppDir,
		Plugins: b.PostCSS.DomainPlugins(),
	}
}
