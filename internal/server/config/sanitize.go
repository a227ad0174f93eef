package config

import (
	"maps"
	"strings"

	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets. Plugin
// options are free-form and may carry credentials for hosted services.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if len(cfg.Build.PostCSS.Plugins) > 0 {
		plugins := make([]PluginSpec, len(cfg.Build.PostCSS.Plugins))
		for i, p := range cfg.Build.PostCSS.Plugins {
			plugins[i] = PluginSpec{Name: p.Name, Options: sanitizeOptions(p.Options)}
		}
		sanitized.Build.PostCSS.Plugins = plugins
	}

	return &sanitized
}

func sanitizeOptions(opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := maps.Clone(opts)
	for k, v := range out {
		switch val := v.(type) {
		case string:
			if logger.IsSensitiveKey(k) {
				out[k] = maskSecret(val)
			}
		case map[string]any:
			out[k] = sanitizeOptions(val)
		}
	}
	return out
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
