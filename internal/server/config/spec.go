package config

import "time"

// ServerConfig is the root configuration for webfront-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Shutdown ShutdownSection `koanf:"shutdown"`
	Build    BuildSection    `koanf:"build"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	// Empty disables CORS headers.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// TrustProxyHeaders keys rate limiting and access logs on
	// X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// ShutdownSection configures the shutdown coordinator. The grace period
// before exit is fixed and not configurable.
type ShutdownSection struct {
	// Fallback is one of none, immediate, watchdog.
	Fallback string `koanf:"fallback"`

	// HardExitAfter is the watchdog deadline, measured from the first signal.
	HardExitAfter time.Duration `koanf:"hard_exit_after"`
}

// BuildSection configures the front-end build surface.
type BuildSection struct {
	NodeEnv string        `koanf:"node_env"`
	AppDir  bool          `koanf:"app_dir"`
	Watch   bool          `koanf:"watch"`
	PostCSS PostCSSConfig `koanf:"postcss"`
}

// PostCSSConfig holds the base CSS plugin list. An empty list selects the
// built-in defaults. The minifier is managed and must not be listed.
type PostCSSConfig struct {
	Plugins []PluginSpec `koanf:"plugins"`
}

// PluginSpec is one configured CSS plugin.
type PluginSpec struct {
	Name    string         `koanf:"name"`
	Options map[string]any `koanf:"options"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
