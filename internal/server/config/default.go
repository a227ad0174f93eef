package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:8080"

	DefaultShutdownFallback = "none"
	DefaultHardExitAfter    = 5 * time.Second

	DefaultNodeEnv = "development"
	DefaultAppDir  = true

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
//
// Slices are left nil: koanf merges decoded slices element by element into
// existing ones, so a non-empty default would leak into a shorter list.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Shutdown: ShutdownSection{
			Fallback:      DefaultShutdownFallback,
			HardExitAfter: DefaultHardExitAfter,
		},
		Build: BuildSection{
			NodeEnv: DefaultNodeEnv,
			AppDir:  DefaultAppDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
