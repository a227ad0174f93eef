package domain

// NextConfig is the framework build configuration.
type NextConfig struct {
	Experimental Experimental `json:"experimental" yaml:"experimental"`
}

// Experimental holds opt-in framework features.
type Experimental struct {
	// AppDir enables the application-directory routing mode.
	AppDir bool `json:"appDir" yaml:"appDir"`
}

// DefaultNextConfig returns the framework configuration with the
// application-directory routing mode enabled.
func DefaultNextConfig() NextConfig {
	return NextConfig{
		Experimental: Experimental{AppDir: true},
	}
}
