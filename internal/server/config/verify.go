package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/infra/shutdown"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyShutdown(&cfg.Shutdown); err != nil {
		return err
	}
	if err := verifyBuild(&cfg.Build); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("server.http tls file: %w", err)
		}
	}

	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	return nil
}

func verifyShutdown(cfg *ShutdownSection) error {
	fallback, err := shutdown.ParseFallback(cfg.Fallback)
	if err != nil {
		return fmt.Errorf("shutdown.fallback: %w", err)
	}
	if fallback == shutdown.FallbackWatchdog && cfg.HardExitAfter <= shutdown.GracePeriod {
		return fmt.Errorf("shutdown.hard_exit_after must exceed the %v grace period", shutdown.GracePeriod)
	}
	return nil
}

func verifyBuild(cfg *BuildSection) error {
	if err := domain.ValidatePlugins(cfg.PostCSS.DomainPlugins()); err != nil {
		return fmt.Errorf("build.postcss.plugins: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch cfg.Format {
	case "", "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}
