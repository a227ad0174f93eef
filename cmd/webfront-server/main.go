package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/infra/buildinfo"
	"github.com/yndnr/webfront/internal/infra/confloader"
	"github.com/yndnr/webfront/internal/infra/shutdown"
	"github.com/yndnr/webfront/internal/infra/tlsroots"
	"github.com/yndnr/webfront/internal/server/config"
	"github.com/yndnr/webfront/internal/server/httpserver"
	"github.com/yndnr/webfront/internal/telemetry/logger"
	"github.com/yndnr/webfront/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("webfront-server " + buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting webfront-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	reg := metric.NewRegistry()

	build := service.NewBuildConfigService(reg.ConfigReloaded, log)
	if err := build.Reload(cfg.Build.Section()); err != nil {
		return err
	}

	fallback, err := shutdown.ParseFallback(cfg.Shutdown.Fallback)
	if err != nil {
		return err
	}
	coord := shutdown.New(
		shutdown.WithLogger(log),
		shutdown.WithConsole(os.Stderr),
		shutdown.WithObserver(reg),
		shutdown.WithFallback(fallback, cfg.Shutdown.HardExitAfter),
	)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Build:              build,
		Shutdown:           coord,
		Metrics:            reg,
		Logger:             log,
		CORSAllowedOrigins: cfg.Server.HTTP.CORSAllowedOrigins,
		RateLimit:          cfg.Server.HTTP.RateLimit,
		TrustProxyHeaders:  cfg.Server.HTTP.TrustProxyHeaders,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	// Hooks run in reverse order: the watcher stops before the listener.
	coord.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	if cfg.Build.Watch && *configFile != "" {
		watcher, err := watchBuildConfig(*configFile, build, reg, log)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		coord.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	var keyPair *tlsroots.KeyPair
	if cfg.Server.HTTP.TLSCertFile != "" {
		keyPair, err = tlsroots.NewKeyPair(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return err
		}
		if err := keyPair.Start(); err != nil {
			return err
		}
		coord.OnShutdown(func(context.Context) error {
			return keyPair.Stop()
		})
	}

	if err := coord.Register(); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", keyPair != nil)

		var err error
		if keyPair != nil {
			err = httpServer.ListenAndServeTLS(keyPair.ServerConfig())
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		coord.Stop()
		return fmt.Errorf("http server: %w", err)
	case <-coord.Done():
	}

	// The exit timer is armed; the coordinator ends the process.
	select {}
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// watchBuildConfig reloads the build section, and the log level, whenever
// the configuration file changes. Other sections need a restart.
func watchBuildConfig(path string, build *service.BuildConfigService, reg *metric.Registry, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		return nil, errors.Join(err, watcher.Stop())
	}

	watcher.OnChange(func(changed string) {
		cfg, err := config.Load(changed)
		if err != nil {
			reg.ConfigReloaded(err, false)
			log.Warn("configuration reload failed, keeping current build config",
				"file", changed, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		// A rejected section is logged and counted by the service.
		_ = build.Reload(cfg.Build.Section())
	})
	watcher.StartAsync()
	return watcher, nil
}
