package service

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// BuildSection is the build configuration as loaded from config.
type BuildSection struct {
	NodeEnv string
	AppDir  bool
	// Plugins is the base CSS pipeline. Nil selects domain.DefaultPlugins.
	Plugins []domain.Plugin
}

// BuildSnapshot is one immutable view of the build configuration.
type BuildSnapshot struct {
	Next     domain.NextConfig `json:"next" yaml:"next"`
	PostCSS  domain.Pipeline   `json:"postcss" yaml:"postcss"`
	NodeEnv  string            `json:"node_env" yaml:"node_env"`
	LoadedAt time.Time         `json:"loaded_at" yaml:"loaded_at"`
}

// Production reports whether the snapshot was built for production.
func (s *BuildSnapshot) Production() bool {
	return domain.IsProduction(s.NodeEnv)
}

// ReloadHook is called after every reload attempt.
type ReloadHook func(err error, production bool)

// BuildConfigService serves the current build configuration.
//
// Readers never block: a reload builds a new snapshot and swaps it in.
// A failed reload keeps the previous snapshot.
type BuildConfigService struct {
	current  atomic.Pointer[BuildSnapshot]
	onReload ReloadHook
	now      func() time.Time
	log      logger.Logger
}

// NewBuildConfigService creates a service with no snapshot loaded.
func NewBuildConfigService(onReload ReloadHook, log logger.Logger) *BuildConfigService {
	if log == nil {
		log = logger.Default()
	}
	return &BuildConfigService{
		onReload: onReload,
		now:      time.Now,
		log:      log.With("component", "build"),
	}
}

// ============================================================================
// Reload
// ============================================================================

// Reload validates section and, on success, replaces the current snapshot.
func (s *BuildConfigService) Reload(section BuildSection) error {
	snap, err := s.build(section)
	if s.onReload != nil {
		s.onReload(err, err == nil && snap.Production())
	}
	if err != nil {
		s.log.Warn("build config rejected", "node_env", section.NodeEnv, "error", err)
		return fmt.Errorf("reload build config: %w", err)
	}

	prev := s.current.Swap(snap)
	s.log.Info("build config loaded",
		"node_env", snap.NodeEnv,
		"app_dir", snap.Next.Experimental.AppDir,
		"plugins", snap.PostCSS.Names(),
		"replaced", prev != nil,
	)
	return nil
}

func (s *BuildConfigService) build(section BuildSection) (*BuildSnapshot, error) {
	base := section.Plugins
	if base == nil {
		base = domain.DefaultPlugins()
	}

	pipeline, err := domain.BuildPipeline(base, section.NodeEnv)
	if err != nil {
		return nil, err
	}

	next := domain.DefaultNextConfig()
	next.Experimental.AppDir = section.AppDir

	return &BuildSnapshot{
		Next:     next,
		PostCSS:  pipeline,
		NodeEnv:  section.NodeEnv,
		LoadedAt: s.now().UTC(),
	}, nil
}

// ============================================================================
// Readers
// ============================================================================

// Snapshot returns the current snapshot, or domain.ErrConfigNotLoaded
// before the first successful Reload.
func (s *BuildConfigService) Snapshot() (*BuildSnapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrConfigNotLoaded
	}
	return snap, nil
}

// Next returns the framework build configuration.
func (s *BuildConfigService) Next() (domain.NextConfig, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.NextConfig{}, err
	}
	return snap.Next, nil
}

// PostCSS returns the CSS plugin pipeline.
func (s *BuildConfigService) PostCSS() (domain.Pipeline, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.Pipeline{}, err
	}
	return snap.PostCSS, nil
}
