package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/telemetry/logger"
	"github.com/yndnr/webfront/internal/telemetry/metric"
)

func newTestBuild(t *testing.T) (*service.BuildConfigService, *metric.Registry, logger.Logger) {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	reg := metric.NewRegistry()
	build := service.NewBuildConfigService(reg.ConfigReloaded, log)
	if err := build.Reload(service.BuildSection{NodeEnv: "development", AppDir: true}); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return build, reg, log
}

func TestWatchBuildConfig_MissingDirectory(t *testing.T) {
	build, reg, log := newTestBuild(t)

	path := filepath.Join(t.TempDir(), "missing", "webfront.yaml")
	watcher, err := watchBuildConfig(path, build, reg, log)
	if err == nil {
		watcher.Stop()
		t.Fatal("watchBuildConfig() on a missing directory succeeded")
	}
	if watcher != nil {
		t.Errorf("watcher = %v, want nil on error", watcher)
	}
}

func TestWatchBuildConfig_ReloadsOnChange(t *testing.T) {
	unsetEnv(t, "NODE_ENV")
	unsetEnv(t, "WEBFRONT_BUILD__NODE_ENV")
	build, reg, log := newTestBuild(t)

	path := filepath.Join(t.TempDir(), "webfront.yaml")
	if err := os.WriteFile(path, []byte("build:\n  node_env: development\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	watcher, err := watchBuildConfig(path, build, reg, log)
	if err != nil {
		t.Fatalf("watchBuildConfig() error = %v", err)
	}
	t.Cleanup(func() { watcher.Stop() })

	if err := os.WriteFile(path, []byte("build:\n  node_env: production\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := build.Snapshot()
		if err == nil && snap.Production() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("build snapshot not reloaded to production")
}

// unsetEnv unsets name for the test and restores it afterwards.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	os.Unsetenv(name)
}
