// Package buildinfo provides build information for webfront.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// When the linker did not set Commit or BuildTime, the VCS stamp recorded
// by the Go toolchain is used instead. GoVersion and Platform always come
// from the running binary.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/webfront/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
