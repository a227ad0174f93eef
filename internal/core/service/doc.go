// Package service provides domain services for webfront.
//
// Domain services orchestrate the pure rules in package domain and hold
// the live state the HTTP and CLI surfaces read.
//
// This package contains:
//
//   - BuildConfigService: the current front-end build configuration,
//     rebuilt and swapped atomically on every reload
//
// Services are safe for concurrent use.
package service
