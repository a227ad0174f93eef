// Package domain defines the build-configuration model served by webfront.
//
// Types here are pure values with no IO:
//
//   - NextConfig: framework build flags
//   - Plugin, Pipeline: the ordered CSS-processing plugin list
//   - DomainError: coded errors shared by the HTTP surface and the CLI
package domain
