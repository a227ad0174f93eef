// Package command defines the webfront-cli commands on urfave/cli/v2.
//
// Offline commands (build, signals, version) read the same configuration
// file and environment as webfront-server and compute their answer locally.
// Passing --remote, or running status, queries a live server instead.
//
// Every command prints through the output package, so --output selects
// table, json or yaml for all of them.
package command
