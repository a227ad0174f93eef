// Package main provides the entry point for webfront-cli.
//
// The CLI prints the front-end build configuration and the shutdown signal
// table, either computed from local configuration or fetched from a running
// webfront-server:
//
//	webfront-cli build postcss --node-env production -o json
//	webfront-cli build next
//	webfront-cli signals
//	webfront-cli --server localhost:8080 status
package main
