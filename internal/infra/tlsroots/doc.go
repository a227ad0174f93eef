// Package tlsroots loads TLS material for both binaries.
//
// Pool builds client trust from the system roots plus optional PEM files,
// which webfront-cli uses to reach a server behind a private CA. KeyPair
// serves the server certificate and reloads it when the files change, so
// certificates can be rotated without a restart.
package tlsroots
