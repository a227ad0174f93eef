// Package output renders webfront-cli results.
//
// Three formats are supported: an aligned table for people, and JSON or
// YAML for scripts. Values that know how to lay themselves out as rows
// implement Tabler; anything else is reflected into a table.
package output
