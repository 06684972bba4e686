// Package main provides the entry point for the Memex CLI.
//
// Memex is a local full-text memory of the pages you browse. It stores
// pages, visits, tags, and bookmarks in a SQLite database, keeps a
// search index over page text, and imports history exported from the
// browser extension.
//
// Usage:
//
//	memex import export.json
//	memex search "distributed systems"
//	memex history --domain example.com
//
// See --help for all available options.
package main

// main is the entry point for Memex.
func main() {
	Execute()
}
