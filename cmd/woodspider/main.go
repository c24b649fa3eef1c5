// Package main provides the entry point for the woodspider CLI.
//
// woodspider is a focused crawler that collects timber and construction
// pages and documents into a local SQLite frontier.
//
// Usage:
//
//	woodspider catalog import catalog.yaml
//	woodspider seed bookmarks.html
//	woodspider crawl explore
//
// See --help for all available options.
package main

func main() {
	Execute()
}
