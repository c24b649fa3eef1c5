// Package config provides the configuration of woodspider: crawl limits,
// politeness settings, storage locations, the optional YAML configuration
// file and the keyword catalog file.
package config
