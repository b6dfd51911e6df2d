package config

import "time"

// Default values for every configuration key.
const (
	DefaultOutput        = "CHANGELOG.md"
	DefaultFormat        = "markdown"
	DefaultTitle         = "Changelog"
	DefaultProvider      = "gogit"
	DefaultGitBinary     = "git"
	DefaultJobs          = 1
	DefaultLogLevel      = "warn"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// GetDefaults returns the default configuration values keyed by config key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"output":         DefaultOutput,
		"format":         DefaultFormat,
		"title":          DefaultTitle,
		"provider":       DefaultProvider,
		"git_binary":     DefaultGitBinary,
		"jobs":           DefaultJobs,
		"log_level":      DefaultLogLevel,
		"log_json":       false,
		"watch_debounce": DefaultWatchDebounce,
	}
}

// DefaultConfigYAML is a commented project config listing every key.
const DefaultConfigYAML = `# changemoji project configuration
# Environment variables (CHANGEMOJI_<KEY>) and flags override these values.

# File the changelog is written to
output: CHANGELOG.md

# markdown or yaml
format: markdown

# Top-level heading
title: Changelog

# History backend: gogit (in-process) or cli (git executable)
provider: gogit
git_binary: git

# Release ranges collected concurrently
jobs: 1

# debug, info, warn or error
log_level: warn
log_json: false

# Settle time for 'changemoji watch'
watch_debounce: 500ms
`
