// Package config provides layered configuration for changemoji using koanf.
// Configuration is loaded with priority: flags > environment variables (CHANGEMOJI_*)
// > project config (.changemoji.yml, .changemoji.toml or legacy .changemoji.json) > user config
// (~/.config/changemoji/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CHANGEMOJI_"

// Configuration represents the changemoji configuration.
type Configuration struct {
	// Output is the file the changelog is written to, relative to the working directory.
	Output string `koanf:"output" validate:"required"`
	// Format selects the output encoding: "markdown" or "yaml".
	Format string `koanf:"format" validate:"oneof=markdown yaml"`
	// Title is the top-level document heading.
	Title string `koanf:"title"`

	// Provider selects the history backend: "gogit" (in-process) or "cli" (git executable).
	Provider string `koanf:"provider" validate:"oneof=gogit cli"`
	// GitBinary is the executable used by the cli provider.
	GitBinary string `koanf:"git_binary" validate:"required_if=Provider cli"`

	// Jobs bounds how many release ranges are collected concurrently.
	Jobs int `koanf:"jobs" validate:"min=1,max=64"`

	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `koanf:"log_json"`

	// WatchDebounce is how long `changemoji watch` waits for ref changes to settle.
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the directory searched for project config (default: current directory).
	ProjectDir string
	// ProjectConfigPath overrides the project config file (the --config flag).
	ProjectConfigPath string
	// UserConfigPath overrides the user config file location.
	UserConfigPath string
	// Overrides are applied last, keyed by config key (flags that were set).
	Overrides map[string]any
	// WarningWriter receives warnings about ignored files (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration for the project in dir with no overrides.
func Load(dir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: dir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/changemoji/config.yml when present.
func loadUserConfig(k *koanf.Koanf, override string) error {
	path := override
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. An explicit path must exist;
// otherwise the first of .changemoji.yml, .changemoji.toml and the legacy
// .changemoji.json is used.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return &ValidationError{FilePath: opts.ProjectConfigPath, Message: "config file not found"}
		}
		return loadConfigFile(k, opts.ProjectConfigPath, "project")
	}

	var found []string
	for _, path := range []string{
		ProjectConfigPath(opts.ProjectDir),
		TOMLProjectConfigPath(opts.ProjectDir),
		LegacyProjectConfigPath(opts.ProjectDir),
	} {
		if fileExists(path) {
			found = append(found, path)
		}
	}
	if len(found) == 0 {
		return nil
	}

	if err := loadConfigFile(k, found[0], "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	if !opts.SkipWarnings {
		for _, ignored := range found[1:] {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n", ignored, found[0])
		}
	}
	return nil
}

// loadConfigFile picks a parser from the file extension, defaulting to YAML.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONConfig(k, path)
	case ".toml":
		return loadTOMLConfig(k, path)
	default:
		return loadYAMLConfig(k, path, configType)
	}
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

func loadTOMLConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), tomlParser{}); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHANGEMOJI_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
