// Package config loads folprove's CLI configuration from a layered
// source set: built-in defaults, an optional YAML file, environment
// variables, and command-line flags, in ascending order of precedence.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default config values.
const (
	DefaultStorePath    = "folprove.db"
	DefaultBudgetSteps  = 10000
	DefaultOutputFormat = "text"
	DefaultSelector     = "all"
)

// Config holds folprove's resolved CLI configuration.
type Config struct {
	StorePath    string `koanf:"store_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	BudgetSteps int    `koanf:"budget_steps"`
	BudgetSec   int    `koanf:"budget_seconds"`
	Selector    string `koanf:"selector"` // "all" or "starlark"
	SelectorScript string `koanf:"selector_script"`
}

// loggerKey is the context key a logger is stashed under by the CLI's
// PersistentPreRunE, and retrieved from by subcommands, so neither side
// needs to import the other.
type loggerKey struct{}

// LoggerKey returns the context key used to store the active logger.
func LoggerKey() interface{} { return loggerKey{} }

// WithLogger returns a context carrying log for later retrieval via
// GetLogger.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// GetLogger retrieves the logger stashed in ctx, or a discarding
// logger if none was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

var (
	k              = koanf.New(".")
	configFileUsed string
)

// findConfigFile resolves which config file to load: an explicit path,
// or else "folprove.yaml"/"folprove.yml" in the current directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"folprove.yaml", "folprove.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig clears package state, for use between test cases that
// each call Load.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// GetConfigFileUsed returns the path of the config file Load read, or
// "" if none was found.
func GetConfigFileUsed() string { return configFileUsed }

// Load builds a Config from, in ascending precedence: built-in
// defaults, cfgFile (or the first of folprove.yaml/folprove.yml found
// in the working directory), FOLPROVE_-prefixed environment variables,
// and any flags in flags that were explicitly set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"store_path":      DefaultStorePath,
		"verbose":         false,
		"output":          DefaultOutputFormat,
		"budget_steps":    DefaultBudgetSteps,
		"budget_seconds":  0,
		"selector":        DefaultSelector,
		"selector_script": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFileUsed, err)
		}
	}

	if err := k.Load(env.Provider("FOLPROVE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FOLPROVE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return &cfg, nil
}
