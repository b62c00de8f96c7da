package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	toolskema "github.com/reoring/toolskema"
)

// Config holds CLI settings. Values come from defaults, an optional config
// file, and TOOLSKEMA_* environment variables (highest precedence).
type Config struct {
	Lang          string
	FailFast      bool
	MaxDepth      int
	MaxBytes      int64
	DuplicateKeys string
	LogLevel      string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("lang", "en")
	v.SetDefault("fail_fast", false)
	v.SetDefault("max_depth", 0)
	v.SetDefault("max_bytes", 0)
	v.SetDefault("duplicate_keys", "ignore")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("TOOLSKEMA")
	v.AutomaticEnv()
	return v
}

// loadConfig reads pathFile when it is not empty. The file type is inferred
// from its extension.
func loadConfig(pathFile string) (Config, error) {
	v := newViper()
	if pathFile != "" {
		v.SetConfigFile(pathFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", pathFile, err)
		}
	}
	cfg := Config{
		Lang:          v.GetString("lang"),
		FailFast:      v.GetBool("fail_fast"),
		MaxDepth:      v.GetInt("max_depth"),
		MaxBytes:      v.GetInt64("max_bytes"),
		DuplicateKeys: strings.ToLower(v.GetString("duplicate_keys")),
		LogLevel:      v.GetString("log_level"),
	}
	if _, err := cfg.severity(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) severity() (toolskema.Severity, error) {
	switch c.DuplicateKeys {
	case "", "ignore":
		return toolskema.Ignore, nil
	case "warn":
		return toolskema.Warn, nil
	case "error":
		return toolskema.Error, nil
	}
	return 0, fmt.Errorf("duplicate_keys: want ignore, warn or error, got %q", c.DuplicateKeys)
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// parseOpt maps the config onto parse options. onWarn receives duplicate-key
// warnings when DuplicateKeys is "warn".
func (c Config) parseOpt(onWarn func(toolskema.Issue)) toolskema.ParseOpt {
	sev, _ := c.severity()
	return toolskema.ParseOpt{
		Strictness: toolskema.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
		FailFast:   c.FailFast,
		OnWarn:     onWarn,
	}
}
