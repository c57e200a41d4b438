// Package config resolves how the xtee host runs a script.
//
// Values come from, in increasing precedence: defaults, an optional YAML
// file, XTEE_* environment variables, and command-line flags (applied by
// the caller after Load).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trickstertwo/xtee"
)

// Backends lists the accepted values for Config.Backend.
var Backends = []string{"line", "zap", "zerolog", "slog"}

// Config is the resolved host configuration.
type Config struct {
	// Backend selects the adapter behind the debugger mirror.
	Backend string `yaml:"backend"`

	// Format is "text" or "json". zap and zerolog treat text as their
	// console encoders.
	Format string `yaml:"format"`

	// Level is the mirror's minimum level name.
	Level string `yaml:"level"`

	// ConsoleRedirect tees the script console into the mirror. Default true.
	ConsoleRedirect bool `yaml:"console_redirect"`

	// Timeout interrupts the script after this long. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backend:         "line",
		Format:          "text",
		Level:           "debug",
		ConsoleRedirect: true,
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then the environment read through getenv (os.Getenv when nil).
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("XTEE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := getenv("XTEE_FORMAT"); v != "" {
		c.Format = v
	}
	if v := getenv("XTEE_LEVEL"); v != "" {
		c.Level = v
	}
	if v := getenv("XTEE_NO_CONSOLE_REDIRECT"); v != "" {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("XTEE_NO_CONSOLE_REDIRECT: %w", err)
		}
		c.ConsoleRedirect = !off
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(Backends, ", "))
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", c.Format)
	}
	if _, err := xtee.ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout %s", c.Timeout)
	}
	return nil
}

// MinLevel is the parsed Level; call Validate first.
func (c Config) MinLevel() xtee.Level {
	l, _ := xtee.ParseLevel(c.Level)
	return l
}
