package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/wgslpp/value"
)

// Define is one -D name=value pair from the command line. Raw is parsed
// into a typed global when the app starts.
type Define struct {
	Name string
	Raw  string
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	EntryPath  string // logical path of the shader to expand
	RootPath   string // workspace root directory
	OutputPath string // destination file; empty means stdout

	Defines []Define

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.EntryPath == "" {
		return nil, errors.New("EntryPath is a required configuration field and cannot be empty")
	}
	if cfg.RootPath == "" {
		cfg.RootPath = "."
	}
	for _, d := range cfg.Defines {
		if _, err := parseDefine(d); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// parseDefine converts the raw text of a -D flag into a typed global.
// Integers are tried first so "3" defines an integer, not a float.
func parseDefine(d Define) (value.Value, error) {
	raw := strings.TrimSpace(d.Raw)
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Float(f), nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return value.Bool(b), nil
	}
	return value.Value{}, fmt.Errorf("define %s: %q is not an integer, float, or boolean", d.Name, d.Raw)
}
