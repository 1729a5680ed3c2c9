// Package config loads the user configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

// ErrInvalid indicates a setting outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// ParseError describes a configuration file that is not valid TOML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Theme holds colors as "#rrggbb" strings; empty means the terminal
// default.
type Theme struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Syntax     string `toml:"syntax"`
	Heading    string `toml:"heading"`
	Link       string `toml:"link"`
	Code       string `toml:"code"`
	CodeBlock  string `toml:"code_block"`
	Quote      string `toml:"quote"`
	Highlight  string `toml:"highlight"`
	Math       string `toml:"math"`
	Selection  string `toml:"selection"`
	StatusBar  string `toml:"status_bar"`
}

// Config is the user configuration.
type Config struct {
	TextWidth        int    `toml:"text_width"`
	TabSize          int    `toml:"tab_size"`
	SplitWords       bool   `toml:"split_words"`
	KeepDashWithWord bool   `toml:"keep_dash_with_word"`
	ScaleHeaders     bool   `toml:"scale_headers"`
	CodeTheme        string `toml:"code_theme"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level"`
	CellPixelWidth   int    `toml:"cell_pixel_width"`
	CellPixelHeight  int    `toml:"cell_pixel_height"`
	Theme            Theme  `toml:"theme"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TextWidth:       80,
		TabSize:         4,
		SplitWords:      true,
		ScaleHeaders:    true,
		CodeTheme:       "monokai",
		LogLevel:        "info",
		CellPixelWidth:  8,
		CellPixelHeight: 16,
		Theme: Theme{
			Syntax:    "#6c7086",
			Heading:   "#89b4fa",
			Link:      "#74c7ec",
			Code:      "#a6e3a1",
			Quote:     "#9399b2",
			Highlight: "#f9e2af",
			Math:      "#cba6f7",
			Selection: "#45475a",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mdwrite/config.toml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "mdwrite", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ParseError{Path: source, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks ranges, the log level and theme colors.
func (c *Config) Validate() error {
	switch {
	case c.TextWidth < 0:
		return fmt.Errorf("%w: text_width %d is negative", ErrInvalid, c.TextWidth)
	case c.TabSize < 1 || c.TabSize > 16:
		return fmt.Errorf("%w: tab_size %d outside 1..16", ErrInvalid, c.TabSize)
	case c.CellPixelWidth < 1 || c.CellPixelHeight < 1:
		return fmt.Errorf("%w: cell pixel size must be positive", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	for name, value := range c.Theme.colors() {
		if value == "" {
			continue
		}
		if _, err := colorful.Hex(value); err != nil {
			return fmt.Errorf("%w: theme.%s %q is not a #rrggbb color", ErrInvalid, name, value)
		}
	}
	return nil
}

func (t *Theme) colors() map[string]string {
	return map[string]string{
		"foreground": t.Foreground,
		"background": t.Background,
		"syntax":     t.Syntax,
		"heading":    t.Heading,
		"link":       t.Link,
		"code":       t.Code,
		"code_block": t.CodeBlock,
		"quote":      t.Quote,
		"highlight":  t.Highlight,
		"math":       t.Math,
		"selection":  t.Selection,
		"status_bar": t.StatusBar,
	}
}

// ExpandPath resolves a leading "~/" in a configured path.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
