// Package config loads editor settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/mindmap/config.toml, falling
// back to ~/.config/mindmap/config.toml. A missing file is not an error:
// [Load] returns [Default] values, and keys absent from the file keep their
// defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

// AppName names the configuration directory.
const AppName = "mindmap"

// Config is the full set of file settings.
type Config struct {
	Canvas  Box     `toml:"canvas"`
	Node    Box     `toml:"node"`
	Graph   Graph   `toml:"graph"`
	History History `toml:"history"`
	Export  Export  `toml:"export"`
	Server  Server  `toml:"server"`
}

// Box is a width and height in pixels.
type Box struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Graph holds structural rules.
type Graph struct {
	AllowParallelEdges bool   `toml:"allow_parallel_edges"`
	IDs                string `toml:"ids"` // "sequential" or "uuid"
}

// History configures the undo stack.
type History struct {
	Limit    int    `toml:"limit"` // 0 keeps every entry
	Codec    string `toml:"codec"` // "json" or "msgpack"
	Compress bool   `toml:"compress"`
}

// Export configures image output.
type Export struct {
	Scale    float64 `toml:"scale"`
	FontSize float64 `toml:"font_size"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas:  Box{Width: 800, Height: 600},
		Node:    Box{Width: 100, Height: 40},
		Graph:   Graph{AllowParallelEdges: true, IDs: "sequential"},
		History: History{Codec: "json"},
		Export:  Export{Scale: 1, FontSize: 14},
		Server: Server{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path over the defaults and validates the result. An empty
// path means [Path]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, mmerrors.Wrap(mmerrors.ErrCodeInvalidConfig, err, "could not decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, mmerrors.New(mmerrors.ErrCodeInvalidConfig, "unknown setting %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return invalid("canvas size must be positive")
	case c.Node.Width <= 0 || c.Node.Height <= 0:
		return invalid("node size must be positive")
	case !slices.Contains([]string{"sequential", "uuid"}, c.Graph.IDs):
		return invalid("graph.ids must be \"sequential\" or \"uuid\", got %q", c.Graph.IDs)
	case c.History.Limit < 0:
		return invalid("history.limit must not be negative")
	case !slices.Contains([]string{"json", "msgpack"}, c.History.Codec):
		return invalid("history.codec must be \"json\" or \"msgpack\", got %q", c.History.Codec)
	case c.Export.Scale <= 0:
		return invalid("export.scale must be positive")
	case c.Export.FontSize <= 0:
		return invalid("export.font_size must be positive")
	case c.Server.Addr == "":
		return invalid("server.addr must not be empty")
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func invalid(format string, args ...any) error {
	return mmerrors.New(mmerrors.ErrCodeInvalidConfig, format, args...)
}
