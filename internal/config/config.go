// Package config loads editor host settings from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pixlet/internal/editor"
	"pixlet/internal/grid"
)

// Config holds every tunable of the editor host.
type Config struct {
	ListenAddr           string
	HostKeyPath          string
	ExportDir            string
	GridSize             int
	HistoryCapacity      int
	ColorHistoryCapacity int
	Background           grid.Color
	DefaultColor         grid.Color
	Palette              []grid.Color
	LogLevel             slog.Level
}

// jsonConfig is the on-disk JSON format. Zero values keep the default.
type jsonConfig struct {
	ListenAddr           string   `json:"listen_addr"`
	HostKeyPath          string   `json:"host_key_path"`
	ExportDir            string   `json:"export_dir"`
	GridSize             int      `json:"grid_size"`
	HistoryCapacity      int      `json:"history_capacity"`
	ColorHistoryCapacity int      `json:"color_history_capacity"`
	Background           string   `json:"background"`
	DefaultColor         string   `json:"default_color"`
	Palette              []string `json:"palette"`
	LogLevel             string   `json:"log_level"`
}

// DefaultPalette is the swatch row offered when the config names none.
var DefaultPalette = []grid.Color{
	grid.Black, grid.White,
	grid.RGB(255, 0, 0), grid.RGB(0, 170, 0), grid.RGB(0, 0, 255),
	grid.RGB(255, 255, 0), grid.RGB(255, 128, 0), grid.RGB(128, 0, 128),
	grid.RGB(255, 105, 180), grid.RGB(139, 69, 19), grid.RGB(128, 128, 128),
	grid.RGB(0, 170, 170),
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:           ":2323",
		HostKeyPath:          "host_key",
		ExportDir:            "exports",
		GridSize:             16,
		HistoryCapacity:      editor.DefaultHistoryCapacity,
		ColorHistoryCapacity: editor.DefaultColorHistoryCapacity,
		Background:           grid.White,
		DefaultColor:         grid.Black,
		Palette:              append([]grid.Color(nil), DefaultPalette...),
		LogLevel:             slog.LevelInfo,
	}
}

// Load reads a JSON config file and overlays it onto Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default.
// found reports whether the file existed.
func LoadOrDefault(path string) (cfg Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return cfg, true, err
}

// Parse decodes and validates JSON config data.
func Parse(data []byte) (Config, error) {
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return Config{}, fmt.Errorf("parse config JSON: %w", err)
	}

	cfg := Default()
	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.HostKeyPath != "" {
		cfg.HostKeyPath = jc.HostKeyPath
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
	if jc.GridSize != 0 {
		cfg.GridSize = jc.GridSize
	}
	if jc.HistoryCapacity != 0 {
		cfg.HistoryCapacity = jc.HistoryCapacity
	}
	if jc.ColorHistoryCapacity != 0 {
		cfg.ColorHistoryCapacity = jc.ColorHistoryCapacity
	}

	var err error
	if jc.Background != "" {
		if cfg.Background, err = grid.ParseHex(jc.Background); err != nil {
			return Config{}, fmt.Errorf("background: %w", err)
		}
	}
	if jc.DefaultColor != "" {
		if cfg.DefaultColor, err = grid.ParseHex(jc.DefaultColor); err != nil {
			return Config{}, fmt.Errorf("default_color: %w", err)
		}
	}
	if len(jc.Palette) > 0 {
		cfg.Palette = make([]grid.Color, len(jc.Palette))
		for i, s := range jc.Palette {
			if cfg.Palette[i], err = grid.ParseHex(s); err != nil {
				return Config{}, fmt.Errorf("palette[%d]: %w", i, err)
			}
		}
	}
	if jc.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(jc.LogLevel))); err != nil {
			return Config{}, fmt.Errorf("log_level: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.GridSize < grid.MinSize || c.GridSize > grid.MaxSize {
		return fmt.Errorf("grid_size %d outside %d..%d", c.GridSize, grid.MinSize, grid.MaxSize)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity %d must be >= 1", c.HistoryCapacity)
	}
	if c.ColorHistoryCapacity < 1 {
		return fmt.Errorf("color_history_capacity %d must be >= 1", c.ColorHistoryCapacity)
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr is empty")
	}
	return nil
}

// SessionOptions converts the config into options for a new editing session.
func (c Config) SessionOptions() editor.Options {
	return editor.Options{
		Size:                 c.GridSize,
		Background:           c.Background,
		Color:                c.DefaultColor,
		BrushSize:            1,
		HistoryCapacity:      c.HistoryCapacity,
		ColorHistoryCapacity: c.ColorHistoryCapacity,
		Palette:              c.Palette,
	}
}
