/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "gosquircle/internal/log"
	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// GeometryConfig tunes the corner calculator. Zero values fall back to the
// shipped constants, except clamp_to_height which must be set explicitly to false.
type GeometryConfig struct {
	Smoothing     float64 `yaml:"smoothing"`
	RadiusPad     float64 `yaml:"radius_pad"`
	RadiusScale   float64 `yaml:"radius_scale"`
	GlitchEpsilon float64 `yaml:"glitch_epsilon"`
	ClampToHeight *bool   `yaml:"clamp_to_height,omitempty"`
	GlitchFix     bool    `yaml:"glitch_fix"`
}

type CacheConfig struct {
	// Entries is the in-memory LRU capacity.
	Entries int `yaml:"entries"`
	// Persist enables the SQLite tier.
	Persist bool `yaml:"persist"`
	// StorePath overrides the SQLite location; empty uses the user cache dir.
	StorePath string `yaml:"store_path"`
	MaxBytes  int64  `yaml:"max_bytes"`
}

// RenderConfig holds defaults for exported documents.
type RenderConfig struct {
	Fill        string  `yaml:"fill"`
	BorderColor string  `yaml:"border_color"`
	Margin      float64 `yaml:"margin"`
	DPI         int     `yaml:"dpi"`
	Precision   int     `yaml:"precision"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Logging       LoggingConfig  `yaml:"logging"`
	Geometry      GeometryConfig `yaml:"geometry"`
	Cache         CacheConfig    `yaml:"cache"`
	Render        RenderConfig   `yaml:"render"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	g := squircle.DefaultGeometry()
	clamp := true
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Geometry: GeometryConfig{
			Smoothing:     g.Smoothing,
			RadiusPad:     g.RadiusPad,
			RadiusScale:   g.RadiusScale,
			GlitchEpsilon: g.GlitchEpsilon,
			ClampToHeight: &clamp,
		},
		Cache:  CacheConfig{Entries: 512, Persist: false, MaxBytes: 64 * 1024 * 1024},
		Render: RenderConfig{Fill: "#ffffff", BorderColor: "#000000", Margin: 8, DPI: 72, Precision: 3},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath = "SQC_CONFIG"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SQC_LOG_LEVEL"
	EnvLogFormat = "SQC_LOG_FORMAT"
	EnvLogSource = "SQC_LOG_SOURCE"
	EnvLogFile   = "SQC_LOG_FILE"
	// geometry
	EnvSmoothing     = "SQC_SMOOTHING"
	EnvGlitchEpsilon = "SQC_GLITCH_EPSILON"
	EnvClampToHeight = "SQC_CLAMP_TO_HEIGHT"
	// cache
	EnvCacheEntries  = "SQC_PATHCACHE_ENTRIES"
	EnvCachePersist  = "SQC_PATHCACHE_PERSIST"
	EnvCacheStore    = "SQC_PATHCACHE_STORE"
	EnvCacheMaxBytes = "SQC_PATHCACHE_MAX_BYTES"
)

// ConfigPath returns the per-user config file path. SQC_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoSquircle")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoSquircle")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gosquircle")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file. A missing file is not an error;
// a malformed one is.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects values the geometry or renderers cannot use.
func (c AppConfig) Validate() error {
	g := c.Geometry
	for name, v := range map[string]float64{
		"geometry.smoothing":      g.Smoothing,
		"geometry.radius_pad":     g.RadiusPad,
		"geometry.radius_scale":   g.RadiusScale,
		"geometry.glitch_epsilon": g.GlitchEpsilon,
		"render.margin":           c.Render.Margin,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: not a finite number", name)
		}
	}
	if g.RadiusScale < 0 {
		return fmt.Errorf("geometry.radius_scale: must not be negative")
	}
	if c.Cache.Entries < 0 {
		return fmt.Errorf("cache.entries: must not be negative")
	}
	if _, err := vector.ParseHexColor(c.Render.Fill); err != nil {
		return fmt.Errorf("render.fill: %w", err)
	}
	if _, err := vector.ParseHexColor(c.Render.BorderColor); err != nil {
		return fmt.Errorf("render.border_color: %w", err)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// geometry: zero means unset, so a zero smoothing has to come from SQC_SMOOTHING
	if src.Geometry.Smoothing != 0 {
		dst.Geometry.Smoothing = src.Geometry.Smoothing
	}
	if src.Geometry.RadiusPad != 0 {
		dst.Geometry.RadiusPad = src.Geometry.RadiusPad
	}
	if src.Geometry.RadiusScale != 0 {
		dst.Geometry.RadiusScale = src.Geometry.RadiusScale
	}
	if src.Geometry.GlitchEpsilon != 0 {
		dst.Geometry.GlitchEpsilon = src.Geometry.GlitchEpsilon
	}
	if src.Geometry.ClampToHeight != nil {
		v := *src.Geometry.ClampToHeight
		dst.Geometry.ClampToHeight = &v
	}
	dst.Geometry.GlitchFix = src.Geometry.GlitchFix
	// cache
	if src.Cache.Entries != 0 {
		dst.Cache.Entries = src.Cache.Entries
	}
	dst.Cache.Persist = src.Cache.Persist
	if strings.TrimSpace(src.Cache.StorePath) != "" {
		dst.Cache.StorePath = strings.TrimSpace(src.Cache.StorePath)
	}
	if src.Cache.MaxBytes != 0 {
		dst.Cache.MaxBytes = src.Cache.MaxBytes
	}
	// render
	if strings.TrimSpace(src.Render.Fill) != "" {
		dst.Render.Fill = strings.TrimSpace(src.Render.Fill)
	}
	if strings.TrimSpace(src.Render.BorderColor) != "" {
		dst.Render.BorderColor = strings.TrimSpace(src.Render.BorderColor)
	}
	if src.Render.Margin != 0 {
		dst.Render.Margin = src.Render.Margin
	}
	if src.Render.DPI != 0 {
		dst.Render.DPI = src.Render.DPI
	}
	if src.Render.Precision != 0 {
		dst.Render.Precision = src.Render.Precision
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	// geometry overrides
	if v := strings.TrimSpace(os.Getenv(EnvSmoothing)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Geometry.Smoothing = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvGlitchEpsilon)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Geometry.GlitchEpsilon = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvClampToHeight)); v != "" {
		b := parseBool(v)
		cfg.Geometry.ClampToHeight = &b
	}
	// cache overrides
	if v := strings.TrimSpace(os.Getenv(EnvCacheEntries)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Entries = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCachePersist)); v != "" {
		cfg.Cache.Persist = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheStore)); v != "" {
		cfg.Cache.StorePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheMaxBytes)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Cache.MaxBytes = n
		}
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
		"geometry.smoothing":       EnvSmoothing,
		"geometry.glitch_epsilon":  EnvGlitchEpsilon,
		"geometry.clamp_to_height": EnvClampToHeight,
		"cache.entries":            EnvCacheEntries,
		"cache.persist":            EnvCachePersist,
		"cache.store_path":         EnvCacheStore,
		"cache.max_bytes":          EnvCacheMaxBytes,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// LogOptions converts the logging section for log.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// Clamp reports whether the connection distance is limited to half the shorter side.
func (g GeometryConfig) Clamp() bool {
	return g.ClampToHeight == nil || *g.ClampToHeight
}

// Geometry returns the calculator constants.
func (g GeometryConfig) Geometry() squircle.Geometry {
	return squircle.Geometry{
		Smoothing:     g.Smoothing,
		RadiusPad:     g.RadiusPad,
		RadiusScale:   g.RadiusScale,
		GlitchEpsilon: g.GlitchEpsilon,
	}
}

// Options returns the outline options this section describes. Callers append
// per-request options after these to override them.
func (g GeometryConfig) Options() []squircle.Option {
	return []squircle.Option{
		squircle.WithGeometry(g.Geometry()),
		squircle.WithClamp(g.Clamp()),
		squircle.WithGlitch(g.GlitchFix),
	}
}

// Colors parses the render colors. Validate has already checked them on Load.
func (r RenderConfig) Colors() (fill, border vector.Color) {
	fill, err := vector.ParseHexColor(r.Fill)
	if err != nil {
		fill = vector.White
	}
	border, err = vector.ParseHexColor(r.BorderColor)
	if err != nil {
		border = vector.Black
	}
	return fill, border
}
