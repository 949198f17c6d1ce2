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
	"os"
	"path/filepath"
	"testing"

	"gosquircle/internal/squircle"
)

// isolate points the config path at a temp dir so the user's file never leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	return p
}

func TestDefaultsMatchGeometry(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Geometry.Geometry() != squircle.DefaultGeometry() {
		t.Fatalf("default geometry mismatch: %+v", cfg.Geometry.Geometry())
	}
	if !cfg.Geometry.Clamp() || cfg.Geometry.GlitchFix {
		t.Fatalf("unexpected default flags: %+v", cfg.Geometry)
	}
	if cfg.Cache.Entries != 512 || cfg.Cache.Persist {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadFromFile(t *testing.T) {
	p := isolate(t)
	data := []byte(`config_version: 1
logging:
  level: DEBUG
geometry:
  glitch_epsilon: 0.02
  clamp_to_height: false
  glitch_fix: true
cache:
  entries: 64
  persist: true
render:
  fill: "#ff0000"
`)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not normalized: %q", cfg.Logging.Level)
	}
	if cfg.Geometry.GlitchEpsilon != 0.02 || cfg.Geometry.Clamp() || !cfg.Geometry.GlitchFix {
		t.Fatalf("geometry not merged: %+v", cfg.Geometry)
	}
	if cfg.Geometry.Smoothing != 100 || cfg.Geometry.RadiusScale != 2.5 {
		t.Fatalf("unset geometry fields should keep defaults: %+v", cfg.Geometry)
	}
	if cfg.Cache.Entries != 64 || !cfg.Cache.Persist {
		t.Fatalf("cache not merged: %+v", cfg.Cache)
	}
	fill, border := cfg.Render.Colors()
	if fill.R != 255 || fill.G != 0 || border.R != 0 {
		t.Fatalf("unexpected colors: %+v %+v", fill, border)
	}

	o := squircle.Resolve(cfg.Geometry.Options()...)
	if o.ClampToShortSide || !o.GlitchFix || o.Geometry.GlitchEpsilon != 0.02 {
		t.Fatalf("options not derived from config: %+v", o)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("geometry: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Render.Fill = "red"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for bad color")
	}
	cfg = Defaults()
	cfg.Cache.Entries = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative entries")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/sqc.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/sqc.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	opts := dst.Logging.LogOptions()
	if opts.Level != "debug" || !opts.AddSource || opts.File != "/tmp/sqc.log" {
		t.Fatalf("log options mismatch: %+v", opts)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/sqc.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/sqc.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverridesGeometryAndCache(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSmoothing, "0")
	t.Setenv(EnvClampToHeight, "no")
	t.Setenv(EnvCacheEntries, "8")
	t.Setenv(EnvCachePersist, "yes")
	t.Setenv(EnvCacheStore, "/tmp/paths.sqlite")
	t.Setenv(EnvCacheMaxBytes, "4096")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Geometry.Smoothing != 0 || cfg.Geometry.Clamp() {
		t.Fatalf("geometry overrides not applied: %+v", cfg.Geometry)
	}
	if cfg.Cache.Entries != 8 || !cfg.Cache.Persist || cfg.Cache.StorePath != "/tmp/paths.sqlite" || cfg.Cache.MaxBytes != 4096 {
		t.Fatalf("cache overrides not applied: %+v", cfg.Cache)
	}
	if env, ok := EnvOverrideFor("cache.max_bytes"); !ok || env != EnvCacheMaxBytes {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("render.fill"); ok {
		t.Fatalf("render.fill has no env override")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := isolate(t)
	cfg := Defaults()
	cfg.Render.DPI = 144
	off := false
	cfg.Geometry.ClampToHeight = &off
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Render.DPI != 144 || got.Geometry.Clamp() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
