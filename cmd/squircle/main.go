/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gosquircle/internal/config"
	"gosquircle/internal/crash"
	"gosquircle/internal/export"
	"gosquircle/internal/jobs"
	applog "gosquircle/internal/log"
	"gosquircle/internal/pathcache"
	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
	"gosquircle/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "squircle - squircle outline and border paths")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  squircle [-quiet] <command> ...              -quiet silences all logging")
	_, _ = fmt.Fprintln(w, "  squircle version|-v|--version              Show version")
	_, _ = fmt.Fprintln(w, "  squircle path [flags]                       Print outline and border path data")
	_, _ = fmt.Fprintln(w, "  squircle svg [flags] <out.svg|->            Write an SVG document")
	_, _ = fmt.Fprintln(w, "  squircle pdf [flags] <out.pdf|->            Write a PDF document")
	_, _ = fmt.Fprintln(w, "  squircle batch [-workers n] [-zip f] <jobs> <outdir> Render a YAML or JSON jobs file")
	_, _ = fmt.Fprintln(w, "  squircle cache stats|clear                  Inspect or empty the persistent path cache")
	_, _ = fmt.Fprintln(w, "  squircle config [-save]                     Print (or write to the config file) the effective configuration")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Run 'squircle <command> -help' for the flags of a command.")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	cfg    config.AppConfig
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	info   *crash.Info
}

func run(args []string, stdout, stderr io.Writer) int {
	info := &crash.Info{Args: args}
	defer crash.Recover(info)

	quiet := false
	if len(args) > 0 && (args[0] == "-quiet" || args[0] == "--quiet" || args[0] == "-q") {
		quiet = true
		args = args[1:]
	}
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	info.Command = args[0]
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-help", "--help", "-h":
		usage(stdout)
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
	lo := cfg.Logging.LogOptions()
	lo.Writer = stderr
	applog.Init(lo)
	if quiet {
		applog.Discard()
	}

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr, log: applog.WithComponent("cli"), info: info}
	a.log.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)-1))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rest := args[1:]
	switch args[0] {
	case "path":
		return a.single(ctx, rest, export.FormatPath)
	case "svg":
		return a.single(ctx, rest, export.FormatSVG)
	case "pdf":
		return a.single(ctx, rest, export.FormatPDF)
	case "batch":
		return a.batch(ctx, rest)
	case "cache":
		return a.cacheCmd(ctx, rest)
	case "config":
		return a.configCmd(rest)
	}
	_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return exitUsage
}

// fail reports err and returns the matching exit code.
func (a *app) fail(msg string, err error) int {
	a.log.Error(msg, slog.Any("err", err))
	_, _ = fmt.Fprintln(a.stderr, "Error:", err)
	return exitError
}

// openCache builds the memo and, when configured, the SQLite tier.
func (a *app) openCache() (*pathcache.Cache, error) {
	memo := pathcache.NewMemo(a.cfg.Cache.Entries)
	if !a.cfg.Cache.Persist {
		return pathcache.New(memo, nil), nil
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return pathcache.New(memo, store), nil
}

func (a *app) openStore() (*pathcache.Store, error) {
	path := a.cfg.Cache.StorePath
	if path == "" {
		p, err := pathcache.DefaultStorePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	return pathcache.OpenStore(path, a.cfg.Cache.MaxBytes)
}

// shapeFlags are the geometry and style flags shared by path, svg and pdf.
type shapeFlags struct {
	x, y, w, h     float64
	radius         float64
	fallback       float64
	corners        string
	border         float64
	color          string
	fill           string
	noClamp        bool
	glitchFix      bool
	margin         float64
	dpi, precision int
	scale          float64
	title          string
}

func (a *app) newShapeFlags(name string) (*flag.FlagSet, *shapeFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	r := a.cfg.Render
	sf := &shapeFlags{}
	fs.Float64Var(&sf.x, "x", 0, "left edge")
	fs.Float64Var(&sf.y, "y", 0, "top edge")
	fs.Float64Var(&sf.w, "w", 100, "width")
	fs.Float64Var(&sf.h, "h", 100, "height")
	fs.Float64Var(&sf.radius, "r", 0, "corner radius; 0 uses -fallback")
	fs.Float64Var(&sf.fallback, "fallback", 0, "radius used when -r is 0")
	fs.StringVar(&sf.corners, "corners", "all", "all, top, bottom, none or a list like top-left,bottom-right")
	fs.Float64Var(&sf.border, "border", 0, "border width; 0 draws no border")
	fs.StringVar(&sf.color, "color", r.BorderColor, "border color (#rrggbb or #rrggbbaa)")
	fs.StringVar(&sf.fill, "fill", r.Fill, "fill color")
	fs.BoolVar(&sf.noClamp, "noclamp", !a.cfg.Geometry.Clamp(), "do not limit the corner to half the shorter side")
	fs.BoolVar(&sf.glitchFix, "glitchfix", a.cfg.Geometry.GlitchFix, "nudge the lower left connection point outward")
	fs.Float64Var(&sf.margin, "margin", r.Margin, "canvas margin around the shape")
	fs.IntVar(&sf.dpi, "dpi", r.DPI, "SVG pixel density")
	fs.IntVar(&sf.precision, "precision", r.Precision, "decimals in emitted coordinates; negative keeps all")
	fs.Float64Var(&sf.scale, "scale", 1, "device scale applied to path output")
	fs.StringVar(&sf.title, "title", "squircle", "document title")
	return fs, sf
}

// options puts the flag values after the configured ones so they always win.
func (sf *shapeFlags) options(cfg config.AppConfig) []squircle.Option {
	return append(cfg.Geometry.Options(),
		squircle.WithFallbackRadius(sf.fallback),
		squircle.WithClamp(!sf.noClamp),
		squircle.WithGlitch(sf.glitchFix),
	)
}

// single renders one shape in format f. path takes no positional argument and
// writes to stdout; svg and pdf take an output file or "-".
func (a *app) single(ctx context.Context, args []string, f export.Format) int {
	fs, sf := a.newShapeFlags(string(f))
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	out := "-"
	if f != export.FormatPath {
		if fs.NArg() != 1 {
			_, _ = fmt.Fprintf(a.stderr, "%s requires <out>\n", f)
			return exitUsage
		}
		out = fs.Arg(0)
	} else if fs.NArg() != 0 {
		_, _ = fmt.Fprintln(a.stderr, "path takes no arguments")
		return exitUsage
	}

	corners, err := vector.ParseCorners(sf.corners)
	if err != nil {
		return a.fail("bad corners", err)
	}
	fill, err := vector.ParseHexColor(sf.fill)
	if err != nil {
		return a.fail("bad fill", err)
	}
	stroke := vector.Border{Width: sf.border}
	if stroke.Color, err = vector.ParseHexColor(sf.color); err != nil {
		return a.fail("bad border color", err)
	}

	cache, err := a.openCache()
	if err != nil {
		return a.fail("open cache failed", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			a.log.Warn("close cache failed", slog.Any("err", err))
		}
	}()

	bounds := vector.R(sf.x, sf.y, sf.w, sf.h)
	opts := sf.options(a.cfg)
	outline, err := cache.Outline(ctx, bounds, sf.radius, corners, sf.border, opts...)
	if err != nil {
		return a.geometryFailed(err)
	}
	doc := export.Document{
		Title:     sf.title,
		Margin:    sf.margin,
		Outline:   outline,
		Fill:      fill,
		Stroke:    stroke,
		DPI:       sf.dpi,
		Precision: sf.precision,
		Scale:     sf.scale,
	}
	if stroke.Enabled() {
		b, err := cache.BorderOutline(ctx, bounds, sf.radius, corners, sf.border, opts...)
		if err != nil {
			return a.geometryFailed(err)
		}
		doc.Border = &b
	}
	a.log.Debug("rendered", slog.String("kind", outline.Kind.String()), slog.String("format", string(f)))

	if out == "-" {
		var werr error
		switch f {
		case export.FormatSVG:
			werr = export.WriteSVG(a.stdout, doc)
		case export.FormatPDF:
			werr = export.WritePDF(a.stdout, doc)
		default:
			werr = export.WritePathText(a.stdout, doc)
		}
		if werr != nil {
			return a.fail("write failed", werr)
		}
		return exitOK
	}
	if err := export.WriteFile(out, f, doc); err != nil {
		return a.fail("write failed", err)
	}
	_, _ = fmt.Fprintln(a.stdout, "Wrote", out)
	return exitOK
}

// geometryFailed reports a shape that could not be built. Non-finite geometry
// is a warning: nothing is drawn, and the exit code says so.
func (a *app) geometryFailed(err error) int {
	if errors.Is(err, squircle.ErrNonFinitePoint) {
		a.log.Warn("shape skipped", slog.Any("err", err))
		_, _ = fmt.Fprintln(a.stderr, "Skipped:", err)
		return exitError
	}
	return a.fail("outline failed", err)
}

func (a *app) batch(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	workers := fs.Int("workers", 1, "jobs rendered concurrently")
	bundle := fs.String("zip", "", "also pack the written files into this zip archive")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 2 {
		_, _ = fmt.Fprintln(a.stderr, "batch requires <jobs-file> and <outdir>")
		return exitUsage
	}
	file, outDir := fs.Arg(0), fs.Arg(1)
	a.info.JobsFile = file

	f, err := jobs.Load(file)
	if err != nil {
		return a.fail("load jobs failed", err)
	}
	cache, err := a.openCache()
	if err != nil {
		return a.fail("open cache failed", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			a.log.Warn("close cache failed", slog.Any("err", err))
		}
	}()

	fill, border := a.cfg.Render.Colors()
	r := jobs.Runner{
		Cache:  cache,
		OutDir: outDir,
		Render: jobs.Render{
			Fill:        fill,
			BorderColor: border,
			Margin:      a.cfg.Render.Margin,
			DPI:         a.cfg.Render.DPI,
			Precision:   a.cfg.Render.Precision,
		},
		Options: a.cfg.Geometry.Options(),
		Workers: *workers,
	}
	rep, err := r.Run(ctx, f)
	for _, res := range rep.Results {
		if res.Skipped() {
			_, _ = fmt.Fprintf(a.stderr, "Skipped %s: %v\n", res.Name, res.Err)
		}
	}
	if err != nil {
		return a.fail("batch failed", err)
	}
	if *bundle != "" {
		var files []string
		for _, res := range rep.Results {
			files = append(files, res.Files...)
		}
		if err := export.WriteBundle(*bundle, filepath.Base(file), files); err != nil {
			return a.fail("bundle failed", err)
		}
	}
	_, _ = fmt.Fprintf(a.stdout, "Wrote %d files for %d jobs (%d skipped)\n", rep.Written(), len(rep.Results), rep.Skipped())
	st := cache.Memo().Stats()
	a.log.Info("batch done", slog.Int("jobs", len(rep.Results)), slog.Uint64("memo_hits", st.Hits), slog.Uint64("memo_misses", st.Misses))
	return exitOK
}

func (a *app) cacheCmd(ctx context.Context, args []string) int {
	if len(args) != 1 || (args[0] != "stats" && args[0] != "clear") {
		_, _ = fmt.Fprintln(a.stderr, "cache requires stats or clear")
		return exitUsage
	}
	store, err := a.openStore()
	if err != nil {
		return a.fail("open cache failed", err)
	}
	cache := pathcache.New(pathcache.NewMemo(a.cfg.Cache.Entries), store)
	defer func() {
		if err := cache.Close(); err != nil {
			a.log.Warn("close cache failed", slog.Any("err", err))
		}
	}()

	if args[0] == "clear" {
		if err := cache.Clear(ctx); err != nil {
			return a.fail("clear cache failed", err)
		}
		_, _ = fmt.Fprintln(a.stdout, "Cleared", cache.Store().Path())
		return exitOK
	}
	n, err := cache.Store().Count(ctx)
	if err != nil {
		return a.fail("count cache failed", err)
	}
	size, err := cache.Store().TotalBytes(ctx)
	if err != nil {
		return a.fail("size cache failed", err)
	}
	_, _ = fmt.Fprintf(a.stdout, "Store: %s\nEntries: %d\nBytes: %d of %d\nMemory entries: %d\n",
		cache.Store().Path(), n, size, cache.Store().MaxBytes(), cache.Memo().Stats().Capacity)
	return exitOK
}

func (a *app) configCmd(args []string) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	save := fs.Bool("save", false, "write the effective configuration to the config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *save {
		if err := config.Save(a.cfg); err != nil {
			return a.fail("save config failed", err)
		}
		path, _ := config.ConfigPath()
		_, _ = fmt.Fprintln(a.stdout, "Saved", path)
		return exitOK
	}
	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return a.fail("encode config failed", err)
	}
	if err := enc.Close(); err != nil {
		return a.fail("encode config failed", err)
	}
	return exitOK
}
