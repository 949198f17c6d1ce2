/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"gosquircle/internal/export"
	applog "gosquircle/internal/log"
	"gosquircle/internal/pathcache"
	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// Render holds the document defaults a job does not set itself.
type Render struct {
	Fill        vector.Color
	BorderColor vector.Color
	Margin      float64
	DPI         int
	Precision   int
}

// DefaultRender matches the shipped configuration.
func DefaultRender() Render {
	return Render{Fill: vector.White, BorderColor: vector.Black, Margin: 8, DPI: 72, Precision: 3}
}

// Runner renders the jobs of a File into OutDir.
type Runner struct {
	Cache  *pathcache.Cache
	OutDir string
	Render Render
	// Options are applied before each job's own flags, e.g. the configured geometry.
	Options []squircle.Option
	// Workers bounds concurrent jobs; 0 or less runs one at a time.
	Workers int
}

// Result is the outcome of a single job.
type Result struct {
	Name  string
	Kind  squircle.Kind
	Files []string
	// Err is set when the job was skipped.
	Err error
}

// Skipped reports whether the job produced no files.
func (r Result) Skipped() bool { return r.Err != nil }

// Report lists results in job order.
type Report struct {
	Results []Result
}

// Written counts produced files.
func (r Report) Written() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Files)
	}
	return n
}

// Skipped counts jobs that failed geometry.
func (r Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped() {
			n++
		}
	}
	return n
}

// Run renders every job of f into outDir with default render settings.
func Run(ctx context.Context, f *File, outDir string, cache *pathcache.Cache) (Report, error) {
	r := Runner{Cache: cache, OutDir: outDir, Render: DefaultRender()}
	return r.Run(ctx, f)
}

// Run renders every job. A job whose geometry has a non-finite point is logged
// and recorded as skipped; the batch continues. Write failures and invalid
// job settings abort the batch.
func (r *Runner) Run(ctx context.Context, f *File) (Report, error) {
	if f == nil {
		return Report{}, fmt.Errorf("%w: nil file", ErrInvalid)
	}
	cache := r.Cache
	if cache == nil {
		cache = pathcache.New(nil, nil)
	}
	l := applog.WithOperation(applog.WithComponent("jobs"), "run")
	l.Info("batch start", slog.Int("jobs", len(f.Jobs)), slog.String("out", r.OutDir))

	results := make([]Result, len(f.Jobs))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)
	for i := range f.Jobs {
		i := i
		job := f.Jobs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := job.ResolvedName(i)
			jctx := applog.WithJob(gctx, name)
			res, err := r.one(jctx, cache, f.Defaults, job, name)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			if err != nil {
				return fmt.Errorf("job %s: %w", name, err)
			}
			if res.Skipped() {
				l.WarnContext(jctx, "job skipped", slog.Any("err", res.Err))
			} else {
				l.DebugContext(jctx, "job done", slog.String("kind", res.Kind.String()), slog.Int("files", len(res.Files)))
			}
			return nil
		})
	}
	err := g.Wait()
	rep := Report{Results: results}
	l.Info("batch done", slog.Int("written", rep.Written()), slog.Int("skipped", rep.Skipped()))
	return rep, err
}

// resolved are the effective settings of one job.
type resolved struct {
	corners vector.Corner
	border  vector.Border
	fill    vector.Color
	margin  float64
	formats []export.Format
	opts    []squircle.Option
}

func (r *Runner) resolve(defaults Settings, job Job) (resolved, error) {
	var out resolved
	var err error

	corners := pick(job.Corners, defaults.Corners)
	if out.corners, err = vector.ParseCorners(corners); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out.fill = r.Render.Fill
	if s := pick(job.Fill, defaults.Fill); s != "" {
		if out.fill, err = vector.ParseHexColor(s); err != nil {
			return out, fmt.Errorf("%w: fill: %v", ErrInvalid, err)
		}
	}

	out.border.Color = r.Render.BorderColor
	if b := pickPtr(job.Border, defaults.Border); b != nil {
		out.border.Width = b.Width
		if b.Color != "" {
			if out.border.Color, err = vector.ParseHexColor(b.Color); err != nil {
				return out, fmt.Errorf("%w: border color: %v", ErrInvalid, err)
			}
		}
	}

	out.margin = r.Render.Margin
	if m := pickPtr(job.Margin, defaults.Margin); m != nil {
		out.margin = *m
	}

	formats := job.Formats
	if len(formats) == 0 {
		formats = defaults.Formats
	}
	if len(formats) == 0 {
		formats = []string{string(export.FormatSVG)}
	}
	for _, s := range formats {
		fm, err := export.ParseFormat(s)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		out.formats = append(out.formats, fm)
	}

	out.opts = append(out.opts, r.Options...)
	if fr := pickPtr(job.FallbackRadius, defaults.FallbackRadius); fr != nil {
		out.opts = append(out.opts, squircle.WithFallbackRadius(*fr))
	}
	if c := pickPtr(job.ClampToHeight, defaults.ClampToHeight); c != nil {
		out.opts = append(out.opts, squircle.WithClamp(*c))
	}
	if gf := pickPtr(job.GlitchFix, defaults.GlitchFix); gf != nil {
		out.opts = append(out.opts, squircle.WithGlitch(*gf))
	}
	return out, nil
}

func (r *Runner) one(ctx context.Context, cache *pathcache.Cache, defaults Settings, job Job, name string) (Result, error) {
	res := Result{Name: name}
	s, err := r.resolve(defaults, job)
	if err != nil {
		return res, err
	}
	bounds := vector.R(job.X, job.Y, job.Width, job.Height)

	outline, err := cache.Outline(ctx, bounds, job.Radius, s.corners, s.border.Width, s.opts...)
	if errors.Is(err, squircle.ErrNonFinitePoint) {
		res.Err = err
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Kind = outline.Kind

	doc := export.Document{
		Title:     name,
		Margin:    s.margin,
		Outline:   outline,
		Fill:      s.fill,
		Stroke:    s.border,
		DPI:       r.Render.DPI,
		Precision: r.Render.Precision,
	}
	if s.border.Enabled() {
		b, err := cache.BorderOutline(ctx, bounds, job.Radius, s.corners, s.border.Width, s.opts...)
		if errors.Is(err, squircle.ErrNonFinitePoint) {
			res.Err = err
			return res, nil
		}
		if err != nil {
			return res, err
		}
		doc.Border = &b
	}

	for _, fm := range s.formats {
		path := filepath.Join(r.OutDir, name+fm.Ext())
		if err := export.WriteFile(path, fm, doc); err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}
	return res, nil
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pickPtr[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}
