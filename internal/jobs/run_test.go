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
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "gosquircle/internal/log"
	"gosquircle/internal/pathcache"
	"gosquircle/internal/squircle"
)

func TestRunWritesFormats(t *testing.T) {
	applog.Discard()
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	out := t.TempDir()
	rep, err := Run(context.Background(), f, out, pathcache.New(nil, nil))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(rep.Results) != 3 || rep.Skipped() != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Written() != 6 {
		t.Fatalf("expected 6 files, got %d", rep.Written())
	}
	for _, name := range []string{"card.svg", "card.txt", "pill.svg", "pill.txt", "job-2.svg", "job-2.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	b, err := os.ReadFile(filepath.Join(out, "card.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "outline: M") || !strings.Contains(string(b), "border: M") {
		t.Fatalf("path text missing outline or border: %s", b)
	}
	svg, err := os.ReadFile(filepath.Join(out, "card.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "#336699") {
		t.Fatalf("border color not applied: %s", svg)
	}
	if rep.Results[0].Kind != squircle.KindSquircle {
		t.Fatalf("card kind = %v", rep.Results[0].Kind)
	}
}

func TestRunSkipsNonFiniteGeometry(t *testing.T) {
	applog.Discard()
	doc := "version: 1\njobs:\n  - {name: bad, width: .nan, height: 10}\n  - {name: good, width: 30, height: 10, formats: [path]}\n"
	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	out := t.TempDir()
	r := Runner{Cache: pathcache.New(nil, nil), OutDir: out, Render: DefaultRender(), Workers: 2}
	rep, err := r.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rep.Skipped() != 1 || !rep.Results[0].Skipped() {
		t.Fatalf("expected first job skipped: %+v", rep)
	}
	if !errors.Is(rep.Results[0].Err, squircle.ErrNonFinitePoint) {
		t.Fatalf("expected ErrNonFinitePoint, got %v", rep.Results[0].Err)
	}
	if _, err := os.Stat(filepath.Join(out, "bad.svg")); !os.IsNotExist(err) {
		t.Fatalf("skipped job must not write files")
	}
	if _, err := os.Stat(filepath.Join(out, "good.txt")); err != nil {
		t.Fatalf("good job not written: %v", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	applog.Discard()
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, f, t.TempDir(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsBadCorners(t *testing.T) {
	applog.Discard()
	f, err := Parse([]byte(`{"version":1,"jobs":[{"name":"x","width":10,"height":10,"corners":"middle"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), f, t.TempDir(), nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRunUsesCache(t *testing.T) {
	applog.Discard()
	f, err := Parse([]byte(`{"version":1,"jobs":[{"name":"a","width":80,"height":40,"formats":["path"]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	c := pathcache.New(nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), f, t.TempDir(), c); err != nil {
			t.Fatal(err)
		}
	}
	if st := c.Memo().Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("unexpected cache stats: %+v", st)
	}
}

func TestRunJobGlitchFixOverridesRunner(t *testing.T) {
	applog.Discard()
	doc := `{"version":1,"defaults":{"formats":["path"]},"jobs":[
		{"name":"inherit","width":200,"height":100,"radius":10},
		{"name":"off","width":200,"height":100,"radius":10,"glitch_fix":false}]}`
	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	r := Runner{OutDir: out, Render: DefaultRender(), Options: []squircle.Option{squircle.WithGlitch(true)}}
	if _, err := r.Run(context.Background(), f); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	inherit, err := os.ReadFile(filepath.Join(out, "inherit.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(inherit), "-0.01 65") {
		t.Fatalf("runner glitch fix not applied: %s", inherit)
	}
	off, err := os.ReadFile(filepath.Join(out, "off.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(off), "-0.01") {
		t.Fatalf("job glitch_fix false did not clear the runner option: %s", off)
	}
}
