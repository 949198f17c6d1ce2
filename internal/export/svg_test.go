/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

func testDocument(t *testing.T, corners vector.Corner) Document {
	t.Helper()
	bounds := vector.R(0, 0, 200, 100)
	outline, err := squircle.Outline(bounds, 12, corners, 2)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	border, err := squircle.BorderOutline(bounds, 12, corners, 2)
	if err != nil {
		t.Fatalf("border: %v", err)
	}
	return Document{
		Title:   "card <1>",
		Margin:  4,
		Outline: outline,
		Fill:    vector.Color{R: 0x33, G: 0x66, B: 0x99, A: 255},
		Border:  &border,
		Stroke:  vector.Border{Width: 2, Color: vector.Color{A: 128}},
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testDocument(t, vector.AllCorners)); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<?xml version=\"1.0\"",
		"viewBox=\"-3 -3 206 106\"",
		"<title>card &lt;1&gt;</title>",
		"fill=\"#336699\"",
		"stroke=\"#000000\" stroke-opacity=\"0.502\" stroke-width=\"2\"",
		"<path d=\"M",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "<path") != 2 {
		t.Fatalf("expected fill and stroke paths:\n%s", out)
	}
}

func TestWriteSVG_Primitives(t *testing.T) {
	ellipse, err := squircle.Outline(vector.R(0, 0, 40, 40), 20, vector.AllCorners, 0)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Document{Outline: ellipse, Fill: vector.Black, DPI: 144}); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<ellipse cx=\"20\" cy=\"20\" rx=\"20\" ry=\"20\"") {
		t.Fatalf("expected ellipse primitive:\n%s", out)
	}
	if !strings.Contains(out, "width=\"80px\" height=\"80px\"") {
		t.Fatalf("expected DPI scaled size:\n%s", out)
	}

	rr, err := squircle.Outline(vector.R(0, 0, 100, 40), 30, vector.AllCorners, 0)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	buf.Reset()
	if err := WriteSVG(&buf, Document{Outline: rr, Fill: vector.White}); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	if !strings.Contains(buf.String(), "rx=\"20\" ry=\"20\"") {
		t.Fatalf("expected rounded rect primitive:\n%s", buf.String())
	}
}

func TestWriteSVG_OverInsetBorderClamps(t *testing.T) {
	bounds := vector.R(0, 0, 100, 40)
	outline, err := squircle.Outline(bounds, 30, vector.AllCorners, 50)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	border, err := squircle.BorderOutline(bounds, 30, vector.AllCorners, 50)
	if err != nil {
		t.Fatalf("border: %v", err)
	}
	if border.Rect.H >= 0 {
		t.Fatalf("expected the inset rect to be inverted, got %+v", border.Rect)
	}
	var buf bytes.Buffer
	d := Document{Outline: outline, Border: &border, Fill: vector.White, Stroke: vector.Border{Width: 50, Color: vector.Black}}
	if err := WriteSVG(&buf, d); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "width=\"50\" height=\"0\" rx=\"20\" ry=\"20\"") {
		t.Fatalf("expected clamped border rect:\n%s", out)
	}
	if strings.Contains(out, "=\"-") {
		t.Fatalf("negative SVG attribute:\n%s", out)
	}
}

func TestWritePathText(t *testing.T) {
	var buf bytes.Buffer
	d := testDocument(t, vector.TopCorners)
	d.Precision = 2
	if err := WritePathText(&buf, d); err != nil {
		t.Fatalf("write path text: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "outline: M") || !strings.HasPrefix(lines[1], "border: M") {
		t.Fatalf("unexpected path text: %q", buf.String())
	}
	if strings.Count(lines[1], "M") != 2 {
		t.Fatalf("top pair border should have two subpaths: %s", lines[1])
	}
}

func TestWritePathTextScale(t *testing.T) {
	outline, err := squircle.Outline(vector.R(0, 0, 100, 100), 10, vector.AllCorners, 0)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	var buf bytes.Buffer
	if err := WritePathText(&buf, Document{Outline: outline, Precision: 3, Scale: 2}); err != nil {
		t.Fatalf("write path text: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "outline: M70 0 L130 0 ") {
		t.Fatalf("path not scaled: %q", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	d := testDocument(t, vector.AllCorners)
	for _, f := range []Format{FormatSVG, FormatPDF, FormatPath} {
		path := filepath.Join(dir, "nested", "card"+f.Ext())
		if err := WriteFile(path, f, d); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		st, err := os.Stat(path)
		if err != nil || st.Size() == 0 {
			t.Fatalf("%s: missing or empty output: %v", f, err)
		}
	}
	if err := WriteFile(filepath.Join(dir, "x.png"), Format("png"), d); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("pdf"); err != nil || f != FormatPDF {
		t.Fatalf("parse pdf: %v %v", f, err)
	}
	if _, err := ParseFormat("png"); err == nil {
		t.Fatalf("expected error for png")
	}
}
