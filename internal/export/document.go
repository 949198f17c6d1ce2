/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
// Package export serializes squircle shapes: SVG path data (and a parser for
// it), standalone SVG documents and single page PDF documents.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// Document is one decorated view ready to serialize: a filled outline and an
// optional border stroke on a canvas.
type Document struct {
	Title string
	// Canvas is the visible area in model units (points). A zero canvas uses
	// the outline rect grown by Margin.
	Canvas vector.Rect
	Margin float64

	Outline squircle.Shape
	Fill    vector.Color

	// Border is drawn with Stroke when non-nil and Stroke has a width.
	Border *squircle.Shape
	Stroke vector.Border

	Background *vector.Color

	// DPI sets the pixel size attributes of SVG output; 0 means 72 (1px per point).
	DPI int
	// Precision is the number of decimals in SVG coordinates; negative keeps full precision.
	Precision int
	// Scale maps model units to device units in path text output, e.g. a
	// screen scale factor. 0 means 1.
	Scale float64
}

// Format names an output serializer.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatPath Format = "path"
)

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatPath {
		return ".txt"
	}
	return "." + string(f)
}

// ParseFormat accepts svg, pdf and path.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPDF, FormatPath:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// canvas resolves the drawing area.
func (d Document) canvas() vector.Rect {
	if d.Canvas.W > 0 && d.Canvas.H > 0 {
		return d.Canvas
	}
	r := d.Outline.Rect
	if d.Border != nil {
		r = r.Union(d.Border.Rect)
	}
	return r.Inset(-d.Margin, -d.Margin)
}

func (d Document) strokeBorder() bool {
	return d.Border != nil && d.Stroke.Enabled()
}

// WriteFile renders d in format f to path, creating parent directories.
func WriteFile(path string, f Format, d Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	switch f {
	case FormatSVG:
		err = WriteSVG(out, d)
	case FormatPDF:
		err = WritePDF(out, d)
	case FormatPath:
		err = WritePathText(out, d)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}
