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
	"fmt"
	"io"
	"math"

	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// WriteSVG writes d as a standalone SVG 1.1 document. Ellipse and rounded
// rectangle shapes are written as their SVG primitives; squircles as paths.
func WriteSVG(w io.Writer, d Document) error {
	cv := d.canvas()
	dpi := d.DPI
	if dpi <= 0 {
		dpi = 72
	}
	scale := float64(dpi) / 72.0
	pxW := int(math.Round(cv.W * scale))
	pxH := int(math.Round(cv.H * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%g %g %g %g\">\n", pxW, pxH, cv.X, cv.Y, cv.W, cv.H)
	if d.Title != "" {
		wf("  <title>%s</title>\n", escText(d.Title))
	}
	if d.Background != nil {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"%s/>\n", cv.X, cv.Y, cv.W, cv.H, svgColor(*d.Background), svgOpacity("fill", *d.Background))
	}

	fill := fmt.Sprintf(" fill=\"%s\"%s", svgColor(d.Fill), svgOpacity("fill", d.Fill))
	wf("  %s\n", svgShape(d.Outline, fill, d.Precision))

	if d.strokeBorder() {
		stroke := fmt.Sprintf(" fill=\"none\" stroke=\"%s\"%s stroke-width=\"%g\" stroke-linejoin=\"round\"", svgColor(d.Stroke.Color), svgOpacity("stroke", d.Stroke.Color), d.Stroke.Width)
		wf("  %s\n", svgShape(*d.Border, stroke, d.Precision))
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// svgShape renders s as an SVG element. A border rect inset past its own
// center has negative extents, which SVG rejects; those collapse to zero.
func svgShape(s squircle.Shape, attrs string, places int) string {
	r := s.Rect
	w, h := math.Max(r.W, 0), math.Max(r.H, 0)
	switch s.Kind {
	case squircle.KindEllipse:
		return fmt.Sprintf("<ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\"%s/>", r.X+r.W/2, r.Y+r.H/2, w/2, h/2, attrs)
	case squircle.KindRoundedRect:
		rad := math.Max(s.Radius, 0)
		return fmt.Sprintf("<rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\"%s/>", r.X, r.Y, w, h, rad, rad, attrs)
	}
	return fmt.Sprintf("<path d=\"%s\"%s/>", PathDataRounded(s.Path, places), attrs)
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgOpacity(attr string, c vector.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(" %s-opacity=\"%g\"", attr, vector.FloatRound(float64(c.A)/255, 3))
}

// WritePathText writes the flattened outline and border path data, one per line,
// prefixed with "outline:" and "border:".
func WritePathText(w io.Writer, d Document) error {
	if _, err := fmt.Fprintf(w, "outline: %s\n", PathDataRounded(d.scaled(d.Outline.Flatten()), d.Precision)); err != nil {
		return err
	}
	if d.Border != nil {
		if _, err := fmt.Fprintf(w, "border: %s\n", PathDataRounded(d.scaled(d.Border.Flatten()), d.Precision)); err != nil {
			return err
		}
	}
	return nil
}

func (d Document) scaled(p vector.Path) vector.Path {
	if d.Scale == 0 || d.Scale == 1 {
		return p
	}
	return p.Scale(d.Scale, d.Scale)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
