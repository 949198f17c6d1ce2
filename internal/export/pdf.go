/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gosquircle/internal/vector"
)

// WritePDF writes d as a single page PDF whose page is the canvas, in points.
// Page origin is top-left, matching the model coordinates.
func WritePDF(w io.Writer, d Document) error {
	cv := d.canvas()
	if cv.W <= 0 || cv.H <= 0 {
		return fmt.Errorf("empty canvas %gx%g", cv.W, cv.H)
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: cv.W, Ht: cv.H},
	})
	if d.Title != "" {
		pdf.SetTitle(d.Title, true)
	}
	pdf.SetCreator("gosquircle", false)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: cv.W, Ht: cv.H})

	if d.Background != nil {
		setFillColor(pdf, *d.Background)
		pdf.Rect(0, 0, cv.W, cv.H, "F")
		setAlpha(pdf, vector.White)
	}

	// Model coordinates are shifted so the canvas origin lands on the page origin.
	origin := vector.P(cv.X, cv.Y)

	setFillColor(pdf, d.Fill)
	drawPath(pdf, d.Outline.Flatten(), origin)
	pdf.DrawPath("F")
	setAlpha(pdf, vector.White)

	if d.strokeBorder() {
		setDrawColor(pdf, d.Stroke.Color)
		pdf.SetLineWidth(d.Stroke.Width)
		pdf.SetLineJoinStyle("round")
		pdf.SetLineCapStyle("butt")
		drawPath(pdf, d.Border.Flatten(), origin)
		pdf.DrawPath("D")
		setAlpha(pdf, vector.White)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPath(pdf *gofpdf.Fpdf, p vector.Path, origin vector.Pt) {
	at := func(q vector.Pt) (float64, float64) { return q.X - origin.X, q.Y - origin.Y }
	for _, c := range p.Cmds {
		switch c.Op {
		case vector.MoveTo:
			pdf.MoveTo(at(c.Pts[0]))
		case vector.LineTo:
			pdf.LineTo(at(c.Pts[0]))
		case vector.QuadTo:
			cx, cy := at(c.Pts[0])
			x, y := at(c.Pts[1])
			pdf.CurveTo(cx, cy, x, y)
		case vector.CubicTo:
			c1x, c1y := at(c.Pts[0])
			c2x, c2y := at(c.Pts[1])
			x, y := at(c.Pts[2])
			pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
		case vector.Close:
			pdf.ClosePath()
		}
	}
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	setAlpha(pdf, c)
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	setAlpha(pdf, c)
}

// setAlpha applies c's alpha to both fill and stroke; opaque colors reset it.
func setAlpha(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}
