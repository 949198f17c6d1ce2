/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package squircle

import "gosquircle/internal/vector"

// BorderOutline builds the stroke outline of bounds inset by half of
// borderWidth. Only edges adjacent to requested corners are drawn, so the stroke
// never connects across a sharp corner; open ends run past the rectangle by
// the inset to meet the neighbouring view's border.
//
// Cases, first match wins: all corners (closed loop), both top corners, both
// bottom corners, anything else (the two vertical sides). The glitch fix
// option is ignored.
func BorderOutline(bounds vector.Rect, radius float64, corners vector.Corner, borderWidth float64, opts ...Option) (Shape, error) {
	o := Resolve(opts...)
	inset := vector.Border{Width: borderWidth}.Inset()
	rect := bounds.Inset(inset, inset)

	if s, ok, err := primitive(bounds, rect, radius, corners); ok {
		return s, err
	}

	cps := ControlPoints(rect, o.Geometry)
	pts := ConnectionPoints(rect, radius, o.FallbackRadius, o.ClampToShortSide, false, o.Geometry)
	if err := checkFinite(cps, pts); err != nil {
		return Shape{}, err
	}

	minX, minY, maxX, maxY := rect.MinX(), rect.MinY(), rect.MaxX(), rect.MaxY()
	var p vector.Path
	switch {
	case corners.Has(vector.AllCorners):
		p = loop(rect, vector.AllCorners, cps, pts)
	case corners.Has(vector.TopCorners):
		p.MoveTo(pts[0])
		p.LineTo(pts[1])
		p.CubicTo(cps[0], cps[0], pts[2])
		p.LineTo(vector.P(maxX, maxY+inset))

		p.MoveTo(vector.P(minX, maxY+inset))
		p.LineTo(pts[7])
		p.CubicTo(cps[3], cps[3], pts[0])
	case corners.Has(vector.BottomCorners):
		p.MoveTo(vector.P(maxX, minY-inset))
		p.LineTo(pts[3])
		p.CubicTo(cps[1], cps[1], pts[4])
		p.LineTo(pts[5])
		p.CubicTo(cps[2], cps[2], pts[6])
		p.LineTo(vector.P(minX, minY-inset))
	default:
		p.MoveTo(vector.P(maxX, minY-inset))
		p.LineTo(vector.P(maxX, maxY+inset))

		p.MoveTo(vector.P(minX, maxY+inset))
		p.LineTo(vector.P(minX, minY-inset))
	}
	return Shape{Kind: KindSquircle, Rect: rect, Radius: radius, Path: p}, nil
}
