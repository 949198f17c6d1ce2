/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package squircle

import (
	"math"

	"gosquircle/internal/vector"
)

// Outline builds the closed fill/mask outline of bounds inset by borderWidth.
// Corners outside the set keep their sharp rectangle corner. With all four
// corners requested, a square exactly twice the radius becomes an ellipse and
// an oversized radius becomes a plain rounded rectangle.
func Outline(bounds vector.Rect, radius float64, corners vector.Corner, borderWidth float64, opts ...Option) (Shape, error) {
	o := Resolve(opts...)
	rect := bounds.Inset(borderWidth, borderWidth)

	if s, ok, err := primitive(bounds, rect, radius, corners); ok {
		return s, err
	}

	cps := ControlPoints(rect, o.Geometry)
	pts := ConnectionPoints(rect, radius, o.FallbackRadius, o.ClampToShortSide, o.GlitchFix, o.Geometry)
	if err := checkFinite(cps, pts); err != nil {
		return Shape{}, err
	}
	return Shape{Kind: KindSquircle, Rect: rect, Radius: radius, Path: loop(rect, corners, cps, pts)}, nil
}

// primitive applies the degenerate shortcuts. The comparisons use exact float
// equality on the un-inset bounds; a square that is only nearly twice the radius
// falls through to the squircle path.
func primitive(bounds, rect vector.Rect, radius float64, corners vector.Corner) (Shape, bool, error) {
	if !corners.Has(vector.AllCorners) {
		return Shape{}, false, nil
	}
	short := math.Min(bounds.W, bounds.H)
	var s Shape
	switch {
	case bounds.W == bounds.H && bounds.H == 2*radius:
		s = Shape{Kind: KindEllipse, Rect: rect}
	case radius > short/2:
		s = Shape{Kind: KindRoundedRect, Rect: rect, Radius: short / 2}
	default:
		return Shape{}, false, nil
	}
	if !rect.IsFinite() || !isFinite(s.Radius) {
		return Shape{}, true, &NonFinitePointError{Set: "bounds", Point: rect.Min()}
	}
	return s, true, nil
}

// loop emits the closed eight point loop: straight edge, corner, straight edge,
// corner, clockwise from p0. An unrequested corner is two lines through the
// literal rectangle corner.
func loop(rect vector.Rect, corners vector.Corner, cps [4]vector.Pt, pts [8]vector.Pt) vector.Path {
	var p vector.Path
	p.MoveTo(pts[0])
	p.LineTo(pts[1])
	corner(&p, corners.Has(vector.TopRight), cps[0], vector.P(rect.MaxX(), rect.MinY()), pts[2])
	p.LineTo(pts[3])
	corner(&p, corners.Has(vector.BottomRight), cps[1], vector.P(rect.MaxX(), rect.MaxY()), pts[4])
	p.LineTo(pts[5])
	corner(&p, corners.Has(vector.BottomLeft), cps[2], vector.P(rect.MinX(), rect.MaxY()), pts[6])
	p.LineTo(pts[7])
	corner(&p, corners.Has(vector.TopLeft), cps[3], vector.P(rect.MinX(), rect.MinY()), pts[0])
	p.Close()
	return p
}

// corner either curves to end with cp as both controls or runs two lines via the sharp corner.
func corner(p *vector.Path, rounded bool, cp, sharp, end vector.Pt) {
	if rounded {
		p.CubicTo(cp, cp, end)
		return
	}
	p.LineTo(sharp)
	p.LineTo(end)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
