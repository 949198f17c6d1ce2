/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// kappa places cubic handles so that a quarter arc approximates a circle: 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

// EllipsePath returns the ellipse inscribed in r as four cubic arcs, clockwise
// from the top center.
func EllipsePath(r Rect) Path {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	rx, ry := r.W/2, r.H/2
	ox, oy := rx*kappa, ry*kappa

	var p Path
	p.MoveTo(Pt{cx, cy - ry})
	p.CubicTo(Pt{cx + ox, cy - ry}, Pt{cx + rx, cy - oy}, Pt{cx + rx, cy})
	p.CubicTo(Pt{cx + rx, cy + oy}, Pt{cx + ox, cy + ry}, Pt{cx, cy + ry})
	p.CubicTo(Pt{cx - ox, cy + ry}, Pt{cx - rx, cy + oy}, Pt{cx - rx, cy})
	p.CubicTo(Pt{cx - rx, cy - oy}, Pt{cx - ox, cy - ry}, Pt{cx, cy - ry})
	p.Close()
	return p
}

// RoundedRectPath returns r with circular corners of the given radius, clockwise
// from the top-left straight edge. The radius is clamped to half the shorter side.
func RoundedRectPath(r Rect, radius float64) Path {
	radius = math.Max(0, math.Min(radius, r.ShortSide()/2))
	k := radius * kappa
	minX, minY, maxX, maxY := r.MinX(), r.MinY(), r.MaxX(), r.MaxY()

	var p Path
	p.MoveTo(Pt{minX + radius, minY})
	p.LineTo(Pt{maxX - radius, minY})
	p.CubicTo(Pt{maxX - radius + k, minY}, Pt{maxX, minY + radius - k}, Pt{maxX, minY + radius})
	p.LineTo(Pt{maxX, maxY - radius})
	p.CubicTo(Pt{maxX, maxY - radius + k}, Pt{maxX - radius + k, maxY}, Pt{maxX - radius, maxY})
	p.LineTo(Pt{minX + radius, maxY})
	p.CubicTo(Pt{minX + radius - k, maxY}, Pt{minX, maxY - radius + k}, Pt{minX, maxY - radius})
	p.LineTo(Pt{minX, minY + radius})
	p.CubicTo(Pt{minX, minY + radius - k}, Pt{minX + radius - k, minY}, Pt{minX + radius, minY})
	p.Close()
	return p
}
