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

// Geometry holds the tunable constants of the corner calculator.
type Geometry struct {
	// Smoothing feeds the control point inset 100 - (97 + 3/100*Smoothing).
	Smoothing float64
	// RadiusPad is added to the requested (or fallback) radius.
	RadiusPad float64
	// RadiusScale stretches the padded radius along each side.
	RadiusScale float64
	// GlitchEpsilon pushes the lower left connection point outward when the
	// glitch fix is on. Found empirically against a seam that shows up while
	// a size animation runs; not derived from the curve geometry.
	GlitchEpsilon float64
}

// DefaultGeometry returns the shipped constants.
func DefaultGeometry() Geometry {
	return Geometry{Smoothing: 100, RadiusPad: 4, RadiusScale: 2.5, GlitchEpsilon: 0.01}
}

// ControlInset is the distance of each control point from its rectangle corner.
// Zero at the default smoothing of 100.
func ControlInset(smoothing float64) float64 {
	return 100 - (97 + (3.0/100.0)*smoothing)
}

// ControlPoints returns one control point per corner, clockwise from top-right:
// top-right, bottom-right, bottom-left, top-left.
func ControlPoints(rect vector.Rect, g Geometry) [4]vector.Pt {
	s := ControlInset(g.Smoothing)
	return [4]vector.Pt{
		{X: rect.MaxX() - s, Y: rect.MinY() + s},
		{X: rect.MaxX() - s, Y: rect.MaxY() - s},
		{X: rect.MinX() + s, Y: rect.MaxY() - s},
		{X: rect.MinX() + s, Y: rect.MinY() + s},
	}
}

// EffectiveRadius returns the distance of the connection points from each corner.
// A zero radius falls back to fallbackRadius; either way the pad is added and the
// result scaled. With clampToShortSide the result never exceeds half the shorter side.
func EffectiveRadius(rect vector.Rect, radius, fallbackRadius float64, clampToShortSide bool, g Geometry) float64 {
	base := fallbackRadius + g.RadiusPad
	if radius != 0 {
		base = radius + g.RadiusPad
	}
	r := g.RadiusScale * base
	if clampToShortSide {
		r = math.Min(rect.ShortSide()/2, r)
	}
	return r
}

// ConnectionPoints returns the eight points where straight edges meet corner
// treatments, two per side, clockwise from the left end of the top edge.
func ConnectionPoints(rect vector.Rect, radius, fallbackRadius float64, clampToShortSide, glitchFix bool, g Geometry) [8]vector.Pt {
	r := EffectiveRadius(rect, radius, fallbackRadius, clampToShortSide, g)
	minX, minY, maxX, maxY := rect.MinX(), rect.MinY(), rect.MaxX(), rect.MaxY()

	nudge := 0.0
	if glitchFix {
		nudge = g.GlitchEpsilon
	}
	return [8]vector.Pt{
		// top
		{X: minX + r, Y: minY},
		{X: maxX - r, Y: minY},
		// right
		{X: maxX, Y: minY + r},
		{X: maxX, Y: maxY - r},
		// bottom
		{X: maxX - r, Y: maxY},
		{X: minX + r, Y: maxY},
		// left
		{X: minX - nudge, Y: maxY - r},
		{X: minX, Y: minY + r},
	}
}

// checkFinite fails on the first non-finite control or connection point.
func checkFinite(controls [4]vector.Pt, connections [8]vector.Pt) error {
	for i, p := range controls {
		if !p.IsFinite() {
			return &NonFinitePointError{Set: "control", Index: i, Point: p}
		}
	}
	for i, p := range connections {
		if !p.IsFinite() {
			return &NonFinitePointError{Set: "connection", Index: i, Point: p}
		}
	}
	return nil
}
