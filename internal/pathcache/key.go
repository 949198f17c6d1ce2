/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package pathcache

import (
	"math"
	"strconv"
	"strings"

	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// Variant selects which of the two outlines a key addresses.
type Variant uint8

const (
	VariantOutline Variant = iota
	VariantBorder
)

func (v Variant) String() string {
	if v == VariantBorder {
		return "border"
	}
	return "outline"
}

// Key fingerprints everything an outline depends on. Keys are comparable and
// used directly as map keys; equal inputs give equal keys.
type Key struct {
	Variant     Variant
	MinX, MinY  float64
	H, W        float64
	Fallback    float64
	Radius      float64
	Corners     vector.Corner
	BorderWidth float64
	Clamp       bool
	GlitchFix   bool
	Geometry    squircle.Geometry
}

// NewKey builds the fingerprint for one outline request with resolved options.
func NewKey(v Variant, bounds vector.Rect, radius float64, corners vector.Corner, borderWidth float64, o squircle.Options) Key {
	k := Key{
		Variant:     v,
		MinX:        bounds.MinX(),
		MinY:        bounds.MinY(),
		H:           bounds.H,
		W:           bounds.W,
		Fallback:    o.FallbackRadius,
		Radius:      radius,
		Corners:     corners & vector.AllCorners,
		BorderWidth: borderWidth,
		Clamp:       o.ClampToShortSide,
		GlitchFix:   o.GlitchFix,
		Geometry:    o.Geometry,
	}
	if v == VariantBorder {
		// the border ignores the glitch fix
		k.GlitchFix = false
	}
	return k
}

// Cacheable reports whether k can be used as a map key. A NaN field makes the
// key unequal to itself, so such requests bypass both tiers.
func (k Key) Cacheable() bool {
	for _, v := range []float64{
		k.MinX, k.MinY, k.H, k.W, k.Fallback, k.Radius, k.BorderWidth,
		k.Geometry.Smoothing, k.Geometry.RadiusPad, k.Geometry.RadiusScale, k.Geometry.GlitchEpsilon,
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// String renders the key as a stable text fingerprint, used as the primary key
// of the persistent store.
func (k Key) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	b := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	parts := []string{
		k.Variant.String(),
		f(k.MinX), f(k.MinY), f(k.H), f(k.W),
		f(k.Fallback), f(k.Radius),
		k.Corners.Key(),
		f(k.BorderWidth),
		"c" + b(k.Clamp) + "g" + b(k.GlitchFix),
		f(k.Geometry.Smoothing), f(k.Geometry.RadiusPad), f(k.Geometry.RadiusScale), f(k.Geometry.GlitchEpsilon),
	}
	return strings.Join(parts, "|")
}
