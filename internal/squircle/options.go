/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package squircle

// Options collects the knobs shared by Outline and BorderOutline.
type Options struct {
	// FallbackRadius is used when the requested radius is zero.
	FallbackRadius float64
	// ClampToShortSide limits the connection distance to half the shorter side.
	ClampToShortSide bool
	// GlitchFix nudges the lower left connection point outward. Outline only.
	GlitchFix bool
	Geometry  Geometry
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions: no fallback radius, clamped to the short side, no glitch fix.
func DefaultOptions() Options {
	return Options{ClampToShortSide: true, Geometry: DefaultGeometry()}
}

func WithFallbackRadius(r float64) Option {
	return func(o *Options) { o.FallbackRadius = r }
}

// WithClamp sets whether the connection distance is limited to half the shorter side.
func WithClamp(on bool) Option {
	return func(o *Options) { o.ClampToShortSide = on }
}

// WithGlitch sets the glitch fix. A later option overrides an earlier one, so
// a per-request false clears a configured true.
func WithGlitch(on bool) Option {
	return func(o *Options) { o.GlitchFix = on }
}

func WithGeometry(g Geometry) Option {
	return func(o *Options) { o.Geometry = g }
}

// Resolve applies opts over DefaultOptions.
func Resolve(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
