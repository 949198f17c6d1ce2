/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package squircle

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosquircle/internal/vector"
)

func TestOutline_AllCornersClosedLoop(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 200, 100), 10, vector.AllCorners, 0)
	require.NoError(t, err)
	require.Equal(t, KindSquircle, s.Kind)

	p := s.Path
	assert.Equal(t, 8, p.Segments())
	assert.Equal(t, 4, p.Count(vector.CubicTo))
	assert.Equal(t, 4, p.Count(vector.LineTo))
	assert.Len(t, p.Subpaths(), 1)
	assert.True(t, s.Closed())

	start, _ := p.Start()
	assert.Equal(t, vector.P(35, 0), start)
	// last curve lands back on the start
	assert.Equal(t, start, p.Cmds[len(p.Cmds)-2].End())
}

func TestOutline_CurvesUseSingleControlPoint(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 200, 100), 10, vector.AllCorners, 0)
	require.NoError(t, err)
	for _, c := range s.Path.Cmds {
		if c.Op == vector.CubicTo {
			assert.Equal(t, c.Pts[0], c.Pts[1])
		}
	}
}

func TestOutline_UnclampedFirstPoint(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 100, 100), 10, vector.AllCorners, 0, WithClamp(false))
	require.NoError(t, err)
	start, ok := s.Path.Start()
	require.True(t, ok)
	assert.Equal(t, vector.P(35, 0), start)
}

func TestOutline_BorderWidthInsetsRect(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 200, 100), 10, vector.AllCorners, 4)
	require.NoError(t, err)
	assert.Equal(t, vector.R(4, 4, 192, 92), s.Rect)
	b := s.Path.Bounds()
	assert.Equal(t, 4.0, b.MinX())
	assert.Equal(t, 196.0, b.MaxX())
}

func TestOutline_EllipseShortcut(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 100, 100), 50, vector.AllCorners, 2)
	require.NoError(t, err)
	assert.Equal(t, KindEllipse, s.Kind)
	assert.Equal(t, vector.R(2, 2, 96, 96), s.Rect)
	assert.Empty(t, s.Path.Cmds)
	assert.True(t, s.Closed())
	assert.Equal(t, 4, s.Flatten().Count(vector.CubicTo))
}

func TestOutline_RoundedRectShortcut(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 100, 60), 40, vector.AllCorners, 0)
	require.NoError(t, err)
	assert.Equal(t, KindRoundedRect, s.Kind)
	assert.Equal(t, 30.0, s.Radius)
	assert.Equal(t, vector.R(0, 0, 100, 60), s.Rect)
}

func TestOutline_ShortcutsNeedAllCorners(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 100, 100), 50, vector.TopCorners, 0)
	require.NoError(t, err)
	assert.Equal(t, KindSquircle, s.Kind)

	s, err = Outline(vector.R(0, 0, 100, 60), 40, vector.BottomCorners, 0)
	require.NoError(t, err)
	assert.Equal(t, KindSquircle, s.Kind)
}

func TestOutline_NearlyEllipseIsSquircle(t *testing.T) {
	s, err := Outline(vector.R(0, 0, 100, 100), 49.999, vector.AllCorners, 0)
	require.NoError(t, err)
	assert.Equal(t, KindSquircle, s.Kind)
}

func TestOutline_NoCornersIsRectangle(t *testing.T) {
	r := vector.R(0, 0, 100, 100)
	s, err := Outline(r, 10, vector.NoCorners, 0)
	require.NoError(t, err)
	assert.Zero(t, s.Path.Count(vector.CubicTo))
	for _, c := range r.Corners() {
		assert.True(t, s.Path.Contains(c), "missing corner %v", c)
	}
	assert.Equal(t, 12, s.Path.Segments())
	assert.True(t, s.Closed())
}

func TestOutline_MixedCorners(t *testing.T) {
	r := vector.R(0, 0, 200, 100)
	s, err := Outline(r, 10, vector.TopLeft|vector.BottomRight, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Path.Count(vector.CubicTo))
	assert.True(t, s.Path.Contains(vector.P(200, 0)))
	assert.True(t, s.Path.Contains(vector.P(0, 100)))
	assert.Equal(t, 8, s.Path.Count(vector.LineTo))
}

func TestOutline_GlitchFix(t *testing.T) {
	r := vector.R(0, 0, 200, 100)
	plain, err := Outline(r, 10, vector.AllCorners, 0)
	require.NoError(t, err)
	fixed, err := Outline(r, 10, vector.AllCorners, 0, WithGlitch(true))
	require.NoError(t, err)

	// move, line, curve, line, curve, line, curve -> p6
	assert.Equal(t, 0.0, plain.Path.Cmds[6].End().X)
	assert.InDelta(t, -0.01, fixed.Path.Cmds[6].End().X, 1e-12)
}

func TestOutline_CustomGeometry(t *testing.T) {
	g := DefaultGeometry()
	g.Smoothing = 0
	s, err := Outline(vector.R(0, 0, 200, 100), 10, vector.AllCorners, 0, WithGeometry(g))
	require.NoError(t, err)
	assert.Equal(t, vector.P(197, 3), s.Path.Cmds[2].Pts[0])
}

func TestOutline_NonFinite(t *testing.T) {
	cases := map[string]vector.Rect{
		"nan width":    vector.R(0, 0, math.NaN(), 100),
		"inf width":    vector.R(0, 0, math.Inf(1), 100),
		"nan origin":   vector.R(math.NaN(), 0, 100, 100),
		"neg inf size": vector.R(0, 0, 100, math.Inf(-1)),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Outline(r, 10, vector.AllCorners, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNonFinitePoint))
			assert.Empty(t, s.Path.Cmds)
		})
	}
}

func TestOutline_NonFiniteEllipse(t *testing.T) {
	_, err := Outline(vector.R(math.NaN(), 0, 100, 100), 50, vector.AllCorners, 0)
	require.ErrorIs(t, err, ErrNonFinitePoint)
	var nf *NonFinitePointError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "bounds", nf.Set)
}

func TestOutline_NonFiniteRadius(t *testing.T) {
	_, err := Outline(vector.R(0, 0, 100, 80), math.NaN(), vector.TopCorners, 0)
	assert.ErrorIs(t, err, ErrNonFinitePoint)
}

func TestOutline_Deterministic(t *testing.T) {
	a, err := Outline(vector.R(3, 7, 120, 80), 12, vector.AllCorners, 1)
	require.NoError(t, err)
	b, err := Outline(vector.R(3, 7, 120, 80), 12, vector.AllCorners, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
