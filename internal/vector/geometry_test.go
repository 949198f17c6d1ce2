/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	out := r.Inset(-1, -2)
	if out.X != 9 || out.Y != 18 || out.W != 102 || out.H != 54 {
		t.Fatalf("unexpected outset: %+v", out)
	}
}

func TestRectEdges(t *testing.T) {
	r := R(-5, 3, 20, 10)
	if r.MinX() != -5 || r.MaxX() != 15 || r.MinY() != 3 || r.MaxY() != 13 {
		t.Fatalf("unexpected edges: %v %v %v %v", r.MinX(), r.MaxX(), r.MinY(), r.MaxY())
	}
	if r.ShortSide() != 10 {
		t.Fatalf("short side: %v", r.ShortSide())
	}
	c := r.Corners()
	if c[0] != P(-5, 3) || c[1] != P(15, 3) || c[2] != P(15, 13) || c[3] != P(-5, 13) {
		t.Fatalf("unexpected corners: %+v", c)
	}
}

func TestRectUnion(t *testing.T) {
	u := R(0, 0, 10, 10).Union(R(5, -5, 10, 10))
	if u != R(0, -5, 15, 15) {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestFinite(t *testing.T) {
	if !P(1, 2).IsFinite() {
		t.Fatalf("finite point reported non-finite")
	}
	if P(math.NaN(), 0).IsFinite() || P(0, math.Inf(-1)).IsFinite() {
		t.Fatalf("non-finite point reported finite")
	}
	if R(0, 0, math.Inf(1), 1).IsFinite() {
		t.Fatalf("infinite rect reported finite")
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(1.23456, 2); got != 1.23 {
		t.Fatalf("round: %v", got)
	}
	if got := FloatRound(-0.005, 2); got != -0.01 {
		t.Fatalf("round half away: %v", got)
	}
	if got := FloatRound(1.5, -1); got != 1.5 {
		t.Fatalf("negative places should be a no-op: %v", got)
	}
}
