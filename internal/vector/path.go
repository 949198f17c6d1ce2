/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Path commands and shapes.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (c, p)
	CubicTo // cubic bezier (c1, c2, p)
	Close
)

func (op PathOp) String() string {
	switch op {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// PathCmd is one path command. MoveTo and LineTo use Pts[0]; QuadTo uses
// Pts[0] as control and Pts[1] as end; CubicTo uses Pts[0], Pts[1] as
// controls and Pts[2] as end. Unused slots are zero.
type PathCmd struct {
	Op  PathOp
	Pts [3]Pt
}

// End returns the point the command leaves the pen at. Close has no own point.
func (c PathCmd) End() Pt {
	switch c.Op {
	case QuadTo:
		return c.Pts[1]
	case CubicTo:
		return c.Pts[2]
	}
	return c.Pts[0]
}

func (c PathCmd) points() []Pt {
	switch c.Op {
	case MoveTo, LineTo:
		return c.Pts[:1]
	case QuadTo:
		return c.Pts[:2]
	case CubicTo:
		return c.Pts[:3]
	}
	return nil
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Pts: [3]Pt{pt}})
}
func (p *Path) LineTo(pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Pts: [3]Pt{pt}})
}
func (p *Path) QuadTo(c, pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Pts: [3]Pt{c, pt}})
}
func (p *Path) CubicTo(c1, c2, pt Pt) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Pts: [3]Pt{c1, c2, pt}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Len returns the number of commands.
func (p Path) Len() int { return len(p.Cmds) }

// Segments counts drawing commands (lines and curves); moves and closes are not segments.
func (p Path) Segments() int {
	n := 0
	for _, c := range p.Cmds {
		switch c.Op {
		case LineTo, QuadTo, CubicTo:
			n++
		}
	}
	return n
}

// Count returns how many commands have the given op.
func (p Path) Count(op PathOp) int {
	n := 0
	for _, c := range p.Cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Subpaths splits the path at every MoveTo.
func (p Path) Subpaths() []Path {
	var out []Path
	for _, c := range p.Cmds {
		if c.Op == MoveTo || len(out) == 0 {
			out = append(out, Path{})
		}
		last := &out[len(out)-1]
		last.Cmds = append(last.Cmds, c)
	}
	return out
}

// Start returns the first MoveTo point of the path.
func (p Path) Start() (Pt, bool) {
	if len(p.Cmds) == 0 || p.Cmds[0].Op != MoveTo {
		return Pt{}, false
	}
	return p.Cmds[0].Pts[0], true
}

// Last returns the pen position after the final command. A trailing Close
// returns the pen to the start of its subpath.
func (p Path) Last() (Pt, bool) {
	if len(p.Cmds) == 0 {
		return Pt{}, false
	}
	var start, cur Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			start, cur = c.Pts[0], c.Pts[0]
		case Close:
			cur = start
		default:
			cur = c.End()
		}
	}
	return cur, true
}

// Points returns every coordinate referenced by the path, controls included.
func (p Path) Points() []Pt {
	out := make([]Pt, 0, len(p.Cmds)*2)
	for _, c := range p.Cmds {
		out = append(out, c.points()...)
	}
	return out
}

// Contains reports whether pt appears as an end or control point of any command.
func (p Path) Contains(pt Pt) bool {
	for _, q := range p.Points() {
		if q == pt {
			return true
		}
	}
	return false
}

// IsFinite reports whether all coordinates are finite.
func (p Path) IsFinite() bool {
	for _, q := range p.Points() {
		if !q.IsFinite() {
			return false
		}
	}
	return true
}

// Bounds returns an axis-aligned bounding box of the path using a simple
// approximation by considering control points. Curves never leave the hull
// of their control points, so the box is conservative.
func (p Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range p.Points() {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
