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
	"strconv"
	"strings"

	gl "github.com/rustyoz/genericlexer"

	"gosquircle/internal/vector"
)

// PathData renders p in SVG path syntax with absolute commands, e.g.
// "M35 0 L65 0 C100 0 100 0 100 35 Z". Numbers keep full precision.
func PathData(p vector.Path) string { return PathDataRounded(p, -1) }

// PathDataRounded is PathData with coordinates rounded to places decimals.
// A negative places keeps full precision.
func PathDataRounded(p vector.Path, places int) string {
	var b strings.Builder
	num := func(v float64) {
		v = vector.FloatRound(v, places)
		if v == 0 {
			v = 0 // drop negative zero
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Op.String())
		var pts []vector.Pt
		switch c.Op {
		case vector.MoveTo, vector.LineTo:
			pts = c.Pts[:1]
		case vector.QuadTo:
			pts = c.Pts[:2]
		case vector.CubicTo:
			pts = c.Pts[:3]
		}
		for j, q := range pts {
			if j > 0 {
				b.WriteByte(' ')
			}
			num(q.X)
			b.WriteByte(' ')
			num(q.Y)
		}
	}
	return b.String()
}

// ParsePathData reads SVG path data back into commands. It understands
// M, L, H, V, C, Q and Z in absolute and relative form, implicit repeats,
// and treats extra pairs after a move as line segments. H and V become LineTo.
func ParsePathData(d string) (vector.Path, error) {
	l, _ := gl.Lex("path", d)
	pp := &pathDataParser{lex: l}
	for {
		i := pp.lex.NextItem()
		switch i.Type {
		case gl.ItemError:
			return vector.Path{}, fmt.Errorf("path data: %s", i.Value)
		case gl.ItemEOS:
			return pp.out, nil
		case gl.ItemLetter:
			// letters may arrive grouped, e.g. "ZM"; only the last one takes numbers
			for k, cmd := range i.Value {
				last := k == len(i.Value)-1
				if err := pp.command(cmd, last); err != nil {
					return vector.Path{}, err
				}
			}
		case gl.ItemNumber:
			return vector.Path{}, fmt.Errorf("path data: number %q without command", i.Value)
		}
	}
}

type pathDataParser struct {
	lex        *gl.Lexer
	out        vector.Path
	cur, start vector.Pt
	started    bool
}

func (pp *pathDataParser) command(cmd rune, last bool) error {
	rel := cmd >= 'a' && cmd <= 'z'
	upper := cmd
	if rel {
		upper = cmd - 'a' + 'A'
	}
	if upper == 'Z' {
		if pp.started {
			pp.out.Close()
			pp.cur = pp.start
		}
		return nil
	}
	if !last {
		return fmt.Errorf("path data: command %q needs arguments", cmd)
	}
	if upper != 'M' && !pp.started {
		return fmt.Errorf("path data: %q before first move", cmd)
	}

	first := true
	for first || pp.moreNumbers() {
		switch upper {
		case 'M':
			p, err := pp.point(rel)
			if err != nil {
				return err
			}
			if first {
				pp.out.MoveTo(p)
				pp.start, pp.started = p, true
			} else {
				pp.out.LineTo(p)
			}
			pp.cur = p
		case 'L':
			p, err := pp.point(rel)
			if err != nil {
				return err
			}
			pp.out.LineTo(p)
			pp.cur = p
		case 'H', 'V':
			n, err := pp.number()
			if err != nil {
				return err
			}
			p := pp.cur
			switch {
			case upper == 'H' && rel:
				p.X += n
			case upper == 'H':
				p.X = n
			case rel:
				p.Y += n
			default:
				p.Y = n
			}
			pp.out.LineTo(p)
			pp.cur = p
		case 'C':
			var pts [3]vector.Pt
			for k := range pts {
				p, err := pp.point(rel)
				if err != nil {
					return err
				}
				pts[k] = p
			}
			pp.out.CubicTo(pts[0], pts[1], pts[2])
			pp.cur = pts[2]
		case 'Q':
			c, err := pp.point(rel)
			if err != nil {
				return err
			}
			p, err := pp.point(rel)
			if err != nil {
				return err
			}
			pp.out.QuadTo(c, p)
			pp.cur = p
		default:
			return fmt.Errorf("path data: unsupported command %q", cmd)
		}
		first = false
	}
	return nil
}

func (pp *pathDataParser) moreNumbers() bool {
	pp.lex.ConsumeWhiteSpace()
	pp.skipComma()
	return pp.lex.PeekItem().Type == gl.ItemNumber
}

func (pp *pathDataParser) skipComma() {
	pp.lex.ConsumeWhiteSpace()
	if pp.lex.PeekItem().Value == "," {
		pp.lex.NextItem()
		pp.lex.ConsumeWhiteSpace()
	}
}

func (pp *pathDataParser) number() (float64, error) {
	pp.skipComma()
	i := pp.lex.NextItem()
	if i.Type != gl.ItemNumber {
		return 0, fmt.Errorf("path data: expected number, got %q", i.Value)
	}
	n, err := strconv.ParseFloat(i.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("path data: %w", err)
	}
	return n, nil
}

// point reads an x,y pair, relative to the pen when rel is set.
func (pp *pathDataParser) point(rel bool) (vector.Pt, error) {
	x, err := pp.number()
	if err != nil {
		return vector.Pt{}, err
	}
	y, err := pp.number()
	if err != nil {
		return vector.Pt{}, err
	}
	if rel {
		return vector.Pt{X: pp.cur.X + x, Y: pp.cur.Y + y}, nil
	}
	return vector.Pt{X: x, Y: y}, nil
}
