/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import mt "github.com/rustyoz/Mtransform"

// Transform returns a copy of p with every point mapped through t.
func (p Path) Transform(t mt.Transform) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		n := PathCmd{Op: c.Op}
		for j, q := range c.points() {
			x, y := t.Apply(q.X, q.Y)
			n.Pts[j] = Pt{x, y}
		}
		out.Cmds[i] = n
	}
	return out
}

// Scale maps layout points to device units, e.g. a screen scale factor or
// points-to-pixels for a given DPI.
func (p Path) Scale(sx, sy float64) Path {
	t := mt.Identity()
	t.Scale(sx, sy)
	return p.Transform(t)
}
