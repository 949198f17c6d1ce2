/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package squircle

import "gosquircle/internal/vector"

// Kind tells how a Shape is described.
type Kind uint8

const (
	// KindSquircle carries an explicit command list in Path.
	KindSquircle Kind = iota
	// KindEllipse is the ellipse inscribed in Rect.
	KindEllipse
	// KindRoundedRect is Rect with circular corners of Radius.
	KindRoundedRect
)

func (k Kind) String() string {
	switch k {
	case KindSquircle:
		return "squircle"
	case KindEllipse:
		return "ellipse"
	case KindRoundedRect:
		return "rounded-rect"
	}
	return "unknown"
}

// Shape is the result of an outline computation. Primitive kinds leave Path empty;
// use Flatten to get commands for any kind.
type Shape struct {
	Kind   Kind
	Rect   vector.Rect
	Radius float64
	Path   vector.Path
}

// Flatten returns the shape as path commands.
func (s Shape) Flatten() vector.Path {
	switch s.Kind {
	case KindEllipse:
		return vector.EllipsePath(s.Rect)
	case KindRoundedRect:
		return vector.RoundedRectPath(s.Rect, s.Radius)
	}
	return s.Path
}

// Closed reports whether every subpath ends with Close.
func (s Shape) Closed() bool {
	subs := s.Flatten().Subpaths()
	if len(subs) == 0 {
		return false
	}
	for _, sp := range subs {
		if n := len(sp.Cmds); n == 0 || sp.Cmds[n-1].Op != vector.Close {
			return false
		}
	}
	return true
}
