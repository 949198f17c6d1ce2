/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"strings"
)

// Corner is a set over the four rectangle corners. Membership only; order does not matter.
type Corner uint8

const (
	TopLeft Corner = 1 << iota
	TopRight
	BottomLeft
	BottomRight
)

const (
	NoCorners     Corner = 0
	TopCorners           = TopLeft | TopRight
	BottomCorners        = BottomLeft | BottomRight
	AllCorners           = TopCorners | BottomCorners
)

// Has reports whether every corner in o is also in c.
func (c Corner) Has(o Corner) bool { return c&o == o }

// Key renders membership as four digits in the order top-left, top-right,
// bottom-left, bottom-right, e.g. "1111" for all corners.
func (c Corner) Key() string {
	var b [4]byte
	for i, k := range []Corner{TopLeft, TopRight, BottomLeft, BottomRight} {
		b[i] = '0'
		if c.Has(k) {
			b[i] = '1'
		}
	}
	return string(b[:])
}

func (c Corner) String() string {
	switch c & AllCorners {
	case AllCorners:
		return "all"
	case TopCorners:
		return "top"
	case BottomCorners:
		return "bottom"
	case NoCorners:
		return "none"
	}
	var parts []string
	for _, n := range cornerNames {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

var cornerNames = []struct {
	name string
	c    Corner
}{
	{"top-left", TopLeft},
	{"top-right", TopRight},
	{"bottom-left", BottomLeft},
	{"bottom-right", BottomRight},
}

// ParseCorners accepts the named unions all, top, bottom and none, or a comma
// separated list of single corners such as "top-left,bottom-right".
// An empty string means all corners.
func ParseCorners(s string) (Corner, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "all", "":
		return AllCorners, nil
	case "top":
		return TopCorners, nil
	case "bottom":
		return BottomCorners, nil
	case "none":
		return NoCorners, nil
	}
	var c Corner
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, n := range cornerNames {
			if part == n.name {
				c |= n.c
				found = true
				break
			}
		}
		if !found {
			return NoCorners, fmt.Errorf("unknown corner %q", part)
		}
	}
	return c, nil
}
