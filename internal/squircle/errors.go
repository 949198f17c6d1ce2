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
	"fmt"

	"gosquircle/internal/vector"
)

// ErrNonFinitePoint is returned when a derived point has a NaN or infinite
// coordinate. No path is produced in that case; callers skip the decoration
// until the geometry changes. Retrying with the same input gives the same result.
var ErrNonFinitePoint = errors.New("non-finite point")

// NonFinitePointError names the offending point. It matches ErrNonFinitePoint.
type NonFinitePointError struct {
	Set   string // "control", "connection" or "bounds"
	Index int
	Point vector.Pt
}

func (e *NonFinitePointError) Error() string {
	return fmt.Sprintf("%s point %d (%g, %g): %v", e.Set, e.Index, e.Point.X, e.Point.Y, ErrNonFinitePoint)
}

func (e *NonFinitePointError) Unwrap() error { return ErrNonFinitePoint }
