/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package pathcache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"gosquircle/internal/squircle"
)

// DefaultEntries is the Memo capacity used when none is configured.
const DefaultEntries = 512

// Stats is a snapshot of Memo counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	Capacity  int
}

// Memo is a bounded in-memory LRU of computed shapes, safe for concurrent use.
// Concurrent misses on one key share a single computation.
// Cached shapes share their command slices with every caller; treat them as read-only.
type Memo struct {
	cap   int
	lru   *lru.Cache[Key, squircle.Shape]
	group singleflight.Group

	hits, misses, evictions atomic.Uint64
}

// NewMemo returns a Memo holding at most capacity shapes; capacity <= 0 uses DefaultEntries.
func NewMemo(capacity int) *Memo {
	if capacity <= 0 {
		capacity = DefaultEntries
	}
	c, err := lru.New[Key, squircle.Shape](capacity)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Memo{cap: capacity, lru: c}
}

// Get returns the cached shape for k and marks it most recently used.
func (m *Memo) Get(k Key) (squircle.Shape, bool) {
	if !k.Cacheable() {
		m.misses.Add(1)
		return squircle.Shape{}, false
	}
	if s, ok := m.lru.Get(k); ok {
		m.hits.Add(1)
		return s, true
	}
	m.misses.Add(1)
	return squircle.Shape{}, false
}

// Put stores s under k, replacing any previous entry, and evicts the least
// recently used entry when over capacity. Keys that are not Cacheable are dropped.
func (m *Memo) Put(k Key, s squircle.Shape) {
	if !k.Cacheable() {
		return
	}
	if m.lru.Add(k, s) {
		m.evictions.Add(1)
	}
}

// GetOrCompute returns the cached shape or calls compute and caches its result.
// Failed computations are returned but never cached.
func (m *Memo) GetOrCompute(k Key, compute func() (squircle.Shape, error)) (squircle.Shape, error) {
	if s, ok := m.Get(k); ok {
		return s, nil
	}
	if !k.Cacheable() {
		return compute()
	}
	v, err, _ := m.group.Do(k.String(), func() (any, error) {
		// a concurrent flight may have finished between Get and Do
		if s, ok := m.lru.Peek(k); ok {
			return s, nil
		}
		s, err := compute()
		if err != nil {
			return nil, err
		}
		m.Put(k, s)
		return s, nil
	})
	if err != nil {
		return squircle.Shape{}, err
	}
	return v.(squircle.Shape), nil
}

// Purge drops every entry. Counters are kept.
func (m *Memo) Purge() { m.lru.Purge() }

func (m *Memo) Len() int { return m.lru.Len() }

func (m *Memo) Stats() Stats {
	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
		Entries:   m.lru.Len(),
		Capacity:  m.cap,
	}
}
