/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package pathcache

import (
	"context"
	"log/slog"

	applog "gosquircle/internal/log"
	"gosquircle/internal/squircle"
	"gosquircle/internal/vector"
)

// Cache layers the in-memory Memo over an optional Store and falls back to
// computing the outline. Store failures are logged and otherwise ignored: the
// cache only ever costs time, never correctness.
type Cache struct {
	memo  *Memo
	store *Store
	log   *slog.Logger
}

// New returns a Cache. A nil memo gets a default-sized one; store may be nil.
func New(memo *Memo, store *Store) *Cache {
	if memo == nil {
		memo = NewMemo(DefaultEntries)
	}
	return &Cache{memo: memo, store: store, log: applog.WithComponent("pathcache")}
}

// Memo exposes the in-memory tier, e.g. for stats.
func (c *Cache) Memo() *Memo { return c.memo }

// Store returns the persistent tier or nil.
func (c *Cache) Store() *Store { return c.store }

// Outline is squircle.Outline behind the cache.
func (c *Cache) Outline(ctx context.Context, bounds vector.Rect, radius float64, corners vector.Corner, borderWidth float64, opts ...squircle.Option) (squircle.Shape, error) {
	k := NewKey(VariantOutline, bounds, radius, corners, borderWidth, squircle.Resolve(opts...))
	return c.lookup(ctx, k, func() (squircle.Shape, error) {
		return squircle.Outline(bounds, radius, corners, borderWidth, opts...)
	})
}

// BorderOutline is squircle.BorderOutline behind the cache.
func (c *Cache) BorderOutline(ctx context.Context, bounds vector.Rect, radius float64, corners vector.Corner, borderWidth float64, opts ...squircle.Option) (squircle.Shape, error) {
	k := NewKey(VariantBorder, bounds, radius, corners, borderWidth, squircle.Resolve(opts...))
	return c.lookup(ctx, k, func() (squircle.Shape, error) {
		return squircle.BorderOutline(bounds, radius, corners, borderWidth, opts...)
	})
}

func (c *Cache) lookup(ctx context.Context, k Key, compute func() (squircle.Shape, error)) (squircle.Shape, error) {
	if !k.Cacheable() {
		return compute()
	}
	return c.memo.GetOrCompute(k, func() (squircle.Shape, error) {
		l := applog.WithOperation(c.log, k.Variant.String())
		if c.store != nil {
			s, ok, err := c.store.Get(ctx, k)
			if err != nil {
				l.WarnContext(ctx, "store read failed", slog.String("key", k.String()), slog.Any("err", err))
			} else if ok {
				l.DebugContext(ctx, "store hit", slog.String("key", k.String()))
				return s, nil
			}
		}
		s, err := compute()
		if err != nil {
			l.DebugContext(ctx, "compute failed", slog.String("key", k.String()), slog.Any("err", err))
			return squircle.Shape{}, err
		}
		if c.store != nil {
			if err := c.store.Put(ctx, k, s); err != nil {
				l.WarnContext(ctx, "store write failed", slog.String("key", k.String()), slog.Any("err", err))
			}
		}
		return s, nil
	})
}

// Clear empties both tiers.
func (c *Cache) Clear(ctx context.Context) error {
	c.memo.Purge()
	if c.store != nil {
		return c.store.Clear(ctx)
	}
	return nil
}

// Close releases the store.
func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
