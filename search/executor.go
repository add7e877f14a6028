/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package search

import (
	"context"

	"github.com/tomoncle/roster/types"
)

// ContentQuery fetches at most limit rows starting at offset, already
// filtered and ordered.
type ContentQuery[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// CountQuery returns the number of rows matching the same filter and joins,
// ignoring ordering and the offset/limit window.
type CountQuery func(ctx context.Context) (int, error)

// CountStrategy decides when Paginate runs the count query.
type CountStrategy int

const (
	// CountWhenNeeded skips the count query when the content page proves the total.
	CountWhenNeeded CountStrategy = iota
	// CountAlways runs the count query for every page.
	CountAlways
)

// Observer is notified about the count decision of each page.
type Observer interface {
	CountIssued()
	CountSkipped()
}

type options struct {
	strategy CountStrategy
	observer Observer
}

// Option configures Paginate.
type Option func(*options)

// WithCountAlways disables count avoidance.
func WithCountAlways() Option {
	return func(o *options) { o.strategy = CountAlways }
}

// WithStrategy selects the count strategy explicitly.
func WithStrategy(s CountStrategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithObserver registers an observer for count decisions.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// CanSkipCount reports whether the total is known from the content page
// alone. A short page is the tail of the result set unless it is empty and
// past the first row, in which case the offset may lie beyond the end.
func CanSkipCount(offset, limit, contentSize int) bool {
	if contentSize >= limit {
		return false
	}
	return offset == 0 || contentSize > 0
}

// Paginate runs the content query and, only when required, the count query,
// and assembles the page. Invalid requests fail before any query is issued.
func Paginate[T any](ctx context.Context, req *types.PageRequest, content ContentQuery[T], count CountQuery, opts ...Option) (*types.PageResult[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	o := &options{strategy: CountWhenNeeded}
	for _, opt := range opts {
		opt(o)
	}

	rows, err := content(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, &types.DataAccessError{Op: "content query", Err: err}
	}

	if o.strategy == CountWhenNeeded && CanSkipCount(req.Offset, req.Limit, len(rows)) {
		if o.observer != nil {
			o.observer.CountSkipped()
		}
		return types.NewPageResult(rows, req, req.Offset+len(rows)), nil
	}

	if o.observer != nil {
		o.observer.CountIssued()
	}
	total, err := count(ctx)
	if err != nil {
		return nil, &types.DataAccessError{Op: "count query", Err: err}
	}
	return types.NewPageResult(rows, req, total), nil
}
