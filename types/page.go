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

package types

// DefaultPageSize is used by the transport when no limit is supplied.
const DefaultPageSize = 20

// MaxPageSize is the largest limit a PageRequest accepts.
const MaxPageSize = 1000

// Order is a single sort clause, e.g. {"username", Desc}.
type Order struct {
	Property  string    `json:"property" validate:"required"`
	Direction Direction `json:"direction"`
}

// NewOrder constructs an Order.
func NewOrder(property string, direction Direction) Order {
	return Order{Property: property, Direction: direction}
}

// PageRequest describes an offset/limit window and its ordering.
type PageRequest struct {
	Offset int     `json:"offset" validate:"gte=0"`
	Limit  int     `json:"limit" validate:"gt=0,lte=1000"`
	Sort   []Order `json:"sort,omitempty" validate:"dive"`
}

// NewPageRequest constructs a PageRequest from a raw offset and limit.
func NewPageRequest(offset int, limit int, orders ...Order) *PageRequest {
	return &PageRequest{Offset: offset, Limit: limit, Sort: orders}
}

// Of constructs a PageRequest from a zero-based page number and page size.
func Of(page int, size int, orders ...Order) *PageRequest {
	return NewPageRequest(page*size, size, orders...)
}

// Validate checks the request bounds and sort clauses.
func (p *PageRequest) Validate() error {
	if p == nil {
		return NewInvalidArgument("page", "page request is required")
	}
	if err := ValidateStruct(p); err != nil {
		return err
	}
	for _, order := range p.Sort {
		if !order.Direction.IsValid() {
			return NewInvalidArgument("sort", "invalid direction for "+order.Property)
		}
	}
	return nil
}

// PageResult holds one page of content along with pagination metadata.
type PageResult[T any] struct {
	Content       []T  `json:"content"`
	Offset        int  `json:"offset"`
	Limit         int  `json:"limit"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	HasNext       bool `json:"hasNext"`
}

// NewPageResult assembles a PageResult for content returned by req.
func NewPageResult[T any](content []T, req *PageRequest, total int) *PageResult[T] {
	if content == nil {
		content = make([]T, 0)
	}
	pages := 0
	if total > 0 {
		pages = 1 + (total-1)/req.Limit
	}
	return &PageResult[T]{
		Content:       content,
		Offset:        req.Offset,
		Limit:         req.Limit,
		TotalElements: total,
		TotalPages:    pages,
		HasNext:       req.Offset+len(content) < total,
	}
}
