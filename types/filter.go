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

import (
	"strings"

	"github.com/uptrace/bun"
)

// Operator is a binary comparison supported by Condition.
type Operator string

const (
	OpEq  Operator = "="
	OpGoe Operator = ">="
	OpLoe Operator = "<="
)

// Condition is a single column comparison, e.g. m.age >= 25.
type Condition struct {
	Column   string
	Operator Operator
	Value    interface{}
}

// NewCondition creates a new condition on column.
func NewCondition(column string, op Operator, value interface{}) *Condition {
	return &Condition{Column: column, Operator: op, Value: value}
}

// QueryFilter describes a WHERE clause schema and its argument values.
// An empty Schema matches every row.
type QueryFilter struct {
	Schema     string
	Args       []interface{}
	Conditions []*Condition
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{Schema: schema, Args: args}
}

// MatchAll returns the neutral filter.
func MatchAll() *QueryFilter {
	return &QueryFilter{}
}

// And conjoins the non-nil conditions in the given order. When every
// condition is nil the result is MatchAll().
func And(conditions ...*Condition) *QueryFilter {
	present := make([]*Condition, 0, len(conditions))
	for _, c := range conditions {
		if c != nil {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return MatchAll()
	}

	parts := make([]string, len(present))
	args := make([]interface{}, 0, len(present)*2)
	for i, c := range present {
		parts[i] = "? " + string(c.Operator) + " ?"
		args = append(args, bun.Ident(c.Column), c.Value)
	}
	return &QueryFilter{
		Schema:     strings.Join(parts, " AND "),
		Args:       args,
		Conditions: present,
	}
}

// IsEmpty reports whether the filter constrains nothing.
func (f *QueryFilter) IsEmpty() bool {
	return f == nil || strings.TrimSpace(f.Schema) == ""
}

// Apply adds the filter to q as a single grouped WHERE clause.
func (f *QueryFilter) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.IsEmpty() {
		return q
	}
	return q.Where("("+f.Schema+")", f.Args...)
}
