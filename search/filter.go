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
	"strings"
	"unicode"

	"github.com/tomoncle/roster/types"
)

// Columns referenced by member search conditions. They assume the member
// table is aliased "m" and the joined team table "t".
const (
	ColumnMemberID = "m.id"
	ColumnUsername = "m.username"
	ColumnAge      = "m.age"
	ColumnTeamID   = "t.id"
	ColumnTeamName = "t.name"
)

// SearchFilter is a sparse set of member search constraints. Blank strings
// and nil ages do not constrain the result.
type SearchFilter struct {
	Username string `form:"username" json:"username"`
	TeamName string `form:"teamName" json:"teamName"`
	AgeGoe   *int   `form:"ageGoe" json:"ageGoe" validate:"omitempty,gte=0"`
	AgeLoe   *int   `form:"ageLoe" json:"ageLoe" validate:"omitempty,gte=0"`
}

// Validate rejects malformed values such as negative age bounds.
func (f *SearchFilter) Validate() error {
	if f == nil {
		return nil
	}
	return types.ValidateStruct(f)
}

// HasText reports whether s contains at least one non-whitespace character.
func HasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// UsernameEq returns m.username = username, or nil when username is blank.
func UsernameEq(username string) *types.Condition {
	if !HasText(username) {
		return nil
	}
	return types.NewCondition(ColumnUsername, types.OpEq, username)
}

// TeamNameEq returns t.name = teamName, or nil when teamName is blank.
func TeamNameEq(teamName string) *types.Condition {
	if !HasText(teamName) {
		return nil
	}
	return types.NewCondition(ColumnTeamName, types.OpEq, teamName)
}

// AgeGoe returns m.age >= age, or nil when age is nil. Zero is a bound.
func AgeGoe(age *int) *types.Condition {
	if age == nil {
		return nil
	}
	return types.NewCondition(ColumnAge, types.OpGoe, *age)
}

// AgeLoe returns m.age <= age, or nil when age is nil.
func AgeLoe(age *int) *types.Condition {
	if age == nil {
		return nil
	}
	return types.NewCondition(ColumnAge, types.OpLoe, *age)
}

// Conditions returns one entry per filter field in the fixed composition
// order: username, teamName, ageGoe, ageLoe. Absent fields are nil.
func Conditions(filter *SearchFilter) []*types.Condition {
	if filter == nil {
		return []*types.Condition{nil, nil, nil, nil}
	}
	return []*types.Condition{
		UsernameEq(filter.Username),
		TeamNameEq(filter.TeamName),
		AgeGoe(filter.AgeGoe),
		AgeLoe(filter.AgeLoe),
	}
}

// Compose conjoins the present conditions of filter. A filter with every
// field absent, or a nil filter, yields types.MatchAll().
func Compose(filter *SearchFilter) *types.QueryFilter {
	return types.And(Conditions(filter)...)
}
