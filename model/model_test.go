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
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMember_ChangeTeam(t *testing.T) {
	teamA := &Team{ID: 1, Name: "teamA"}
	m := NewMember("member1", 10, teamA)
	require.NotNil(t, m.TeamID)
	assert.Equal(t, int64(1), *m.TeamID)

	m.ChangeTeam(&Team{ID: 2, Name: "teamB"})
	assert.Equal(t, int64(2), *m.TeamID)

	m.ChangeTeam(nil)
	assert.Nil(t, m.TeamID)
	assert.Equal(t, "Member(id=0, username=member1, age=10)", m.String())
}
