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

package repository

import (
	"context"
	"fmt"

	"github.com/tomoncle/roster/model"
	"github.com/uptrace/bun"
)

// DefaultSeedTeams and DefaultSeedMembers describe the local sample data.
var DefaultSeedTeams = []string{"teamA", "teamB"}

const DefaultSeedMembers = 100

// SeedMembers creates one team per name and members member0..member(n-1)
// with age i, assigned to the teams round-robin. It does nothing and
// returns false when members already exist.
func SeedMembers(ctx context.Context, db *bun.DB, teamNames []string, n int) (bool, error) {
	if len(teamNames) == 0 {
		return false, fmt.Errorf("at least one team is required")
	}
	exists, err := db.NewSelect().Model((*model.Member)(nil)).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check existing members: %w", err)
	}
	if exists {
		return false, nil
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		teams := make([]*model.Team, len(teamNames))
		for i, name := range teamNames {
			teams[i] = model.NewTeam(name)
			if _, err := tx.NewInsert().Model(teams[i]).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert team %s: %w", name, err)
			}
		}
		if n <= 0 {
			return nil
		}
		members := make([]*model.Member, n)
		for i := range members {
			members[i] = model.NewMember(fmt.Sprintf("member%d", i), i, teams[i%len(teams)])
		}
		if _, err := tx.NewInsert().Model(&members).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert members: %w", err)
		}
		return nil
	})
	return err == nil, err
}
