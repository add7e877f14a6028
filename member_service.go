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

package roster

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
	"github.com/tomoncle/roster/utils"
	"github.com/uptrace/bun"
)

// MemberService answers member searches and manages the sample data.
type MemberService interface {
	Service[model.Member]

	// Search returns every member matching filter, in insertion order.
	Search(ctx context.Context, filter *search.SearchFilter) ([]model.MemberTeam, error)

	// SearchPage returns one page and skips the count query when the page
	// proves the total.
	SearchPage(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error)

	// SearchPageSimple returns one page and always runs the count query.
	SearchPageSimple(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error)

	// FindByUsername returns the members with exactly this username.
	FindByUsername(ctx context.Context, username string) ([]*model.Member, error)

	// InitMembers stores the sample teams and members unless members exist.
	InitMembers(ctx context.Context) error
}

type memberServiceImpl struct {
	Service[model.Member]
	db   *bun.DB
	repo repository.MemberRepository
	log  *logrus.Logger
}

// NewMemberService returns a MemberService backed by db.
func NewMemberService(db *bun.DB) MemberService {
	return &memberServiceImpl{
		Service: NewServiceWithDB[model.Member](db),
		db:      db,
		repo:    repository.NewMemberRepository(db),
		log:     utils.NewLogger("SERVICE"),
	}
}

func (s *memberServiceImpl) Search(ctx context.Context, filter *search.SearchFilter) ([]model.MemberTeam, error) {
	return s.repo.Search(ctx, filter)
}

func (s *memberServiceImpl) SearchPage(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error) {
	return s.repo.SearchPage(ctx, filter, page)
}

func (s *memberServiceImpl) SearchPageSimple(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error) {
	return s.repo.SearchPageSimple(ctx, filter, page)
}

func (s *memberServiceImpl) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *memberServiceImpl) InitMembers(ctx context.Context) error {
	seeded, err := repository.SeedMembers(ctx, s.db, repository.DefaultSeedTeams, repository.DefaultSeedMembers)
	if err != nil {
		return err
	}
	if !seeded {
		s.log.Info("Members already present, skipping sample data")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"teams":   len(repository.DefaultSeedTeams),
		"members": repository.DefaultSeedMembers,
	}).Info("Sample members created")
	return nil
}
