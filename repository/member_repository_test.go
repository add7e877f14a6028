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
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

type queryRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (h *queryRecorder) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryRecorder) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, event.Query)
}

func (h *queryRecorder) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = nil
}

func (h *queryRecorder) total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queries)
}

func (h *queryRecorder) countQueries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, q := range h.queries {
		if strings.Contains(strings.ToLower(q), "count(*)") {
			n++
		}
	}
	return n
}

func newTestDB(t *testing.T) (*bun.DB, *queryRecorder) {
	t.Helper()
	ctx := context.Background()

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = database.MemoryDBName
	manager := database.NewDatabaseManager(&cfg.ConnectionConfig)
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })

	db := manager.GetDB()
	require.NoError(t, database.NewMigrationManagerWithConfig(db, database.GetLogger(), cfg).RunMigrations(ctx))

	rec := &queryRecorder{}
	db.AddQueryHook(rec)
	return db, rec
}

// seedFour stores member1..member4 aged 10..40; the first two in teamA.
func seedFour(t *testing.T, db *bun.DB) (*model.Team, *model.Team) {
	t.Helper()
	ctx := context.Background()
	teamA, teamB := model.NewTeam("teamA"), model.NewTeam("teamB")
	_, err := db.NewInsert().Model(teamA).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(teamB).Exec(ctx)
	require.NoError(t, err)

	members := []*model.Member{
		model.NewMember("member1", 10, teamA),
		model.NewMember("member2", 20, teamA),
		model.NewMember("member3", 30, teamB),
		model.NewMember("member4", 40, teamB),
	}
	_, err = db.NewInsert().Model(&members).Exec(ctx)
	require.NoError(t, err)
	return teamA, teamB
}

func intPtr(v int) *int { return &v }

func usernames(rows []model.MemberTeam) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Username
	}
	return names
}

func TestMemberRepository_SearchWithAllConditions(t *testing.T) {
	db, _ := newTestDB(t)
	_, teamB := seedFour(t, db)
	repo := NewMemberRepository(db)

	rows, err := repo.Search(context.Background(), &search.SearchFilter{
		TeamName: "teamB",
		AgeGoe:   intPtr(25),
		AgeLoe:   intPtr(40),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member4"}, usernames(rows))
	assert.Equal(t, 30, rows[0].Age)
	require.NotNil(t, rows[0].TeamName)
	assert.Equal(t, "teamB", *rows[0].TeamName)
	require.NotNil(t, rows[0].TeamID)
	assert.Equal(t, teamB.ID, *rows[0].TeamID)
}

func TestMemberRepository_SearchWithoutConditionsReturnsAll(t *testing.T) {
	db, _ := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)

	rows, err := repo.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "member3", "member4"}, usernames(rows))

	rows, err = repo.Search(context.Background(), &search.SearchFilter{Username: "  ", TeamName: ""})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestMemberRepository_SingleFieldMatchesDirectQuery(t *testing.T) {
	db, _ := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	rows, err := repo.Search(ctx, &search.SearchFilter{Username: "member2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"member2"}, usernames(rows))

	rows, err = repo.Search(ctx, &search.SearchFilter{AgeGoe: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member4"}, usernames(rows))

	rows, err = repo.Search(ctx, &search.SearchFilter{AgeLoe: intPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(rows))

	rows, err = repo.Search(ctx, &search.SearchFilter{TeamName: "teamA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(rows))

	rows, err = repo.Search(ctx, &search.SearchFilter{AgeGoe: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestMemberRepository_MemberWithoutTeam(t *testing.T) {
	db, _ := newTestDB(t)
	seedFour(t, db)
	ctx := context.Background()
	_, err := db.NewInsert().Model(model.NewMember("loner", 50, nil)).Exec(ctx)
	require.NoError(t, err)
	repo := NewMemberRepository(db)

	rows, err := repo.Search(ctx, &search.SearchFilter{Username: "loner"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].TeamID)
	assert.Nil(t, rows[0].TeamName)

	rows, err = repo.Search(ctx, &search.SearchFilter{TeamName: "teamA"})
	require.NoError(t, err)
	assert.NotContains(t, usernames(rows), "loner")
}

func TestMemberRepository_SearchPageFullPageIssuesCount(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	rec.reset()

	page, err := repo.SearchPage(context.Background(), &search.SearchFilter{}, types.NewPageRequest(0, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "member3"}, usernames(page.Content))
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.Equal(t, 1, rec.countQueries())
}

func TestMemberRepository_SearchPageShortPageSkipsCount(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	rec.reset()

	page, err := repo.SearchPage(context.Background(), &search.SearchFilter{TeamName: "teamA"}, types.NewPageRequest(0, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(page.Content))
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.Equal(t, 0, rec.countQueries())
	assert.Equal(t, 1, rec.total())
}

func TestMemberRepository_SearchPageLastPage(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	rec.reset()

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(3, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"member4"}, usernames(page.Content))
	assert.Equal(t, 4, page.TotalElements)
	assert.False(t, page.HasNext)
	assert.Equal(t, 0, rec.countQueries())
}

func TestMemberRepository_SearchPageSimpleAlwaysCounts(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	rec.reset()

	page, err := repo.SearchPageSimple(context.Background(), &search.SearchFilter{TeamName: "teamA"}, types.NewPageRequest(0, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, rec.countQueries())
}

func TestMemberRepository_SearchPageSort(t *testing.T) {
	db, _ := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)

	page, err := repo.SearchPage(context.Background(), nil,
		types.NewPageRequest(0, 10, types.NewOrder("teamName", types.Desc), types.NewOrder("age", types.Asc)))
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member4", "member1", "member2"}, usernames(page.Content))
}

func TestMemberRepository_SearchPageRejectsBeforeQuerying(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	rec.reset()

	_, err := repo.SearchPage(ctx, nil, types.NewPageRequest(0, 0))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = repo.SearchPage(ctx, nil, types.NewPageRequest(0, 10, types.NewOrder("password", types.Asc)))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = repo.SearchPage(ctx, &search.SearchFilter{AgeGoe: intPtr(-1)}, types.NewPageRequest(0, 10))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	assert.Equal(t, 0, rec.total())
}

func TestMemberRepository_SearchPageRejectsOversizedLimit(t *testing.T) {
	db, rec := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	rec.reset()

	for _, limit := range []int{types.MaxPageSize + 1, math.MaxInt} {
		require.NotPanics(t, func() {
			_, err := repo.SearchPage(ctx, nil, types.NewPageRequest(0, limit))
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
			_, err = repo.SearchPageSimple(ctx, nil, types.NewPageRequest(0, limit))
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}
	assert.Equal(t, 0, rec.total())

	page, err := repo.SearchPage(ctx, nil, types.NewPageRequest(0, types.MaxPageSize))
	require.NoError(t, err)
	assert.Len(t, page.Content, 4)
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, rec.countQueries())
}

func TestMemberRepository_SearchPageTiesOrderedByID(t *testing.T) {
	db, _ := newTestDB(t)
	teamA, teamB := seedFour(t, db)
	ctx := context.Background()
	extra := []*model.Member{
		model.NewMember("member5", 10, teamB),
		model.NewMember("member6", 10, teamA),
	}
	_, err := db.NewInsert().Model(&extra).Exec(ctx)
	require.NoError(t, err)
	repo := NewMemberRepository(db)

	var names []string
	for offset := 0; offset < 3; offset++ {
		page, err := repo.SearchPage(ctx, nil, types.NewPageRequest(offset, 1, types.NewOrder("age", types.Asc)))
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		names = append(names, page.Content[0].Username)
	}
	assert.Equal(t, []string{"member1", "member5", "member6"}, names)

	page, err := repo.SearchPage(ctx, nil, types.NewPageRequest(0, 6, types.NewOrder("id", types.Desc)))
	require.NoError(t, err)
	assert.Equal(t, "member6", page.Content[0].Username)
	assert.Equal(t, "member1", page.Content[5].Username)
}

func TestMemberRepository_QueryFailureIsDataAccess(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	_, err := db.NewDropTable().Model((*model.Member)(nil)).Exec(ctx)
	require.NoError(t, err)

	_, err = repo.SearchPage(ctx, nil, types.NewPageRequest(0, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDataAccess)

	var dae *types.DataAccessError
	require.True(t, errors.As(err, &dae))
	assert.Equal(t, "content query", dae.Op)
	ok, kind := database.IsSqlError(dae.Err)
	assert.True(t, ok)
	assert.Equal(t, database.NoTableErr, kind)
}

func TestMemberRepository_FindByUsername(t *testing.T) {
	db, _ := newTestDB(t)
	seedFour(t, db)
	repo := NewMemberRepository(db)

	members, err := repo.FindByUsername(context.Background(), "member3")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 30, members[0].Age)

	members, err = repo.FindByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = db.NewDropTable().Model((*model.Member)(nil)).Exec(context.Background())
	require.NoError(t, err)
	_, err = repo.FindByUsername(context.Background(), "member3")
	assert.ErrorIs(t, err, types.ErrDataAccess)
	var dae *types.DataAccessError
	require.True(t, errors.As(err, &dae))
	assert.Equal(t, "content query", dae.Op)
}

func TestSeedMembers(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	seeded, err := SeedMembers(ctx, db, DefaultSeedTeams, DefaultSeedMembers)
	require.NoError(t, err)
	assert.True(t, seeded)

	repo := NewMemberRepository(db)
	page, err := repo.SearchPage(ctx, &search.SearchFilter{TeamName: "teamB"}, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 50, page.TotalElements)
	assert.Equal(t, "member1", page.Content[0].Username)
	assert.Equal(t, 1, page.Content[0].Age)

	seeded, err = SeedMembers(ctx, db, DefaultSeedTeams, DefaultSeedMembers)
	require.NoError(t, err)
	assert.False(t, seeded)
}
