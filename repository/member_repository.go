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

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/metrics"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
	"github.com/tomoncle/roster/utils"
	"github.com/uptrace/bun"
)

// Names of the paginated member searches, used as metric labels.
const (
	SearchMemberPage       = "member_page"
	SearchMemberPageSimple = "member_page_simple"
)

// memberSortColumns whitelists the sort properties accepted by member
// searches and maps them to qualified columns.
var memberSortColumns = map[string]string{
	"id":       search.ColumnMemberID,
	"memberId": search.ColumnMemberID,
	"username": search.ColumnUsername,
	"age":      search.ColumnAge,
	"teamId":   search.ColumnTeamID,
	"teamName": search.ColumnTeamName,
}

type memberRepositoryImpl struct {
	Repository[model.Member]
	db  *bun.DB
	log *logrus.Logger
}

// NewMemberRepository returns the member search repository backed by db.
func NewMemberRepository(db *bun.DB) MemberRepository {
	return &memberRepositoryImpl{
		Repository: NewRepository[model.Member](db),
		db:         db,
		log:        utils.NewLogger("REPOSITORY"),
	}
}

func (r *memberRepositoryImpl) Search(ctx context.Context, filter *search.SearchFilter) ([]model.MemberTeam, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows := make([]model.MemberTeam, 0)
	err := r.project(r.from(search.Compose(filter))).
		OrderExpr("? ASC", bun.Ident(search.ColumnMemberID)).
		Scan(ctx, &rows)
	if err != nil {
		r.logFailure("member_search", "content query", err)
		return nil, &types.DataAccessError{Op: "content query", Err: err}
	}
	return rows, nil
}

func (r *memberRepositoryImpl) SearchPage(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error) {
	return r.searchPage(ctx, SearchMemberPage, filter, page, search.CountWhenNeeded)
}

func (r *memberRepositoryImpl) SearchPageSimple(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error) {
	return r.searchPage(ctx, SearchMemberPageSimple, filter, page, search.CountAlways)
}

func (r *memberRepositoryImpl) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	members := make([]*model.Member, 0)
	err := r.db.NewSelect().
		Model(&members).
		Where("? = ?", bun.Ident(search.ColumnUsername), username).
		OrderExpr("? ASC", bun.Ident(search.ColumnMemberID)).
		Scan(ctx)
	if err != nil {
		r.logFailure("member_by_username", "content query", err)
		return nil, &types.DataAccessError{Op: "content query", Err: err}
	}
	return members, nil
}

func (r *memberRepositoryImpl) searchPage(ctx context.Context, name string, filter *search.SearchFilter, page *types.PageRequest, strategy search.CountStrategy) (*types.PageResult[model.MemberTeam], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	orders, err := memberOrders(page.Sort)
	if err != nil {
		return nil, err
	}

	predicate := search.Compose(filter)
	content := func(ctx context.Context, offset, limit int) ([]model.MemberTeam, error) {
		rows := make([]model.MemberTeam, 0)
		q := r.project(r.from(predicate))
		for _, o := range orders {
			q = q.OrderExpr("? "+o.Direction.Name(), bun.Ident(o.Property))
		}
		err := q.Offset(offset).Limit(limit).Scan(ctx, &rows)
		return rows, err
	}
	count := func(ctx context.Context) (int, error) {
		return r.from(predicate).Count(ctx)
	}

	obs := &loggingObserver{SearchObserver: metrics.NewSearchObserver(name), log: r.log.WithField("search", name)}
	result, err := search.Paginate(ctx, page, content, count, search.WithStrategy(strategy), search.WithObserver(obs))
	if err != nil {
		var dae *types.DataAccessError
		if errors.As(err, &dae) {
			obs.QueryFailed(dae.Op)
			r.logFailure(name, dae.Op, dae.Err)
		}
		return nil, err
	}
	return result, nil
}

// from starts a query over members left-joined to their team, restricted
// by predicate. Members without a team are kept.
func (r *memberRepositoryImpl) from(predicate *types.QueryFilter) *bun.SelectQuery {
	q := r.db.NewSelect().
		TableExpr("? AS ?", bun.Ident(database.TableName(r.db, (*model.Member)(nil))), bun.Ident("m")).
		Join("LEFT JOIN ? AS ? ON ? = ?",
			bun.Ident(database.TableName(r.db, (*model.Team)(nil))), bun.Ident("t"),
			bun.Ident(search.ColumnTeamID), bun.Ident("m.team_id"))
	return predicate.Apply(q)
}

func (r *memberRepositoryImpl) project(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		ColumnExpr("? AS member_id", bun.Ident(search.ColumnMemberID)).
		ColumnExpr("? AS username", bun.Ident(search.ColumnUsername)).
		ColumnExpr("? AS age", bun.Ident(search.ColumnAge)).
		ColumnExpr("? AS team_id", bun.Ident(search.ColumnTeamID)).
		ColumnExpr("? AS team_name", bun.Ident(search.ColumnTeamName))
}

func (r *memberRepositoryImpl) logFailure(name, op string, err error) {
	entry := r.log.WithFields(logrus.Fields{"search": name, "op": op})
	if ok, kind := database.IsSqlError(err); ok {
		entry = entry.WithField("sql_error", kind.String())
	}
	entry.WithError(err).Error("Member search query failed")
}

// memberOrders maps sort properties to columns. Member id ascending is
// appended unless already present, so rows tied on the requested columns
// keep a stable position across offsets.
func memberOrders(sort []types.Order) ([]types.Order, error) {
	orders := make([]types.Order, 0, len(sort)+1)
	hasID := false
	for _, o := range sort {
		column, ok := memberSortColumns[o.Property]
		if !ok {
			return nil, types.NewInvalidArgument("sort", "unknown sort property "+o.Property)
		}
		hasID = hasID || column == search.ColumnMemberID
		orders = append(orders, types.NewOrder(column, o.Direction))
	}
	if !hasID {
		orders = append(orders, types.NewOrder(search.ColumnMemberID, types.Asc))
	}
	return orders, nil
}

type loggingObserver struct {
	*metrics.SearchObserver
	log *logrus.Entry
}

func (o *loggingObserver) CountIssued() {
	o.SearchObserver.CountIssued()
	o.log.Debug("Count query issued")
}

func (o *loggingObserver) CountSkipped() {
	o.SearchObserver.CountSkipped()
	o.log.Debug("Count query skipped, total known from content")
}
