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

package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
)

const serviceTimeout = 5 * time.Second

// MemberSearcher is what the member endpoints need from the service layer.
type MemberSearcher interface {
	Search(ctx context.Context, filter *search.SearchFilter) ([]model.MemberTeam, error)
	SearchPage(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error)
	SearchPageSimple(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error)
}

type MemberHandler struct {
	svc MemberSearcher
}

func NewMemberHandler(svc MemberSearcher) *MemberHandler { return &MemberHandler{svc: svc} }

// Register mounts the three member search versions:
// /v1 returns a plain list, /v2 a page that avoids the count query when it
// can, /v3 a page that always counts.
func (h *MemberHandler) Register(r gin.IRouter) {
	r.GET("/v1/members", h.searchV1)
	r.GET("/v2/members", h.searchV2)
	r.GET("/v3/members", h.searchV3)
}

func (h *MemberHandler) searchV1(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	rows, err := h.svc.Search(ctx, filter)
	if err != nil {
		WriteError(c, err)
		return
	}
	WriteData(c, http.StatusOK, rows)
}

func (h *MemberHandler) searchV2(c *gin.Context) {
	h.searchPage(c, h.svc.SearchPage)
}

func (h *MemberHandler) searchV3(c *gin.Context) {
	h.searchPage(c, h.svc.SearchPageSimple)
}

type pageFunc func(ctx context.Context, filter *search.SearchFilter, page *types.PageRequest) (*types.PageResult[model.MemberTeam], error)

func (h *MemberHandler) searchPage(c *gin.Context, fn pageFunc) {
	filter, err := bindFilter(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	result, err := fn(ctx, filter, page)
	if err != nil {
		WriteError(c, err)
		return
	}
	WriteData(c, http.StatusOK, result)
}

func bindFilter(c *gin.Context) (*search.SearchFilter, error) {
	var filter search.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		return nil, types.NewInvalidArgument("filter", "ageGoe and ageLoe must be integers")
	}
	return &filter, nil
}

// bindPage reads offset, limit (default types.DefaultPageSize) and any
// number of sort=property[,asc|desc] parameters.
func bindPage(c *gin.Context) (*types.PageRequest, error) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := queryInt(c, "limit", types.DefaultPageSize)
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	for _, raw := range c.QueryArray("sort") {
		property, dir, _ := strings.Cut(raw, ",")
		direction, ok := types.ParseDirection(dir)
		if !ok {
			return nil, types.NewInvalidArgument("sort", "direction must be asc or desc")
		}
		orders = append(orders, types.NewOrder(strings.TrimSpace(property), direction))
	}
	return types.NewPageRequest(offset, limit, orders...), nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, types.NewInvalidArgument(key, "must be a valid integer")
	}
	return v, nil
}
