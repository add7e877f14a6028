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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/types"
)

// fakeStore serves a fixed number of rows and records which queries ran.
type fakeStore struct {
	total        int
	contentCalls int
	countCalls   int
	contentErr   error
	countErr     error
}

func (s *fakeStore) content(_ context.Context, offset, limit int) ([]int, error) {
	s.contentCalls++
	if s.contentErr != nil {
		return nil, s.contentErr
	}
	rows := []int{}
	for i := offset; i < s.total && i < offset+limit; i++ {
		rows = append(rows, i)
	}
	return rows, nil
}

func (s *fakeStore) count(context.Context) (int, error) {
	s.countCalls++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.total, nil
}

type countingObserver struct{ issued, skipped int }

func (o *countingObserver) CountIssued()  { o.issued++ }
func (o *countingObserver) CountSkipped() { o.skipped++ }

func TestPaginate_FullPageIssuesCount(t *testing.T) {
	store := &fakeStore{total: 4}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 3), store.content, store.count)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, page.Content)
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.Equal(t, 1, store.countCalls)
}

func TestPaginate_ShortPageSkipsCount(t *testing.T) {
	store := &fakeStore{total: 2}
	obs := &countingObserver{}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 3), store.content, store.count, WithObserver(obs))
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.Equal(t, 0, store.countCalls)
	assert.Equal(t, 1, obs.skipped)
	assert.Equal(t, 0, obs.issued)
}

func TestPaginate_ExactlyOnePageIssuesCount(t *testing.T) {
	store := &fakeStore{total: 5}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 5), store.content, store.count)
	require.NoError(t, err)
	assert.Len(t, page.Content, 5)
	assert.Equal(t, 1, store.countCalls)
	assert.Equal(t, 5, page.TotalElements)
	assert.False(t, page.HasNext)
}

func TestPaginate_EmptyStore(t *testing.T) {
	store := &fakeStore{total: 0}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 10), store.content, store.count)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
	assert.Equal(t, 0, page.TotalElements)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.Equal(t, 0, store.countCalls)
}

func TestPaginate_OffsetPastEndIssuesCount(t *testing.T) {
	store := &fakeStore{total: 4}
	page, err := Paginate(context.Background(), types.NewPageRequest(10, 3), store.content, store.count)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 1, store.countCalls)
	assert.False(t, page.HasNext)
}

func TestPaginate_CountAvoidanceMatchesTrueTotal(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for limit := 1; limit <= 5; limit++ {
			for offset := 0; offset <= 14; offset++ {
				name := fmt.Sprintf("total=%d/limit=%d/offset=%d", total, limit, offset)
				store := &fakeStore{total: total}
				page, err := Paginate(context.Background(), types.NewPageRequest(offset, limit), store.content, store.count)
				require.NoError(t, err, name)
				assert.Equal(t, total, page.TotalElements, name)
				assert.Equal(t, offset+len(page.Content) < total, page.HasNext, name)
				if len(page.Content) < limit && (offset == 0 || len(page.Content) > 0) {
					assert.Equal(t, 0, store.countCalls, name)
				}
			}
		}
	}
}

func TestPaginate_CountAlways(t *testing.T) {
	store := &fakeStore{total: 2}
	obs := &countingObserver{}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 3), store.content, store.count,
		WithCountAlways(), WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, store.countCalls)
	assert.Equal(t, 1, obs.issued)
}

func TestPaginate_InvalidRequestIssuesNoQuery(t *testing.T) {
	cases := []*types.PageRequest{
		nil,
		types.NewPageRequest(0, 0),
		types.NewPageRequest(0, -1),
		types.NewPageRequest(-1, 10),
		types.NewPageRequest(0, 10, types.NewOrder("", types.Asc)),
	}
	for _, req := range cases {
		store := &fakeStore{total: 4}
		_, err := Paginate(context.Background(), req, store.content, store.count)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument), "got %v", err)
		assert.Equal(t, 0, store.contentCalls)
		assert.Equal(t, 0, store.countCalls)
	}
}

func TestPaginate_ContentFailure(t *testing.T) {
	cause := errors.New("connection reset")
	store := &fakeStore{total: 4, contentErr: cause}
	_, err := Paginate(context.Background(), types.NewPageRequest(0, 3), store.content, store.count)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataAccess))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 0, store.countCalls)
}

func TestPaginate_CountFailureIsNotZero(t *testing.T) {
	cause := errors.New("count timed out")
	store := &fakeStore{total: 4, countErr: cause}
	page, err := Paginate(context.Background(), types.NewPageRequest(0, 3), store.content, store.count)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, errors.Is(err, types.ErrDataAccess))

	var dae *types.DataAccessError
	require.True(t, errors.As(err, &dae))
	assert.Equal(t, "count query", dae.Op)
	assert.Same(t, cause, errors.Unwrap(err))
}
