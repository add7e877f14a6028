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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSearchObserver(t *testing.T) {
	obs := NewSearchObserver("metrics_test")

	obs.CountIssued()
	obs.CountSkipped()
	obs.CountSkipped()
	obs.QueryFailed("count query")

	assert.Equal(t, 1.0, testutil.ToFloat64(CountDecisionsTotal.WithLabelValues("metrics_test", "issued")))
	assert.Equal(t, 2.0, testutil.ToFloat64(CountDecisionsTotal.WithLabelValues("metrics_test", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(QueryErrorsTotal.WithLabelValues("metrics_test", "count query")))
}
