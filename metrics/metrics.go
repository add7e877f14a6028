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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// CountDecisionsTotal counts, per search, whether the total-count query
	// ran ("issued") or was avoided ("skipped").
	CountDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_search_count_decisions_total",
			Help: "Total number of paginated searches by count query decision",
		},
		[]string{"search", "decision"},
	)
	// QueryErrorsTotal counts failed store queries by operation.
	QueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_search_query_errors_total",
			Help: "Total number of failed search queries",
		},
		[]string{"search", "op"},
	)
)

// SearchObserver records count decisions of one named search.
type SearchObserver struct {
	search string
}

func NewSearchObserver(search string) *SearchObserver {
	return &SearchObserver{search: search}
}

func (o *SearchObserver) CountIssued() {
	CountDecisionsTotal.WithLabelValues(o.search, "issued").Inc()
}

func (o *SearchObserver) CountSkipped() {
	CountDecisionsTotal.WithLabelValues(o.search, "skipped").Inc()
}

// QueryFailed records a failed store query.
func (o *SearchObserver) QueryFailed(op string) {
	QueryErrorsTotal.WithLabelValues(o.search, op).Inc()
}
