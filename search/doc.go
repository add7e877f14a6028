// Package search composes optional member search filters into a single
// predicate and pages query results, skipping the total-count query when the
// content page already determines the total.
package search
