// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query implements the generic filter → sort → paginate pipeline
// applied to an in-memory snapshot of a collection. The pipeline is a
// full scan on every call; cost is O(collection size) regardless of
// filter selectivity, which is acceptable at single-tenant scale.
package query

import (
	"sort"
	"strings"
	"time"
)

// Order is the sort direction for a query.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder normalizes a raw sort-order string, defaulting to ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

// DefaultLimit is the page size used when the caller passes limit <= 0.
const DefaultLimit = 20

// Pagination describes the page window of a result. Total counts the
// filtered set before the window was applied; it is recomputed from
// scratch on every call, never cached.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Result holds one page of items plus its pagination metadata.
type Result[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Options configures one pipeline run.
type Options[T any] struct {
	// Filters narrow the candidate set; they compose with logical AND.
	// A nil or empty slice imposes no constraint.
	Filters []func(T) bool

	// Less orders two items ascending by the selected sort key. When nil
	// the snapshot order is kept. Sorting is stable: ties keep whatever
	// order the underlying snapshot had.
	Less  func(a, b T) bool
	Order Order

	Page  int // 1-based; values < 1 are clamped to 1
	Limit int // page size; values <= 0 fall back to DefaultLimit
}

// Run applies filters, then the sort, then the page window, in that fixed
// order. An out-of-range page yields an empty slice, not an error.
func Run[T any](items []T, opts Options[T]) Result[T] {
	filtered := items
	if len(opts.Filters) > 0 {
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if matchAll(item, opts.Filters) {
				filtered = append(filtered, item)
			}
		}
	}

	if opts.Less != nil {
		sorted := make([]T, len(filtered))
		copy(sorted, filtered)
		less := opts.Less
		if opts.Order == OrderDesc {
			less = func(a, b T) bool { return opts.Less(b, a) }
		}
		sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
		filtered = sorted
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items: filtered[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func matchAll[T any](item T, filters []func(T) bool) bool {
	for _, f := range filters {
		if !f(item) {
			return false
		}
	}
	return true
}

// Map transforms a result's items while keeping its pagination metadata.
// Used by the enrichment step, which runs after pagination so its cost is
// bounded by page size.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	items := make([]U, len(r.Items))
	for i, item := range r.Items {
		items[i] = fn(item)
	}
	return Result[U]{Items: items, Pagination: r.Pagination}
}

// Contains reports whether s contains needle, case-insensitively.
// An empty needle matches everything.
func Contains(s, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
}

// WithinRange reports whether t falls inside the inclusive [from, to]
// range. A nil bound imposes no constraint on that side.
func WithinRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// Intersects reports whether the two id sets share at least one element.
func Intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// CompareTimes orders two timestamps ascending by epoch value, treating
// nil as earlier than any set value.
func CompareTimes(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}
