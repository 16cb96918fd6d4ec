// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"
)

// BulkResult reports the outcome of one id within a bulk operation.
type BulkResult struct {
	ID  string
	Err error
}

// Ok reports whether the operation succeeded for this id.
func (r BulkResult) Ok() bool {
	return r.Err == nil
}

// bulkApply runs fn for every id concurrently and waits for all of them.
// Each id succeeds or fails independently; the returned slice is ordered
// like ids, one result per id. There is no rollback and no transaction
// spanning ids — bulk operations are best-effort with a full report.
func bulkApply(ctx context.Context, ids []string, fn func(context.Context, string) error) []BulkResult {
	results := make([]BulkResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = BulkResult{ID: id, Err: fn(ctx, id)}
		}(i, id)
	}
	wg.Wait()

	return results
}

// BulkFailures filters a bulk report down to the ids that failed.
func BulkFailures(results []BulkResult) []BulkResult {
	var failed []BulkResult
	for _, r := range results {
		if !r.Ok() {
			failed = append(failed, r)
		}
	}
	return failed
}
