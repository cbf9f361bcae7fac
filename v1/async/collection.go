package async

import (
	"context"

	"github.com/Aleph-Alpha/agentmem/v1/collection"
	"github.com/Aleph-Alpha/agentmem/v1/filter"
)

// Collection is the non-blocking facade over a synchronous collection.
// Every method mirrors its synchronous counterpart exactly, dispatching
// the call to the pool and returning a future. All validation and error
// semantics live in the wrapped collection.
type Collection struct {
	pool *Pool
	c    *collection.Collection
}

// NewCollection wraps a collection with the given pool.
func NewCollection(pool *Pool, c *collection.Collection) *Collection {
	return &Collection{pool: pool, c: c}
}

// Sync returns the wrapped synchronous collection.
func (a *Collection) Sync() *collection.Collection { return a.c }

// Add dispatches Collection.Add.
func (a *Collection) Add(ctx context.Context, fields map[string]interface{}) *Future[string] {
	return Submit(ctx, a.pool, func(ctx context.Context) (string, error) {
		return a.c.Add(ctx, fields)
	})
}

// AddBatch dispatches Collection.AddBatch.
func (a *Collection) AddBatch(ctx context.Context, batch []map[string]interface{}) *Future[[]string] {
	return Submit(ctx, a.pool, func(ctx context.Context) ([]string, error) {
		return a.c.AddBatch(ctx, batch)
	})
}

// Query dispatches Collection.Query.
func (a *Collection) Query(ctx context.Context, req collection.QueryRequest) *Future[[]map[string]interface{}] {
	return Submit(ctx, a.pool, func(ctx context.Context) ([]map[string]interface{}, error) {
		return a.c.Query(ctx, req)
	})
}

// GetByID dispatches Collection.GetByID.
func (a *Collection) GetByID(ctx context.Context, id string, selectColumns []string) *Future[map[string]interface{}] {
	return Submit(ctx, a.pool, func(ctx context.Context) (map[string]interface{}, error) {
		return a.c.GetByID(ctx, id, selectColumns)
	})
}

// Delete dispatches Collection.Delete.
func (a *Collection) Delete(ctx context.Context, id string, cond filter.Condition) *Future[int] {
	return Submit(ctx, a.pool, func(ctx context.Context) (int, error) {
		return a.c.Delete(ctx, id, cond)
	})
}

// Count dispatches Collection.Count.
func (a *Collection) Count(ctx context.Context, where string) *Future[int] {
	return Submit(ctx, a.pool, func(ctx context.Context) (int, error) {
		return a.c.Count(ctx, where)
	})
}

// Len dispatches Collection.Len.
func (a *Collection) Len(ctx context.Context) *Future[int] {
	return Submit(ctx, a.pool, func(ctx context.Context) (int, error) {
		return a.c.Len(ctx)
	})
}

// Prune dispatches Collection.Prune.
func (a *Collection) Prune(ctx context.Context, spec filter.PruneSpec, dryRun bool) *Future[int] {
	return Submit(ctx, a.pool, func(ctx context.Context) (int, error) {
		return a.c.Prune(ctx, spec, dryRun)
	})
}
