package async

import (
	"context"

	"github.com/Aleph-Alpha/agentmem/v1/collection"
	"github.com/Aleph-Alpha/agentmem/v1/store"
)

// Store is the non-blocking facade over a synchronous store. Collection
// handles returned by it share the store facade's pool.
type Store struct {
	pool *Pool
	s    *store.Store
}

// NewStore wraps a store with a pool of the given size.
func NewStore(s *store.Store, workers int) *Store {
	return &Store{pool: NewPool(workers), s: s}
}

// Sync returns the wrapped synchronous store.
func (a *Store) Sync() *store.Store { return a.s }

// GetOrCreateCollection dispatches Store.GetOrCreateCollection and wraps
// the result for asynchronous use.
func (a *Store) GetOrCreateCollection(ctx context.Context, cfg collection.Config) *Future[*Collection] {
	return Submit(ctx, a.pool, func(ctx context.Context) (*Collection, error) {
		c, err := a.s.GetOrCreateCollection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewCollection(a.pool, c), nil
	})
}

// GetCollection dispatches Store.GetCollection and wraps the result for
// asynchronous use. An unregistered name resolves to a nil handle.
func (a *Store) GetCollection(ctx context.Context, name string) *Future[*Collection] {
	return Submit(ctx, a.pool, func(ctx context.Context) (*Collection, error) {
		c, err := a.s.GetCollection(ctx, name)
		if err != nil || c == nil {
			return nil, err
		}
		return NewCollection(a.pool, c), nil
	})
}

// ListCollections dispatches Store.ListCollections.
func (a *Store) ListCollections(ctx context.Context) *Future[[]string] {
	return Submit(ctx, a.pool, func(ctx context.Context) ([]string, error) {
		return a.s.ListCollections(ctx)
	})
}

// DeleteCollection dispatches Store.DeleteCollection.
func (a *Store) DeleteCollection(ctx context.Context, name string) *Future[bool] {
	return Submit(ctx, a.pool, func(ctx context.Context) (bool, error) {
		return a.s.DeleteCollection(ctx, name)
	})
}

// Close releases the wrapped store synchronously. In-flight calls
// already dispatched may still fail against a closed engine; callers
// should drain their futures first.
func (a *Store) Close() error {
	return a.s.Close()
}
