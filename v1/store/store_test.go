package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/agentmem/v1/collection"
	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(DefaultConfig().WithPath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewRequiresPathOrDB(t *testing.T) {
	_, err := New(Config{})
	require.True(t, errs.IsInitializationError(err), "got %v", err)
}

func TestNewCreatesStoreDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mem")
	s, err := New(DefaultConfig().WithPath(path))
	require.NoError(t, err)
	defer s.Close()
	require.DirExists(t, path)
}

func TestGetOrCreateCollectionCaches(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)

	second, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)
	require.Same(t, first, second, "repeated calls must return the cached collection")
}

func TestGetOrCreateCollectionRecreate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)
	_, err = first.Add(ctx, map[string]interface{}{
		schema.FieldVector:  []float32{1, 0},
		schema.FieldContent: "stale",
	})
	require.NoError(t, err)

	fresh, err := s.GetOrCreateCollection(ctx,
		collection.Config{Name: "notes", VectorDimension: 2, Recreate: true})
	require.NoError(t, err)
	require.NotSame(t, first, fresh)

	n, err := fresh.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestGetOrCreateCollectionConcurrent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const goroutines = 16
	out := make([]*collection.Collection, goroutines)
	errors := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i], errors[i] = s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errors[i])
	}
	for i := 1; i < goroutines; i++ {
		require.Same(t, out[0], out[i], "all goroutines must observe one collection")
	}
}

func TestGetCollectionReportsAbsence(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.GetCollection(ctx, "notes")
	require.NoError(t, err)
	require.Nil(t, got, "an uninitialized collection reports as absent, not as an error")

	created, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)

	got, err = s.GetCollection(ctx, "notes")
	require.NoError(t, err)
	require.Same(t, created, got)
}

func TestGetCollectionOnDiskButNotInitialized(t *testing.T) {
	path := t.TempDir()
	ctx := context.Background()

	s, err := New(DefaultConfig().WithPath(path))
	require.NoError(t, err)
	_, err = s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// The table persisted, but this process never opened it.
	s, err = New(DefaultConfig().WithPath(path))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetCollection(ctx, "notes")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListCollections(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	for _, name := range []string{"beta", "alpha"} {
		_, err := s.GetOrCreateCollection(ctx, collection.Config{Name: name, VectorDimension: 2})
		require.NoError(t, err)
	}

	names, err = s.ListCollections(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, names)
}

func TestDeleteCollectionIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)

	ok, err := s.DeleteCollection(ctx, "notes")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.DeleteCollection(ctx, "notes")
	require.NoError(t, err)
	require.True(t, ok, "deleting an absent collection is accepted")

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	got, err := s.GetCollection(ctx, "notes")
	require.NoError(t, err)
	require.Nil(t, got, "deleted collection must leave the registry")
}

func TestCollectionsSurviveReopen(t *testing.T) {
	path := t.TempDir()
	ctx := context.Background()

	s, err := New(DefaultConfig().WithPath(path))
	require.NoError(t, err)
	c, err := s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)
	id, err := c.Add(ctx, map[string]interface{}{
		schema.FieldVector:  []float32{1, 0},
		schema.FieldContent: "persisted",
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(DefaultConfig().WithPath(path))
	require.NoError(t, err)
	defer s.Close()

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"notes"}, names)

	c, err = s.GetOrCreateCollection(ctx, collection.Config{Name: "notes", VectorDimension: 2})
	require.NoError(t, err)
	got, err := c.GetByID(ctx, id, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "persisted", got[schema.FieldContent])
}
