package store

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/agentmem/v1/collection"
	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/observability"
	"github.com/Aleph-Alpha/agentmem/v1/sqlite"
)

// Store owns one engine connection and a registry of the collections
// opened through it. All registry accesses are mutex-guarded, so a
// Store is safe for concurrent use and concurrent GetOrCreateCollection
// calls for the same name yield the same *collection.Collection.
type Store struct {
	db       engine.DB
	ownsDB   bool
	logger   Logger
	observer observability.Observer

	mu          sync.Mutex
	collections map[string]*collection.Collection
}

// New opens a store. Without an explicit engine connection the bundled
// embedded engine is opened at cfg.Path, creating the directory when
// missing.
func New(cfg Config) (*Store, error) {
	s := &Store{
		db:          cfg.DB,
		logger:      cfg.Logger,
		observer:    cfg.Observer,
		collections: make(map[string]*collection.Collection),
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.db == nil {
		if cfg.Path == "" {
			return nil, errs.Initializationf("store: a path or an engine connection must be provided")
		}
		db, err := sqlite.Connect(cfg.Path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInitialization, err,
				"store: failed to open engine at %q", cfg.Path)
		}
		s.db = db
		s.ownsDB = true
		s.logger.Info("opened store", nil, map[string]interface{}{"path": cfg.Path})
	}
	return s, nil
}

// DB exposes the underlying engine connection.
func (s *Store) DB() engine.DB { return s.db }

// GetOrCreateCollection returns the cached collection of that name, or
// opens (creating if needed) a new one from cfg. With cfg.Recreate set
// the cache is bypassed and the collection is rebuilt from scratch.
// Collections inherit the store's logger and observer unless cfg sets
// its own.
func (s *Store) GetOrCreateCollection(ctx context.Context, cfg collection.Config) (*collection.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !cfg.Recreate {
		if c, ok := s.collections[cfg.Name]; ok {
			return c, nil
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	if cfg.Observer == nil {
		cfg.Observer = s.observer
	}
	c, err := collection.New(ctx, s.db, cfg)
	if err != nil {
		return nil, err
	}
	s.collections[cfg.Name] = c
	return c, nil
}

// GetCollection returns an already-initialized collection from the
// registry, or nil when the name is not registered. Tables that exist
// on disk but were never opened in this process report as absent: their
// embedding wiring and schema options live only in the collection
// config, so they must go through GetOrCreateCollection first.
func (s *Store) GetCollection(ctx context.Context, name string) (*collection.Collection, error) {
	s.mu.Lock()
	c, ok := s.collections[name]
	s.mu.Unlock()
	if ok {
		return c, nil
	}

	names, err := s.db.TableNames(ctx)
	if err == nil {
		for _, n := range names {
			if n == name {
				s.logger.Warn("collection exists in storage but was not initialized in this process", nil,
					map[string]interface{}{"collection": name})
				break
			}
		}
	}
	return nil, nil
}

// ListCollections lists the collection names present in storage,
// including ones not opened by this process.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.db.TableNames(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrOperation, err, "store: failed to list collections")
	}
	return names, nil
}

// DeleteCollection drops a collection and its entries. Deleting an
// absent collection is not an error; the return value reports whether
// the call was accepted, matching the engine's idempotent drop.
func (s *Store) DeleteCollection(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	delete(s.collections, name)
	s.mu.Unlock()

	if err := s.db.DropTable(ctx, name); err != nil {
		return false, errs.Wrap(errs.ErrOperation, err,
			"store: failed to delete collection %q", name)
	}
	s.observe("delete_collection", name, nil)
	s.logger.Info("deleted collection", nil, map[string]interface{}{"collection": name})
	return true, nil
}

// Close releases the engine connection when the store opened it itself.
// Caller-supplied connections stay open.
func (s *Store) Close() error {
	s.mu.Lock()
	s.collections = make(map[string]*collection.Collection)
	s.mu.Unlock()

	if !s.ownsDB {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errs.Wrap(errs.ErrOperation, err, "store: failed to close engine")
	}
	return nil
}

func (s *Store) observe(operation, resource string, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "store",
		Operation: operation,
		Resource:  resource,
		Error:     err,
	})
}
