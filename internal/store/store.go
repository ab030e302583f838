// Package store holds the session's recipe collection and hands out
// accessors to it.
//
// There is exactly one Store per process. The root creates it and injects it
// into request contexts with WithStore; consumers obtain an Accessor with
// From. Every Accessor points at the same live Store, so an append made
// through one is visible through all others.
package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/db"
	"github.com/hpungsan/hmchef/internal/recipe"
)

// Store is the in-memory recipe collection for one application session.
type Store struct {
	db     *sql.DB
	logger *zap.Logger

	// mu serializes appends so id assignment and notification happen in
	// insertion order.
	mu   sync.Mutex
	next int

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// New creates a Store over an open session database.
func New(database *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     database,
		logger: logger,
		subs:   make(map[int]chan struct{}),
	}
}

// Open creates a Store backed by a fresh in-memory database.
// Close releases it and discards every recipe.
func Open(logger *zap.Logger) (*Store, error) {
	database, err := db.Open()
	if err != nil {
		return nil, err
	}
	return New(database, logger), nil
}

// Close closes every subscription and the underlying database.
func (s *Store) Close() error {
	s.subMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()
	return s.db.Close()
}

// Get returns the current collection in insertion order.
func (s *Store) Get(ctx context.Context) ([]recipe.Recipe, error) {
	return db.ListAll(ctx, s.db)
}

// Len returns the number of recipes in the collection.
func (s *Store) Len(ctx context.Context) (int, error) {
	return db.Count(ctx, s.db)
}

// Append adds r at the end of the collection and notifies subscribers.
// The stored recipe gets the next sequence number as its ID, which equals the
// collection length before the append; any ID set by the caller is replaced.
func (s *Store) Append(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	s.mu.Lock()
	r.ID = s.next
	if err := db.Insert(ctx, s.db, r, time.Now().Unix()); err != nil {
		s.mu.Unlock()
		return recipe.Recipe{}, err
	}
	s.next++
	s.mu.Unlock()

	s.logger.Debug("recipe appended", zap.Int("id", r.ID), zap.String("title", r.Title))
	s.notify()
	return r, nil
}

// Subscribe registers for change notifications. The channel receives a value
// after every append; signals coalesce while the receiver is busy. The
// returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
			}
		})
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Accessor returns a handle on this store.
func (s *Store) Accessor() Accessor {
	return Accessor{store: s}
}
