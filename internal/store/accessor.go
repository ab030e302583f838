package store

import (
	"context"
	"sync"

	"github.com/hpungsan/hmchef/internal/recipe"
)

// Accessor is the read/append handle a consumer uses. The zero Accessor is
// not bound to any store: Recipes returns an empty collection and Append does
// nothing. Neither ever fails.
type Accessor struct {
	store *Store
}

// Bound reports whether the accessor points at a live store.
func (a Accessor) Bound() bool {
	return a.store != nil
}

// Recipes returns the live collection.
func (a Accessor) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	if a.store == nil {
		return []recipe.Recipe{}, nil
	}
	return a.store.Get(ctx)
}

// Append adds r to the live collection and returns it as stored.
// On an unbound accessor it returns r unchanged.
func (a Accessor) Append(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	if a.store == nil {
		return r, nil
	}
	return a.store.Append(ctx, r)
}

// Subscribe forwards to the store. On an unbound accessor the channel never
// fires and is closed by the returned func.
func (a Accessor) Subscribe() (<-chan struct{}, func()) {
	if a.store == nil {
		ch := make(chan struct{})
		var once sync.Once
		return ch, func() { once.Do(func() { close(ch) }) }
	}
	return a.store.Subscribe()
}

type ctxKey struct{}

// WithStore returns a context carrying s. The store pointer itself travels in
// the context, never a snapshot of its contents.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// From returns an Accessor for the store carried by ctx, or the zero
// Accessor when none was injected.
func From(ctx context.Context) Accessor {
	if ctx == nil {
		return Accessor{}
	}
	s, _ := ctx.Value(ctxKey{}).(*Store)
	return Accessor{store: s}
}
