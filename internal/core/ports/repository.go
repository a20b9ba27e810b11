package ports

import (
	"context"
	"iter"
)

// Condition is a single field equality inside an embedded array element.
type Condition struct {
	Field string
	Value any
}

// Predicate selects aggregates for FindOne/FindAll.
//
// The declarative part (Path, Equal, Elem) is what a storage engine
// evaluates server-side:
//   - Path empty: matches every document.
//   - Elem empty: Path equals Equal; when Path is an array of scalars any
//     element may match.
//   - Elem set: some element of the array at Path satisfies every condition.
//
// Match is the same predicate evaluated in-process over the aggregate.
type Predicate[T any] struct {
	Path  string
	Equal any
	Elem  []Condition
	Match func(T) bool
}

// Matches evaluates the in-process form. A predicate without Match accepts everything.
func (p Predicate[T]) Matches(v T) bool {
	if p.Match == nil {
		return true
	}
	return p.Match(v)
}

// All returns a predicate matching every aggregate.
func All[T any]() Predicate[T] {
	return Predicate[T]{}
}

// Repository is the storage contract the identity stores depend on.
// Every call may block on I/O and must honour ctx.
type Repository[T any] interface {
	// Create persists a new aggregate and returns its id. Fails with
	// domain.ErrDuplicateID when the id is taken.
	Create(ctx context.Context, entity T) (string, error)
	// FindByID returns domain.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (T, error)
	// FindOne returns the first match or domain.ErrNotFound.
	FindOne(ctx context.Context, p Predicate[T]) (T, error)
	// FindAll streams every match. The sequence is single-use; an error
	// ends it after being yielded once.
	FindAll(ctx context.Context, p Predicate[T]) iter.Seq2[T, error]
	// Update replaces the stored aggregate. Fails with domain.ErrNotFound
	// or domain.ErrConcurrencyConflict.
	Update(ctx context.Context, entity T) error
	// Delete removes the aggregate. Fails with domain.ErrNotFound.
	Delete(ctx context.Context, entity T) error
}
