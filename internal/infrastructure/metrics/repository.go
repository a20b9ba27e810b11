package metrics

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
)

// Repository records RepositoryOperationsTotal and RepositoryOperationDuration
// around every call of the wrapped repository.
type Repository[T any] struct {
	inner      ports.Repository[T]
	collection string
}

func NewRepository[T any](inner ports.Repository[T], collection string) *Repository[T] {
	return &Repository[T]{inner: inner, collection: collection}
}

func (r *Repository[T]) observe(op string, start time.Time, err error) {
	RepositoryOperationsTotal.WithLabelValues(r.collection, op, Result(err)).Inc()
	RepositoryOperationDuration.WithLabelValues(r.collection, op).Observe(time.Since(start).Seconds())
}

func (r *Repository[T]) Create(ctx context.Context, entity T) (string, error) {
	start := time.Now()
	id, err := r.inner.Create(ctx, entity)
	r.observe("create", start, err)
	return id, err
}

func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, error) {
	start := time.Now()
	doc, err := r.inner.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	return doc, err
}

func (r *Repository[T]) FindOne(ctx context.Context, p ports.Predicate[T]) (T, error) {
	start := time.Now()
	doc, err := r.inner.FindOne(ctx, p)
	r.observe("find_one", start, err)
	return doc, err
}

// FindAll is observed once per scan, when the consumer stops pulling.
func (r *Repository[T]) FindAll(ctx context.Context, p ports.Predicate[T]) iter.Seq2[T, error] {
	seq := r.inner.FindAll(ctx, p)
	return func(yield func(T, error) bool) {
		start := time.Now()
		var (
			scanErr error
			n       int
		)
		defer func() {
			RepositoryScanDocuments.WithLabelValues(r.collection).Add(float64(n))
			r.observe("find_all", start, scanErr)
		}()
		for doc, err := range seq {
			if err != nil {
				scanErr = err
			} else {
				n++
			}
			if !yield(doc, err) {
				return
			}
		}
	}
}

func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	start := time.Now()
	err := r.inner.Update(ctx, entity)
	r.observe("update", start, err)
	return err
}

func (r *Repository[T]) Delete(ctx context.Context, entity T) error {
	start := time.Now()
	err := r.inner.Delete(ctx, entity)
	r.observe("delete", start, err)
	return err
}

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrDuplicateID):
		return "duplicate"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
