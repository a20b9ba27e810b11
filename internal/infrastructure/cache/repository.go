package cache

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/infrastructure/metrics"
)

// Repository is a read-through cache over another Repository. Only id
// lookups are cached; predicate scans always reach the inner repository.
// A failing cache never fails the call, it is logged and bypassed.
type Repository[T any, P domain.DocumentType[T]] struct {
	inner     ports.Repository[P]
	cache     Cache
	namespace string
	ttl       time.Duration
	log       zerolog.Logger

	mu    sync.Mutex
	fills map[string]*fill
}

// fill tracks in-flight read-through loads of one key. An eviction that
// lands while a load is in flight marks it stale so the load does not
// write back a copy older than the eviction.
type fill struct {
	pending int
	stale   bool
}

func NewRepository[T any, P domain.DocumentType[T]](
	inner ports.Repository[P],
	c Cache,
	namespace string,
	ttl time.Duration,
	log zerolog.Logger,
) *Repository[T, P] {
	return &Repository[T, P]{
		inner:     inner,
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		log:       log.With().Str("component", "cache").Str("namespace", namespace).Logger(),
		fills:     make(map[string]*fill),
	}
}

func (r *Repository[T, P]) key(id string) string {
	return r.namespace + ":" + id
}

func (r *Repository[T, P]) Create(ctx context.Context, entity P) (string, error) {
	return r.inner.Create(ctx, entity)
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	raw, err := r.cache.Get(ctx, r.key(id))
	switch {
	case err == nil:
		metrics.CacheLookupsTotal.WithLabelValues(r.namespace, "hit").Inc()
		var doc T
		decodeErr := bson.Unmarshal(raw, &doc)
		if decodeErr == nil {
			return P(&doc), nil
		}
		r.log.Warn().Err(decodeErr).Str("id", id).Msg("dropping undecodable cache entry")
		r.evict(ctx, id)
	case errors.Is(err, ErrMiss):
		metrics.CacheLookupsTotal.WithLabelValues(r.namespace, "miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues(r.namespace, "error").Inc()
		r.log.Warn().Err(err).Str("id", id).Msg("cache read failed")
	}

	f := r.beginFill(id)
	entity, err := r.inner.FindByID(ctx, id)
	if err != nil {
		r.endFill(ctx, id, f, nil)
		return entity, err
	}
	raw, err = bson.Marshal(entity)
	if err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("cache encode failed")
		raw = nil
	}
	r.endFill(ctx, id, f, raw)
	return entity, nil
}

func (r *Repository[T, P]) beginFill(id string) *fill {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fills[id]
	if !ok {
		f = &fill{}
		r.fills[id] = f
	}
	f.pending++
	return f
}

// endFill writes raw back unless an eviction for id landed since beginFill.
// The write happens under the lock so it cannot interleave with the stale mark.
func (r *Repository[T, P]) endFill(ctx context.Context, id string, f *fill, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.pending--
	if f.pending == 0 {
		delete(r.fills, id)
	}
	if raw == nil || f.stale {
		return
	}
	if err := r.cache.Set(ctx, r.key(id), raw, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("cache write failed")
	}
}

func (r *Repository[T, P]) FindOne(ctx context.Context, p ports.Predicate[P]) (P, error) {
	return r.inner.FindOne(ctx, p)
}

func (r *Repository[T, P]) FindAll(ctx context.Context, p ports.Predicate[P]) iter.Seq2[P, error] {
	return r.inner.FindAll(ctx, p)
}

// Update evicts whatever the outcome: a conflict means the cached copy is stale too.
func (r *Repository[T, P]) Update(ctx context.Context, entity P) error {
	err := r.inner.Update(ctx, entity)
	r.evict(ctx, entity.DocumentID())
	return err
}

func (r *Repository[T, P]) Delete(ctx context.Context, entity P) error {
	err := r.inner.Delete(ctx, entity)
	r.evict(ctx, entity.DocumentID())
	return err
}

func (r *Repository[T, P]) evict(ctx context.Context, id string) {
	r.mu.Lock()
	if f, ok := r.fills[id]; ok {
		f.stale = true
	}
	r.mu.Unlock()
	if err := r.cache.Delete(context.WithoutCancel(ctx), r.key(id)); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("cache evict failed")
	}
}
