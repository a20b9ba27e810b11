// Package memory is an in-process Repository used by tests and by
// STORE_DRIVER=memory. Documents are held as BSON so every read and write
// hands out an independent copy, exactly like a round trip to the server.
package memory

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/pkg/ids"
)

type Repository[T any, P domain.DocumentType[T]] struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

var (
	_ ports.Repository[*domain.Account] = (*Repository[domain.Account, *domain.Account])(nil)
	_ ports.Repository[*domain.Role]    = (*Repository[domain.Role, *domain.Role])(nil)
)

func NewRepository[T any, P domain.DocumentType[T]]() *Repository[T, P] {
	return &Repository[T, P]{docs: make(map[string][]byte)}
}

func (r *Repository[T, P]) Create(ctx context.Context, entity P) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prevID, prevRev := entity.DocumentID(), entity.Revision()
	restore := func() {
		entity.SetDocumentID(prevID)
		entity.SetRevision(prevRev)
	}
	if prevID == "" {
		entity.SetDocumentID(ids.New())
	}
	if prevRev == "" {
		entity.SetRevision(uuid.NewString())
	}
	raw, err := bson.Marshal(entity)
	if err != nil {
		restore()
		return "", fmt.Errorf("memory encode: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.DocumentID()
	if _, exists := r.docs[id]; exists {
		restore()
		return "", domain.ErrDuplicateID
	}
	r.docs[id] = raw
	r.order = append(r.order, id)
	return id, nil
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	raw, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode[T, P](raw)
}

func (r *Repository[T, P]) FindOne(ctx context.Context, p ports.Predicate[P]) (P, error) {
	for doc, err := range r.FindAll(ctx, p) {
		return doc, err
	}
	return nil, domain.ErrNotFound
}

// FindAll snapshots the collection on the first pull and yields matches in
// insertion order.
func (r *Repository[T, P]) FindAll(ctx context.Context, p ports.Predicate[P]) iter.Seq2[P, error] {
	return func(yield func(P, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		for _, raw := range r.snapshot() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			doc, err := decode[T, P](raw)
			if err != nil {
				yield(nil, err)
				return
			}
			if !p.Matches(doc) {
				continue
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

func (r *Repository[T, P]) Update(ctx context.Context, entity P) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.DocumentID()
	stored, ok := r.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	current, err := decode[T, P](stored)
	if err != nil {
		return err
	}
	if current.Revision() != entity.Revision() {
		return domain.ErrConcurrencyConflict
	}

	prev := entity.Revision()
	entity.SetRevision(uuid.NewString())
	raw, err := bson.Marshal(entity)
	if err != nil {
		entity.SetRevision(prev)
		return fmt.Errorf("memory encode: %w", err)
	}
	r.docs[id] = raw
	return nil
}

func (r *Repository[T, P]) Delete(ctx context.Context, entity P) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.DocumentID()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored documents.
func (r *Repository[T, P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

func (r *Repository[T, P]) snapshot() [][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][]byte, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out
}

func decode[T any, P domain.DocumentType[T]](raw []byte) (P, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory decode: %w", err)
	}
	return P(&doc), nil
}
