package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/pkg/ids"
)

// Repository stores one aggregate per document in a single collection.
// Embedded claims, logins, tokens and roles travel with the document.
type Repository[T any, P domain.DocumentType[T]] struct {
	col     *mongo.Collection
	timeout time.Duration
}

var (
	_ ports.Repository[*domain.Account] = (*Repository[domain.Account, *domain.Account])(nil)
	_ ports.Repository[*domain.Role]    = (*Repository[domain.Role, *domain.Role])(nil)
)

func NewRepository[T any, P domain.DocumentType[T]](col *mongo.Collection, timeout time.Duration) *Repository[T, P] {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Repository[T, P]{col: col, timeout: timeout}
}

// Create inserts a new document. A missing revision is initialised so later
// updates can be checked against it; both are put back if the insert fails.
func (r *Repository[T, P]) Create(ctx context.Context, entity P) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, rev := entity.DocumentID(), entity.Revision()
	if id == "" {
		entity.SetDocumentID(ids.New())
	}
	if rev == "" {
		entity.SetRevision(uuid.NewString())
	}

	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		entity.SetDocumentID(id)
		entity.SetRevision(rev)
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateID
		}
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	return entity.DocumentID(), nil
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	return r.findOne(ctx, byID(id))
}

func (r *Repository[T, P]) FindOne(ctx context.Context, p ports.Predicate[P]) (P, error) {
	return r.findOne(ctx, filterFor(p))
}

func (r *Repository[T, P]) findOne(ctx context.Context, filter any) (P, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc T
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return P(&doc), nil
}

// FindAll opens the cursor lazily, on the first pull. The timeout bounds the
// query round trip only; paging through the cursor follows ctx.
func (r *Repository[T, P]) FindAll(ctx context.Context, p ports.Predicate[P]) iter.Seq2[P, error] {
	filter := filterFor(p)
	return func(yield func(P, error) bool) {
		findCtx, cancel := context.WithTimeout(ctx, r.timeout)
		cur, err := r.col.Find(findCtx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		cancel()
		if err != nil {
			yield(nil, fmt.Errorf("mongo find: %w", err))
			return
		}
		defer cur.Close(context.WithoutCancel(ctx))

		for cur.Next(ctx) {
			var doc T
			if err := cur.Decode(&doc); err != nil {
				yield(nil, fmt.Errorf("mongo decode: %w", err))
				return
			}
			if !yield(P(&doc), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, fmt.Errorf("mongo cursor: %w", err))
		}
	}
}

// Update replaces the stored document if its revision still matches and
// rotates the revision on success.
func (r *Repository[T, P]) Update(ctx context.Context, entity P) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, prev := entity.DocumentID(), entity.Revision()
	entity.SetRevision(uuid.NewString())

	res, err := r.col.ReplaceOne(ctx, byRevision(id, prev), entity)
	if err != nil {
		entity.SetRevision(prev)
		return fmt.Errorf("mongo replace: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	entity.SetRevision(prev)
	n, err := r.col.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo count: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrencyConflict
}

func (r *Repository[T, P]) Delete(ctx context.Context, entity P) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, byID(entity.DocumentID()))
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
