package service

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory spy repository
// ---------------------------------------------------------------------------

type stubRepo[T domain.Document] struct {
	docs  map[string]T
	order []string
	clone func(T) T
	calls int // every port call, including failed ones

	createErr error
	updateErr error
	deleteErr error
}

func newStubRepo[T domain.Document](clone func(T) T) *stubRepo[T] {
	return &stubRepo[T]{docs: make(map[string]T), clone: clone}
}

func (r *stubRepo[T]) Create(_ context.Context, entity T) (string, error) {
	r.calls++
	if r.createErr != nil {
		return "", r.createErr
	}
	id := entity.DocumentID()
	if _, exists := r.docs[id]; exists {
		return "", domain.ErrDuplicateID
	}
	r.docs[id] = r.clone(entity)
	r.order = append(r.order, id)
	return id, nil
}

func (r *stubRepo[T]) FindByID(_ context.Context, id string) (T, error) {
	r.calls++
	doc, ok := r.docs[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return r.clone(doc), nil
}

func (r *stubRepo[T]) FindOne(ctx context.Context, p ports.Predicate[T]) (T, error) {
	r.calls++
	for _, id := range r.order {
		if doc, ok := r.docs[id]; ok && p.Matches(doc) {
			return r.clone(doc), nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (r *stubRepo[T]) FindAll(_ context.Context, p ports.Predicate[T]) iter.Seq2[T, error] {
	r.calls++
	return func(yield func(T, error) bool) {
		for _, id := range r.order {
			doc, ok := r.docs[id]
			if !ok || !p.Matches(doc) {
				continue
			}
			if !yield(r.clone(doc), nil) {
				return
			}
		}
	}
}

func (r *stubRepo[T]) Update(_ context.Context, entity T) error {
	r.calls++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.docs[entity.DocumentID()]; !ok {
		return domain.ErrNotFound
	}
	r.docs[entity.DocumentID()] = r.clone(entity)
	return nil
}

func (r *stubRepo[T]) Delete(_ context.Context, entity T) error {
	r.calls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.docs[entity.DocumentID()]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, entity.DocumentID())
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Roles = domain.NewRoleSet(a.Roles.Names()...)
	c.Claims = append([]domain.Claim{}, a.Claims...)
	c.Logins = append([]domain.Login{}, a.Logins...)
	c.Tokens = append([]domain.Token{}, a.Tokens...)
	if a.LockoutEnd != nil {
		end := *a.LockoutEnd
		c.LockoutEnd = &end
	}
	return &c
}

func cloneRole(r *domain.Role) *domain.Role {
	if r == nil {
		return nil
	}
	c := *r
	c.Claims = append([]domain.Claim{}, r.Claims...)
	return &c
}

func newAccountStore() (*AccountStore[domain.Account, *domain.Account], *stubRepo[*domain.Account]) {
	repo := newStubRepo(cloneAccount)
	return NewAccountStore[domain.Account](repo, discardLogger), repo
}

func newRoleStore() (*RoleStore[domain.Role, *domain.Role], *stubRepo[*domain.Role]) {
	repo := newStubRepo(cloneRole)
	return NewRoleStore[domain.Role](repo, discardLogger), repo
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
