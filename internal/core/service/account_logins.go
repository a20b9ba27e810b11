package service

import (
	"context"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// AddLogin links an external login. Duplicate (provider, key) pairs are
// not rejected here.
func (s *AccountStore[A, P]) AddLogin(ctx context.Context, account P, login *domain.Login) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if login == nil {
		return domain.ArgumentNil("login")
	}
	a.Logins = append(a.Logins, *login)
	return nil
}

// RemoveLogin unlinks every login matching both provider and key.
func (s *AccountStore[A, P]) RemoveLogin(ctx context.Context, account P, provider, providerKey string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	kept := make([]domain.Login, 0, len(a.Logins))
	for _, l := range a.Logins {
		if l.Provider == provider && l.ProviderKey == providerKey {
			continue
		}
		kept = append(kept, l)
	}
	a.Logins = kept
	return nil
}

func (s *AccountStore[A, P]) Logins(ctx context.Context, account P) ([]domain.Login, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Login, len(a.Logins))
	copy(out, a.Logins)
	return out, nil
}

// FindByLogin returns the first account linked to (provider, key), or nil.
func (s *AccountStore[A, P]) FindByLogin(ctx context.Context, provider, providerKey string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return absentIfNotFound(s.repo.FindOne(ctx, hasLogin[A, P](provider, providerKey)))
}
