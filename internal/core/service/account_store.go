package service

import (
	"context"
	"errors"
	"iter"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/pkg/ids"
)

// Reserved token pairs holding derived two-factor state.
const (
	InternalLoginProvider     = "InternalProvider"
	AuthenticatorKeyTokenName = "AuthenticatorKey"
	RecoveryCodeTokenName     = "RecoveryCodes"
)

// AccountStore maps account capabilities onto a single account document.
//
// Mutators only change the in-memory aggregate; callers persist with
// Update. Every method checks ctx before touching state. The store keeps
// no per-aggregate state, but one aggregate instance must not be mutated
// from several goroutines at once.
type AccountStore[A any, P domain.AccountType[A]] struct {
	repo ports.Repository[P]
	log  zerolog.Logger
}

// NewAccountStore returns a store persisting accounts through repo.
func NewAccountStore[A any, P domain.AccountType[A]](repo ports.Repository[P], log zerolog.Logger) *AccountStore[A, P] {
	return &AccountStore[A, P]{repo: repo, log: log.With().Str("component", "account_store").Logger()}
}

var (
	_ ports.UserClaimStore[*domain.Account]                 = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserLoginStore[*domain.Account]                 = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserPasswordStore[*domain.Account]              = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserSecurityStampStore[*domain.Account]         = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserEmailStore[*domain.Account]                 = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserLockoutStore[*domain.Account]               = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserPhoneNumberStore[*domain.Account]           = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.QueryableUserStore[*domain.Account]             = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserTwoFactorStore[*domain.Account]             = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserAuthenticationTokenStore[*domain.Account]   = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserAuthenticatorKeyStore[*domain.Account]      = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserTwoFactorRecoveryCodeStore[*domain.Account] = (*AccountStore[domain.Account, *domain.Account])(nil)
	_ ports.UserRoleStore[*domain.Account]                  = (*AccountStore[domain.Account, *domain.Account])(nil)
)

// validate checks cancellation first, then that the aggregate is present.
func (s *AccountStore[A, P]) validate(ctx context.Context, account P) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ArgumentNil("account")
	}
	return account.AccountRef(), nil
}

func (s *AccountStore[A, P]) AccountID(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *AccountStore[A, P]) UserName(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.UserName, nil
}

func (s *AccountStore[A, P]) SetUserName(ctx context.Context, account P, userName string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.UserName = userName
	return nil
}

func (s *AccountStore[A, P]) NormalizedUserName(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.NormalizedUserName, nil
}

func (s *AccountStore[A, P]) SetNormalizedUserName(ctx context.Context, account P, normalizedName string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.NormalizedUserName = normalizedName
	return nil
}

// Create persists a new account, assigning an id first when it has none.
// A failed create leaves the id and revision as they were before the call.
func (s *AccountStore[A, P]) Create(ctx context.Context, account P) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	id, rev := a.ID, a.ConcurrencyStamp
	if a.ID == "" {
		a.ID = ids.New()
	}
	if _, err := s.repo.Create(ctx, account); err != nil {
		a.ID, a.ConcurrencyStamp = id, rev
		return err
	}
	s.log.Debug().Str("account_id", a.ID).Msg("account created")
	return nil
}

func (s *AccountStore[A, P]) Update(ctx context.Context, account P) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	s.log.Debug().Str("account_id", a.ID).Msg("account updated")
	return nil
}

func (s *AccountStore[A, P]) Delete(ctx context.Context, account P) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, account); err != nil {
		return err
	}
	s.log.Debug().Str("account_id", a.ID).Msg("account deleted")
	return nil
}

// FindByID returns nil, nil when no account has the id.
func (s *AccountStore[A, P]) FindByID(ctx context.Context, id string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return absentIfNotFound(s.repo.FindByID(ctx, id))
}

// FindByName looks an account up by normalized user name. An empty name
// matches no account.
func (s *AccountStore[A, P]) FindByName(ctx context.Context, normalizedUserName string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if normalizedUserName == "" {
		return nil, nil
	}
	return absentIfNotFound(s.repo.FindOne(ctx, byNormalizedUserName[A, P](normalizedUserName)))
}

// Accounts streams every stored account.
func (s *AccountStore[A, P]) Accounts(ctx context.Context) iter.Seq2[P, error] {
	if err := ctx.Err(); err != nil {
		return failed[P](err)
	}
	return s.repo.FindAll(ctx, ports.All[P]())
}

// absentIfNotFound turns the repository's not-found failure into a nil result.
func absentIfNotFound[T any](v T, err error) (T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		var zero T
		return zero, nil
	}
	return v, err
}

// failed is a scan that yields err and stops.
func failed[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// collect drains a scan into a slice, stopping at the first error.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
