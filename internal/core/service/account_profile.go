package service

import (
	"context"
	"time"
)

// Plain field accessors. None of them persist.

func (s *AccountStore[A, P]) SetPasswordHash(ctx context.Context, account P, passwordHash string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.PasswordHash = passwordHash
	return nil
}

func (s *AccountStore[A, P]) PasswordHash(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.PasswordHash, nil
}

func (s *AccountStore[A, P]) HasPassword(ctx context.Context, account P) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.PasswordHash != "", nil
}

func (s *AccountStore[A, P]) SetSecurityStamp(ctx context.Context, account P, stamp string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.SecurityStamp = stamp
	return nil
}

func (s *AccountStore[A, P]) SecurityStamp(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.SecurityStamp, nil
}

func (s *AccountStore[A, P]) SetEmail(ctx context.Context, account P, email string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.Email = email
	return nil
}

func (s *AccountStore[A, P]) Email(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.Email, nil
}

func (s *AccountStore[A, P]) EmailConfirmed(ctx context.Context, account P) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.EmailConfirmed, nil
}

func (s *AccountStore[A, P]) SetEmailConfirmed(ctx context.Context, account P, confirmed bool) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.EmailConfirmed = confirmed
	return nil
}

// FindByEmail looks an account up by normalized email; nil when absent.
func (s *AccountStore[A, P]) FindByEmail(ctx context.Context, normalizedEmail string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if normalizedEmail == "" {
		return nil, nil
	}
	return absentIfNotFound(s.repo.FindOne(ctx, byNormalizedEmail[A, P](normalizedEmail)))
}

func (s *AccountStore[A, P]) NormalizedEmail(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.NormalizedEmail, nil
}

func (s *AccountStore[A, P]) SetNormalizedEmail(ctx context.Context, account P, normalizedEmail string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.NormalizedEmail = normalizedEmail
	return nil
}

// LockoutEnd returns nil when the account is not locked out.
func (s *AccountStore[A, P]) LockoutEnd(ctx context.Context, account P) (*time.Time, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return nil, err
	}
	if a.LockoutEnd == nil {
		return nil, nil
	}
	end := *a.LockoutEnd
	return &end, nil
}

func (s *AccountStore[A, P]) SetLockoutEnd(ctx context.Context, account P, end *time.Time) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if end == nil {
		a.LockoutEnd = nil
		return nil
	}
	v := *end
	a.LockoutEnd = &v
	return nil
}

// IncrementAccessFailedCount bumps the counter and returns the new value.
func (s *AccountStore[A, P]) IncrementAccessFailedCount(ctx context.Context, account P) (int, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return 0, err
	}
	a.AccessFailedCount++
	return a.AccessFailedCount, nil
}

func (s *AccountStore[A, P]) ResetAccessFailedCount(ctx context.Context, account P) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.AccessFailedCount = 0
	return nil
}

func (s *AccountStore[A, P]) AccessFailedCount(ctx context.Context, account P) (int, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return 0, err
	}
	return a.AccessFailedCount, nil
}

func (s *AccountStore[A, P]) LockoutEnabled(ctx context.Context, account P) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.LockoutEnabled, nil
}

func (s *AccountStore[A, P]) SetLockoutEnabled(ctx context.Context, account P, enabled bool) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.LockoutEnabled = enabled
	return nil
}

func (s *AccountStore[A, P]) SetPhoneNumber(ctx context.Context, account P, phoneNumber string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.PhoneNumber = phoneNumber
	return nil
}

func (s *AccountStore[A, P]) PhoneNumber(ctx context.Context, account P) (string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", err
	}
	return a.PhoneNumber, nil
}

func (s *AccountStore[A, P]) PhoneNumberConfirmed(ctx context.Context, account P) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.PhoneNumberConfirmed, nil
}

func (s *AccountStore[A, P]) SetPhoneNumberConfirmed(ctx context.Context, account P, confirmed bool) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.PhoneNumberConfirmed = confirmed
	return nil
}

func (s *AccountStore[A, P]) SetTwoFactorEnabled(ctx context.Context, account P, enabled bool) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.TwoFactorEnabled = enabled
	return nil
}

func (s *AccountStore[A, P]) TwoFactorEnabled(ctx context.Context, account P) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.TwoFactorEnabled, nil
}
