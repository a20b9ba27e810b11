package service

import (
	"context"
	"slices"
	"strings"

	"github.com/99minutos/identity-store/internal/core/domain"
)

const recoveryCodeSeparator = ";"

// SetToken stores value under (provider, name). The first matching entry
// is overwritten; otherwise a new one is appended.
func (s *AccountStore[A, P]) SetToken(ctx context.Context, account P, provider, name, value string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	setToken(a, provider, name, value)
	return nil
}

// RemoveToken deletes every entry keyed by (provider, name).
func (s *AccountStore[A, P]) RemoveToken(ctx context.Context, account P, provider, name string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	kept := make([]domain.Token, 0, len(a.Tokens))
	for _, t := range a.Tokens {
		if t.Provider == provider && t.Name == name {
			continue
		}
		kept = append(kept, t)
	}
	a.Tokens = kept
	return nil
}

// Token returns the value of the first entry keyed by (provider, name).
// found is false when no such entry exists.
func (s *AccountStore[A, P]) Token(ctx context.Context, account P, provider, name string) (string, bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return "", false, err
	}
	value, found := token(a, provider, name)
	return value, found, nil
}

func (s *AccountStore[A, P]) SetAuthenticatorKey(ctx context.Context, account P, key string) error {
	return s.SetToken(ctx, account, InternalLoginProvider, AuthenticatorKeyTokenName, key)
}

func (s *AccountStore[A, P]) AuthenticatorKey(ctx context.Context, account P) (string, bool, error) {
	return s.Token(ctx, account, InternalLoginProvider, AuthenticatorKeyTokenName)
}

// ReplaceCodes overwrites the recovery codes. An empty list leaves an
// empty token in place rather than removing it.
func (s *AccountStore[A, P]) ReplaceCodes(ctx context.Context, account P, codes []string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if codes == nil {
		return domain.ArgumentNil("codes")
	}
	setToken(a, InternalLoginProvider, RecoveryCodeTokenName, strings.Join(codes, recoveryCodeSeparator))
	return nil
}

// RedeemCode consumes code if it is one of the unused recovery codes.
func (s *AccountStore[A, P]) RedeemCode(ctx context.Context, account P, code string) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	codes := recoveryCodes(a)
	if !slices.Contains(codes, code) {
		return false, nil
	}
	remaining := slices.DeleteFunc(codes, func(c string) bool { return c == code })
	setToken(a, InternalLoginProvider, RecoveryCodeTokenName, strings.Join(remaining, recoveryCodeSeparator))
	return true, nil
}

func (s *AccountStore[A, P]) CountCodes(ctx context.Context, account P) (int, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return 0, err
	}
	return len(recoveryCodes(a)), nil
}

func token(a *domain.Account, provider, name string) (string, bool) {
	i := slices.IndexFunc(a.Tokens, func(t domain.Token) bool {
		return t.Provider == provider && t.Name == name
	})
	if i < 0 {
		return "", false
	}
	return a.Tokens[i].Value, true
}

func setToken(a *domain.Account, provider, name, value string) {
	i := slices.IndexFunc(a.Tokens, func(t domain.Token) bool {
		return t.Provider == provider && t.Name == name
	})
	if i < 0 {
		a.Tokens = append(a.Tokens, domain.Token{Provider: provider, Name: name, Value: value})
		return
	}
	a.Tokens[i].Value = value
}

// recoveryCodes splits the stored code list. An absent or empty token
// holds no codes; strings.Split would report one empty code.
func recoveryCodes(a *domain.Account) []string {
	merged, _ := token(a, InternalLoginProvider, RecoveryCodeTokenName)
	if merged == "" {
		return nil
	}
	return strings.Split(merged, recoveryCodeSeparator)
}
