package service

import (
	"context"
	"slices"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// Claims returns a copy of the account's claims in insertion order.
func (s *AccountStore[A, P]) Claims(ctx context.Context, account P) ([]domain.Claim, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return nil, err
	}
	return cloneClaims(a.Claims), nil
}

// AddClaims appends one entry per claim, preserving input order. Existing
// entries are left alone, so a claim added twice is stored twice.
func (s *AccountStore[A, P]) AddClaims(ctx context.Context, account P, claims []domain.Claim) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if claims == nil {
		return domain.ArgumentNil("claims")
	}
	a.Claims = append(a.Claims, claims...)
	return nil
}

// ReplaceClaim rewrites every entry equal to claim. No match is a no-op.
func (s *AccountStore[A, P]) ReplaceClaim(ctx context.Context, account P, claim, newClaim *domain.Claim) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if claim == nil {
		return domain.ArgumentNil("claim")
	}
	if newClaim == nil {
		return domain.ArgumentNil("newClaim")
	}
	for i := range a.Claims {
		if a.Claims[i].Matches(*claim) {
			a.Claims[i] = *newClaim
		}
	}
	return nil
}

// RemoveClaims deletes every entry equal to any of claims.
func (s *AccountStore[A, P]) RemoveClaims(ctx context.Context, account P, claims []domain.Claim) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	if claims == nil {
		return domain.ArgumentNil("claims")
	}
	a.Claims = withoutClaims(a.Claims, claims)
	return nil
}

// UsersForClaim scans for accounts holding claim.
func (s *AccountStore[A, P]) UsersForClaim(ctx context.Context, claim *domain.Claim) ([]P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, domain.ArgumentNil("claim")
	}
	return collect(s.repo.FindAll(ctx, hasClaim[A, P](*claim)))
}

func cloneClaims(claims []domain.Claim) []domain.Claim {
	out := make([]domain.Claim, len(claims))
	copy(out, claims)
	return out
}

// withoutClaims builds a new slice so a half-filtered list is never visible.
func withoutClaims(current, remove []domain.Claim) []domain.Claim {
	kept := make([]domain.Claim, 0, len(current))
	for _, c := range current {
		if slices.ContainsFunc(remove, c.Matches) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
