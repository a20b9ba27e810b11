package service

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/pkg/ids"
)

// RoleStore maps role capabilities onto a single role document. Same
// persistence rules as AccountStore: mutators never write through.
type RoleStore[R any, P domain.RoleType[R]] struct {
	repo ports.Repository[P]
	log  zerolog.Logger
}

func NewRoleStore[R any, P domain.RoleType[R]](repo ports.Repository[P], log zerolog.Logger) *RoleStore[R, P] {
	return &RoleStore[R, P]{repo: repo, log: log.With().Str("component", "role_store").Logger()}
}

var (
	_ ports.QueryableRoleStore[*domain.Role] = (*RoleStore[domain.Role, *domain.Role])(nil)
	_ ports.RoleClaimStore[*domain.Role]     = (*RoleStore[domain.Role, *domain.Role])(nil)
)

func (s *RoleStore[R, P]) validate(ctx context.Context, role P) (*domain.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ArgumentNil("role")
	}
	return role.RoleRef(), nil
}

func (s *RoleStore[R, P]) RoleID(ctx context.Context, role P) (string, error) {
	r, err := s.validate(ctx, role)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *RoleStore[R, P]) RoleName(ctx context.Context, role P) (string, error) {
	r, err := s.validate(ctx, role)
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

func (s *RoleStore[R, P]) SetRoleName(ctx context.Context, role P, name string) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	r.Name = name
	return nil
}

func (s *RoleStore[R, P]) NormalizedRoleName(ctx context.Context, role P) (string, error) {
	r, err := s.validate(ctx, role)
	if err != nil {
		return "", err
	}
	return r.NormalizedName, nil
}

func (s *RoleStore[R, P]) SetNormalizedRoleName(ctx context.Context, role P, normalizedName string) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	r.NormalizedName = normalizedName
	return nil
}

func (s *RoleStore[R, P]) Create(ctx context.Context, role P) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	id, rev := r.ID, r.ConcurrencyStamp
	if r.ID == "" {
		r.ID = ids.New()
	}
	if _, err := s.repo.Create(ctx, role); err != nil {
		r.ID, r.ConcurrencyStamp = id, rev
		return err
	}
	s.log.Debug().Str("role_id", r.ID).Str("role", r.Name).Msg("role created")
	return nil
}

func (s *RoleStore[R, P]) Update(ctx context.Context, role P) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, role); err != nil {
		return err
	}
	s.log.Debug().Str("role_id", r.ID).Msg("role updated")
	return nil
}

func (s *RoleStore[R, P]) Delete(ctx context.Context, role P) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, role); err != nil {
		return err
	}
	s.log.Debug().Str("role_id", r.ID).Msg("role deleted")
	return nil
}

func (s *RoleStore[R, P]) FindByID(ctx context.Context, id string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return absentIfNotFound(s.repo.FindByID(ctx, id))
}

func (s *RoleStore[R, P]) FindByName(ctx context.Context, normalizedName string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return absentIfNotFound(s.repo.FindOne(ctx, byNormalizedRoleName[R, P](normalizedName)))
}

// Roles exposes the raw scan over all roles.
func (s *RoleStore[R, P]) Roles(ctx context.Context) iter.Seq2[P, error] {
	if err := ctx.Err(); err != nil {
		return failed[P](err)
	}
	return s.repo.FindAll(ctx, ports.All[P]())
}

func (s *RoleStore[R, P]) Claims(ctx context.Context, role P) ([]domain.Claim, error) {
	r, err := s.validate(ctx, role)
	if err != nil {
		return nil, err
	}
	return cloneClaims(r.Claims), nil
}

func (s *RoleStore[R, P]) AddClaim(ctx context.Context, role P, claim *domain.Claim) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	if claim == nil {
		return domain.ArgumentNil("claim")
	}
	r.Claims = append(r.Claims, *claim)
	return nil
}

// RemoveClaim deletes every entry equal to claim.
func (s *RoleStore[R, P]) RemoveClaim(ctx context.Context, role P, claim *domain.Claim) error {
	r, err := s.validate(ctx, role)
	if err != nil {
		return err
	}
	if claim == nil {
		return domain.ArgumentNil("claim")
	}
	r.Claims = withoutClaims(r.Claims, []domain.Claim{*claim})
	return nil
}
