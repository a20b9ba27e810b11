package ports

import (
	"context"
	"iter"

	"github.com/99minutos/identity-store/internal/core/domain"
)

type RoleStore[R any] interface {
	RoleID(ctx context.Context, role R) (string, error)
	RoleName(ctx context.Context, role R) (string, error)
	SetRoleName(ctx context.Context, role R, name string) error
	NormalizedRoleName(ctx context.Context, role R) (string, error)
	SetNormalizedRoleName(ctx context.Context, role R, normalizedName string) error
	Create(ctx context.Context, role R) error
	Update(ctx context.Context, role R) error
	Delete(ctx context.Context, role R) error
	FindByID(ctx context.Context, id string) (R, error)
	FindByName(ctx context.Context, normalizedName string) (R, error)
}

type QueryableRoleStore[R any] interface {
	RoleStore[R]
	Roles(ctx context.Context) iter.Seq2[R, error]
}

type RoleClaimStore[R any] interface {
	RoleStore[R]
	Claims(ctx context.Context, role R) ([]domain.Claim, error)
	AddClaim(ctx context.Context, role R, claim *domain.Claim) error
	RemoveClaim(ctx context.Context, role R, claim *domain.Claim) error
}
