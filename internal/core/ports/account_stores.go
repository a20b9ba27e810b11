package ports

import (
	"context"
	"iter"
	"time"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// The contracts below are the narrow capability surfaces a hosting
// authentication framework consumes. service.AccountStore implements all
// of them; callers should depend on the smallest one they need.

type UserStore[U any] interface {
	AccountID(ctx context.Context, account U) (string, error)
	UserName(ctx context.Context, account U) (string, error)
	SetUserName(ctx context.Context, account U, userName string) error
	NormalizedUserName(ctx context.Context, account U) (string, error)
	SetNormalizedUserName(ctx context.Context, account U, normalizedName string) error
	Create(ctx context.Context, account U) error
	Update(ctx context.Context, account U) error
	Delete(ctx context.Context, account U) error
	FindByID(ctx context.Context, id string) (U, error)
	FindByName(ctx context.Context, normalizedUserName string) (U, error)
}

type UserClaimStore[U any] interface {
	UserStore[U]
	Claims(ctx context.Context, account U) ([]domain.Claim, error)
	AddClaims(ctx context.Context, account U, claims []domain.Claim) error
	ReplaceClaim(ctx context.Context, account U, claim, newClaim *domain.Claim) error
	RemoveClaims(ctx context.Context, account U, claims []domain.Claim) error
	UsersForClaim(ctx context.Context, claim *domain.Claim) ([]U, error)
}

type UserLoginStore[U any] interface {
	UserStore[U]
	AddLogin(ctx context.Context, account U, login *domain.Login) error
	RemoveLogin(ctx context.Context, account U, provider, providerKey string) error
	Logins(ctx context.Context, account U) ([]domain.Login, error)
	FindByLogin(ctx context.Context, provider, providerKey string) (U, error)
}

type UserPasswordStore[U any] interface {
	UserStore[U]
	SetPasswordHash(ctx context.Context, account U, passwordHash string) error
	PasswordHash(ctx context.Context, account U) (string, error)
	HasPassword(ctx context.Context, account U) (bool, error)
}

type UserSecurityStampStore[U any] interface {
	UserStore[U]
	SetSecurityStamp(ctx context.Context, account U, stamp string) error
	SecurityStamp(ctx context.Context, account U) (string, error)
}

type UserEmailStore[U any] interface {
	UserStore[U]
	SetEmail(ctx context.Context, account U, email string) error
	Email(ctx context.Context, account U) (string, error)
	EmailConfirmed(ctx context.Context, account U) (bool, error)
	SetEmailConfirmed(ctx context.Context, account U, confirmed bool) error
	FindByEmail(ctx context.Context, normalizedEmail string) (U, error)
	NormalizedEmail(ctx context.Context, account U) (string, error)
	SetNormalizedEmail(ctx context.Context, account U, normalizedEmail string) error
}

type UserLockoutStore[U any] interface {
	UserStore[U]
	LockoutEnd(ctx context.Context, account U) (*time.Time, error)
	SetLockoutEnd(ctx context.Context, account U, end *time.Time) error
	IncrementAccessFailedCount(ctx context.Context, account U) (int, error)
	ResetAccessFailedCount(ctx context.Context, account U) error
	AccessFailedCount(ctx context.Context, account U) (int, error)
	LockoutEnabled(ctx context.Context, account U) (bool, error)
	SetLockoutEnabled(ctx context.Context, account U, enabled bool) error
}

type UserPhoneNumberStore[U any] interface {
	UserStore[U]
	SetPhoneNumber(ctx context.Context, account U, phoneNumber string) error
	PhoneNumber(ctx context.Context, account U) (string, error)
	PhoneNumberConfirmed(ctx context.Context, account U) (bool, error)
	SetPhoneNumberConfirmed(ctx context.Context, account U, confirmed bool) error
}

type QueryableUserStore[U any] interface {
	UserStore[U]
	Accounts(ctx context.Context) iter.Seq2[U, error]
}

type UserTwoFactorStore[U any] interface {
	UserStore[U]
	SetTwoFactorEnabled(ctx context.Context, account U, enabled bool) error
	TwoFactorEnabled(ctx context.Context, account U) (bool, error)
}

type UserAuthenticationTokenStore[U any] interface {
	UserStore[U]
	SetToken(ctx context.Context, account U, provider, name, value string) error
	RemoveToken(ctx context.Context, account U, provider, name string) error
	Token(ctx context.Context, account U, provider, name string) (string, bool, error)
}

type UserAuthenticatorKeyStore[U any] interface {
	UserStore[U]
	SetAuthenticatorKey(ctx context.Context, account U, key string) error
	AuthenticatorKey(ctx context.Context, account U) (string, bool, error)
}

type UserTwoFactorRecoveryCodeStore[U any] interface {
	UserStore[U]
	ReplaceCodes(ctx context.Context, account U, codes []string) error
	RedeemCode(ctx context.Context, account U, code string) (bool, error)
	CountCodes(ctx context.Context, account U) (int, error)
}

type UserRoleStore[U any] interface {
	UserStore[U]
	AddToRole(ctx context.Context, account U, roleName string) error
	RemoveFromRole(ctx context.Context, account U, roleName string) error
	Roles(ctx context.Context, account U) ([]string, error)
	IsInRole(ctx context.Context, account U, roleName string) (bool, error)
	UsersInRole(ctx context.Context, roleName string) ([]U, error)
}
