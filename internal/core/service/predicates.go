package service

import (
	"slices"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
)

// Scan predicates. Each one states the same condition twice: as a document
// filter for the storage engine and as a Go func for in-process evaluation.

func byNormalizedUserName[A any, P domain.AccountType[A]](name string) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path:  domain.FieldNormalizedUserName,
		Equal: name,
		Match: func(p P) bool { return p.AccountRef().NormalizedUserName == name },
	}
}

func byNormalizedEmail[A any, P domain.AccountType[A]](email string) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path:  domain.FieldNormalizedEmail,
		Equal: email,
		Match: func(p P) bool { return p.AccountRef().NormalizedEmail == email },
	}
}

func hasLogin[A any, P domain.AccountType[A]](provider, providerKey string) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path: domain.FieldLogins,
		Elem: []ports.Condition{
			{Field: domain.FieldLoginProvider, Value: provider},
			{Field: domain.FieldLoginProviderKey, Value: providerKey},
		},
		Match: func(p P) bool {
			return slices.ContainsFunc(p.AccountRef().Logins, func(l domain.Login) bool {
				return l.Provider == provider && l.ProviderKey == providerKey
			})
		},
	}
}

func hasClaim[A any, P domain.AccountType[A]](claim domain.Claim) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path: domain.FieldClaims,
		Elem: []ports.Condition{
			{Field: domain.FieldClaimType, Value: claim.Type},
			{Field: domain.FieldClaimValue, Value: claim.Value},
		},
		Match: func(p P) bool {
			return slices.ContainsFunc(p.AccountRef().Claims, claim.Matches)
		},
	}
}

func inRole[A any, P domain.AccountType[A]](roleName string) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path:  domain.FieldRoles,
		Equal: roleName,
		Match: func(p P) bool { return p.AccountRef().Roles.Contains(roleName) },
	}
}

func byNormalizedRoleName[R any, P domain.RoleType[R]](name string) ports.Predicate[P] {
	return ports.Predicate[P]{
		Path:  domain.FieldNormalizedName,
		Equal: name,
		Match: func(p P) bool { return p.RoleRef().NormalizedName == name },
	}
}
