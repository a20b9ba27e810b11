// Package bootstrap assembles repositories and stores for a concrete
// account/role type pair and runs the service.
package bootstrap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/core/service"
)

// Stores holds both stores built for one account/role type pair.
type Stores[A any, AP domain.AccountType[A], R any, RP domain.RoleType[R]] struct {
	Accounts *service.AccountStore[A, AP]
	Roles    *service.RoleStore[R, RP]
}

// NewStores validates the type pair once and builds both stores over the
// given repositories. It fails with domain.ErrInvalidTypePair when a
// repository is missing or when AccountRef/RoleRef do not expose the
// aggregate embedded in the receiver.
func NewStores[A any, AP domain.AccountType[A], R any, RP domain.RoleType[R]](
	accounts ports.Repository[AP],
	roles ports.Repository[RP],
	log zerolog.Logger,
) (*Stores[A, AP, R, RP], error) {
	if accounts == nil {
		return nil, fmt.Errorf("%w: account repository is nil", domain.ErrInvalidTypePair)
	}
	if roles == nil {
		return nil, fmt.Errorf("%w: role repository is nil", domain.ErrInvalidTypePair)
	}
	if err := checkAccountType[A, AP](); err != nil {
		return nil, err
	}
	if err := checkRoleType[R, RP](); err != nil {
		return nil, err
	}

	log.Debug().
		Str("account_type", fmt.Sprintf("%T", AP(nil))).
		Str("role_type", fmt.Sprintf("%T", RP(nil))).
		Msg("identity stores registered")

	return &Stores[A, AP, R, RP]{
		Accounts: service.NewAccountStore[A, AP](accounts, log),
		Roles:    service.NewRoleStore[R, RP](roles, log),
	}, nil
}

const probeID = "type-probe"

// checkAccountType writes through AccountRef and reads back through the
// Document methods; both must reach the same Entity.
func checkAccountType[A any, P domain.AccountType[A]]() error {
	var probe A
	p := P(&probe)
	ref := p.AccountRef()
	if ref == nil {
		return fmt.Errorf("%w: %T.AccountRef returned nil", domain.ErrInvalidTypePair, p)
	}
	ref.ID = probeID
	if p.DocumentID() != probeID {
		return fmt.Errorf("%w: %T.AccountRef does not return the embedded account", domain.ErrInvalidTypePair, p)
	}
	return nil
}

func checkRoleType[R any, P domain.RoleType[R]]() error {
	var probe R
	p := P(&probe)
	ref := p.RoleRef()
	if ref == nil {
		return fmt.Errorf("%w: %T.RoleRef returned nil", domain.ErrInvalidTypePair, p)
	}
	ref.ID = probeID
	if p.DocumentID() != probeID {
		return fmt.Errorf("%w: %T.RoleRef does not return the embedded role", domain.ErrInvalidTypePair, p)
	}
	return nil
}
