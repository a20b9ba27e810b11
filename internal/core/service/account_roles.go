package service

import "context"

// AddToRole adds the account to roleName. Already a member: no-op.
func (s *AccountStore[A, P]) AddToRole(ctx context.Context, account P, roleName string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.Roles.Add(roleName)
	return nil
}

func (s *AccountStore[A, P]) RemoveFromRole(ctx context.Context, account P, roleName string) error {
	a, err := s.validate(ctx, account)
	if err != nil {
		return err
	}
	a.Roles.Remove(roleName)
	return nil
}

// Roles lists role names. The order carries no meaning.
func (s *AccountStore[A, P]) Roles(ctx context.Context, account P) ([]string, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return nil, err
	}
	return a.Roles.Names(), nil
}

func (s *AccountStore[A, P]) IsInRole(ctx context.Context, account P, roleName string) (bool, error) {
	a, err := s.validate(ctx, account)
	if err != nil {
		return false, err
	}
	return a.Roles.Contains(roleName), nil
}

// UsersInRole scans for accounts whose role set contains roleName.
func (s *AccountStore[A, P]) UsersInRole(ctx context.Context, roleName string) ([]P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return collect(s.repo.FindAll(ctx, inRole[A, P](roleName)))
}
