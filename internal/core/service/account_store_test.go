package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func TestAccountStore_Create_AssignsID(t *testing.T) {
	store, repo := newAccountStore()
	account := domain.NewAccount("alice")

	if err := store.Create(context.Background(), account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if account.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if _, ok := repo.docs[account.ID]; !ok {
		t.Fatalf("account not persisted under %s", account.ID)
	}
}

func TestAccountStore_Create_KeepsExistingID(t *testing.T) {
	store, repo := newAccountStore()
	account := domain.NewAccount("alice")
	account.ID = "acc-1"

	if err := store.Create(context.Background(), account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("id was reassigned to %s", account.ID)
	}
	if _, ok := repo.docs["acc-1"]; !ok {
		t.Fatalf("account not persisted")
	}
}

func TestAccountStore_Create_PropagatesDuplicate(t *testing.T) {
	store, _ := newAccountStore()
	first := domain.NewAccount("alice")
	first.ID = "dup"
	second := domain.NewAccount("bob")
	second.ID = "dup"

	if err := store.Create(context.Background(), first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := store.Create(context.Background(), second); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAccountStore_Create_FailureLeavesIDUnassigned(t *testing.T) {
	store, repo := newAccountStore()
	repo.createErr = errors.New("storage down")
	account := domain.NewAccount("alice")

	if err := store.Create(context.Background(), account); !errors.Is(err, repo.createErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if account.ID != "" {
		t.Fatalf("id %s left on a failed create", account.ID)
	}
}

func TestAccountStore_Update_PropagatesRepositoryError(t *testing.T) {
	store, repo := newAccountStore()
	repo.updateErr = domain.ErrConcurrencyConflict

	if err := store.Update(context.Background(), domain.NewAccount("alice")); err != domain.ErrConcurrencyConflict {
		t.Fatalf("expected ErrConcurrencyConflict verbatim, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected exactly one port call (no retry), got %d", repo.calls)
	}
}

func TestAccountStore_Update_MissingAccount(t *testing.T) {
	store, _ := newAccountStore()
	account := domain.NewAccount("ghost")
	account.ID = "missing"

	if err := store.Update(context.Background(), account); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountStore_Delete(t *testing.T) {
	store, repo := newAccountStore()
	account := domain.NewAccount("alice")
	_ = store.Create(context.Background(), account)

	if err := store.Delete(context.Background(), account); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.docs) != 0 {
		t.Fatalf("expected no stored accounts, got %d", len(repo.docs))
	}
	if err := store.Delete(context.Background(), account); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAccountStore_MutatorsDoNotPersist(t *testing.T) {
	store, repo := newAccountStore()
	ctx := context.Background()
	account := domain.NewAccount("alice")
	_ = store.Create(ctx, account)
	calls := repo.calls

	_ = store.AddClaims(ctx, account, []domain.Claim{{Type: "t", Value: "v"}})
	_ = store.SetEmail(ctx, account, "alice@example.com")
	_ = store.AddToRole(ctx, account, "admin")

	if repo.calls != calls {
		t.Fatalf("mutators reached the repository: %d calls", repo.calls-calls)
	}
	if len(repo.docs[account.ID].Claims) != 0 {
		t.Fatalf("stored document changed without Update")
	}

	if err := store.Update(ctx, account); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	stored := repo.docs[account.ID]
	if len(stored.Claims) != 1 || stored.Email != "alice@example.com" || !stored.Roles.Contains("admin") {
		t.Fatalf("update did not persist mutations: %+v", stored)
	}
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func seedAccounts(t *testing.T, store *AccountStore[domain.Account, *domain.Account]) (*domain.Account, *domain.Account) {
	t.Helper()
	ctx := context.Background()

	alice := domain.NewAccount("alice")
	alice.NormalizedUserName = "ALICE"
	alice.NormalizedEmail = "ALICE@EXAMPLE.COM"
	alice.Logins = append(alice.Logins, domain.Login{Provider: "p", ProviderKey: "k", DisplayName: "P"})
	alice.Claims = append(alice.Claims, domain.Claim{Type: "dept", Value: "eng"})
	alice.Roles.Add("admin")

	bob := domain.NewAccount("bob")
	bob.NormalizedUserName = "BOB"
	bob.NormalizedEmail = "BOB@EXAMPLE.COM"
	bob.Logins = append(bob.Logins, domain.Login{Provider: "p", ProviderKey: "other"})
	bob.Claims = append(bob.Claims, domain.Claim{Type: "dept", Value: "ops"})

	if err := store.Create(ctx, alice); err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	if err := store.Create(ctx, bob); err != nil {
		t.Fatalf("seed bob: %v", err)
	}
	return alice, bob
}

func TestAccountStore_FindByID(t *testing.T) {
	store, _ := newAccountStore()
	alice, _ := seedAccounts(t, store)

	found, err := store.FindByID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found == nil || found.UserName != "alice" {
		t.Fatalf("unexpected account: %+v", found)
	}

	missing, err := store.FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("absent account must not be an error, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}
}

func TestAccountStore_FindByNameAndEmail(t *testing.T) {
	store, _ := newAccountStore()
	seedAccounts(t, store)
	ctx := context.Background()

	byName, err := store.FindByName(ctx, "BOB")
	if err != nil || byName == nil || byName.UserName != "bob" {
		t.Fatalf("FindByName: %+v, %v", byName, err)
	}
	byEmail, err := store.FindByEmail(ctx, "ALICE@EXAMPLE.COM")
	if err != nil || byEmail == nil || byEmail.UserName != "alice" {
		t.Fatalf("FindByEmail: %+v, %v", byEmail, err)
	}
	none, err := store.FindByEmail(ctx, "CAROL@EXAMPLE.COM")
	if err != nil || none != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", none, err)
	}
}

func TestAccountStore_FindByEmptyKeyMatchesNothing(t *testing.T) {
	store, repo := newAccountStore()
	ctx := context.Background()
	if err := store.Create(ctx, domain.NewAccount("")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	calls := repo.calls

	byName, err := store.FindByName(ctx, "")
	if err != nil || byName != nil {
		t.Fatalf("FindByName(\"\"): %+v, %v", byName, err)
	}
	byEmail, err := store.FindByEmail(ctx, "")
	if err != nil || byEmail != nil {
		t.Fatalf("FindByEmail(\"\"): %+v, %v", byEmail, err)
	}
	if repo.calls != calls {
		t.Fatalf("empty key reached the repository")
	}
}

func TestAccountStore_FindByLogin(t *testing.T) {
	store, _ := newAccountStore()
	alice, _ := seedAccounts(t, store)
	ctx := context.Background()

	found, err := store.FindByLogin(ctx, "p", "k")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if found == nil || found.ID != alice.ID {
		t.Fatalf("expected alice, got %+v", found)
	}

	none, err := store.FindByLogin(ctx, "p", "unknown")
	if err != nil || none != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", none, err)
	}
}

func TestAccountStore_Accounts(t *testing.T) {
	store, _ := newAccountStore()
	seedAccounts(t, store)

	var names []string
	for a, err := range store.Accounts(context.Background()) {
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		names = append(names, a.UserName)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 accounts, got %v", names)
	}
}

// ---------------------------------------------------------------------------
// Validation and cancellation
// ---------------------------------------------------------------------------

func TestAccountStore_LifecycleRejectsNilBeforeRepository(t *testing.T) {
	store, repo := newAccountStore()
	ctx := context.Background()

	ops := map[string]func() error{
		"create": func() error { return store.Create(ctx, nil) },
		"update": func() error { return store.Update(ctx, nil) },
		"delete": func() error { return store.Delete(ctx, nil) },
	}
	for name, op := range ops {
		err := op()
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
		var argErr *domain.ArgumentError
		if !errors.As(err, &argErr) || argErr.Name != "account" {
			t.Fatalf("%s: expected ArgumentError for account, got %v", name, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("repository received %d calls", repo.calls)
	}
}

func TestAccountStore_RequiredArguments(t *testing.T) {
	store, _ := newAccountStore()
	ctx := context.Background()
	account := domain.NewAccount("alice")
	claim := &domain.Claim{Type: "t", Value: "v"}

	checks := map[string]error{
		"add claims":     store.AddClaims(ctx, account, nil),
		"remove claims":  store.RemoveClaims(ctx, account, nil),
		"replace old":    store.ReplaceClaim(ctx, account, nil, claim),
		"replace new":    store.ReplaceClaim(ctx, account, claim, nil),
		"add login":      store.AddLogin(ctx, account, nil),
		"replace codes":  store.ReplaceCodes(ctx, account, nil),
		"get claims nil": func() error { _, err := store.Claims(ctx, nil); return err }(),
	}
	for name, err := range checks {
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
	if _, err := store.UsersForClaim(ctx, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("UsersForClaim: expected ErrInvalidArgument, got %v", err)
	}
}

func TestAccountStore_CancelledContextLeavesStateUntouched(t *testing.T) {
	store, repo := newAccountStore()
	alice, _ := seedAccounts(t, store)
	calls := repo.calls
	before := cloneAccount(alice)
	ctx := cancelledContext()

	errs := []error{
		store.SetUserName(ctx, alice, "mallory"),
		store.AddClaims(ctx, alice, []domain.Claim{{Type: "x", Value: "y"}}),
		store.ReplaceClaim(ctx, alice, &domain.Claim{Type: "dept", Value: "eng"}, &domain.Claim{Type: "dept", Value: "ops"}),
		store.RemoveClaims(ctx, alice, []domain.Claim{{Type: "dept", Value: "eng"}}),
		store.RemoveLogin(ctx, alice, "p", "k"),
		store.SetToken(ctx, alice, "p", "n", "v"),
		store.ReplaceCodes(ctx, alice, []string{"a"}),
		store.AddToRole(ctx, alice, "other"),
		store.RemoveFromRole(ctx, alice, "admin"),
		store.SetLockoutEnd(ctx, alice, &time.Time{}),
		store.ResetAccessFailedCount(ctx, alice),
		store.Create(ctx, domain.NewAccount("carol")),
		store.Update(ctx, alice),
		store.Delete(ctx, alice),
	}
	_, err := store.IncrementAccessFailedCount(ctx, alice)
	errs = append(errs, err)
	_, err = store.RedeemCode(ctx, alice, "a")
	errs = append(errs, err)
	_, err = store.FindByID(ctx, alice.ID)
	errs = append(errs, err)
	_, err = store.FindByLogin(ctx, "p", "k")
	errs = append(errs, err)
	_, err = store.UsersInRole(ctx, "admin")
	errs = append(errs, err)
	_, err = store.UsersForClaim(ctx, &domain.Claim{Type: "dept", Value: "eng"})
	errs = append(errs, err)
	for _, err := range store.Accounts(ctx) {
		errs = append(errs, err)
	}

	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("operation %d: expected context.Canceled, got %v", i, err)
		}
	}
	if repo.calls != calls {
		t.Fatalf("repository called %d times after cancellation", repo.calls-calls)
	}
	if alice.UserName != before.UserName || len(alice.Claims) != len(before.Claims) ||
		len(alice.Logins) != len(before.Logins) || len(alice.Tokens) != 0 ||
		alice.AccessFailedCount != 0 || alice.LockoutEnd != nil ||
		!alice.Roles.Contains("admin") || alice.Roles.Contains("other") {
		t.Fatalf("state mutated after cancellation: %+v", alice)
	}
}

// ---------------------------------------------------------------------------
// Caller-defined account types
// ---------------------------------------------------------------------------

type tenantAccount struct {
	domain.Account `bson:",inline"`
	TenantID       string `bson:"tenant_id"`
}

func TestAccountStore_CustomAccountType(t *testing.T) {
	repo := newStubRepo(func(a *tenantAccount) *tenantAccount {
		c := *a
		c.Account = *cloneAccount(&a.Account)
		return &c
	})
	store := NewAccountStore[tenantAccount](repo, discardLogger)
	ctx := context.Background()

	account := &tenantAccount{Account: *domain.NewAccount("alice"), TenantID: "tenant-1"}
	account.NormalizedUserName = "ALICE"
	if err := store.AddToRole(ctx, account, "admin"); err != nil {
		t.Fatalf("AddToRole: %v", err)
	}
	if err := store.Create(ctx, account); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := store.FindByName(ctx, "ALICE")
	if err != nil || found == nil {
		t.Fatalf("FindByName: %+v, %v", found, err)
	}
	if found.TenantID != "tenant-1" {
		t.Fatalf("custom field lost: %+v", found)
	}
	users, err := store.UsersInRole(ctx, "admin")
	if err != nil || len(users) != 1 || users[0].TenantID != "tenant-1" {
		t.Fatalf("UsersInRole: %+v, %v", users, err)
	}
}
