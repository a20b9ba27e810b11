package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-store/internal/core/domain"
)

func (f *fixture) createAccount(t *testing.T, body string) accountResponse {
	t.Helper()
	c, rec := f.context(http.MethodPost, "/v1/accounts", body)
	if err := f.ah.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	return decode[accountResponse](t, rec)
}

func TestAccountHandler_Create(t *testing.T) {
	f := newFixture()
	resp := f.createAccount(t, `{"user_name":"Alice","email":"Alice@Example.com","password":"correct horse","roles":["admin"]}`)

	if resp.ID == "" || resp.UserName != "Alice" || !resp.HasPassword {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "admin" || !resp.LockoutEnabled {
		t.Fatalf("unexpected response: %+v", resp)
	}

	ctx := context.Background()
	stored, err := f.accounts.FindByName(ctx, "ALICE")
	if err != nil || stored == nil {
		t.Fatalf("FindByName = %v, %v", stored, err)
	}
	if stored.NormalizedEmail != "ALICE@EXAMPLE.COM" || stored.SecurityStamp == "" {
		t.Fatalf("normalization or stamp missing: %+v", stored)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")) != nil {
		t.Fatalf("password hash does not verify")
	}
}

func TestAccountHandler_Create_Validation(t *testing.T) {
	f := newFixture()
	cases := map[string]string{
		"missing user name": `{"email":"a@example.com"}`,
		"bad email":         `{"user_name":"a","email":"nope"}`,
		"short password":    `{"user_name":"a","password":"short"}`,
		"malformed":         `{"user_name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := f.context(http.MethodPost, "/v1/accounts", body)
			if code := httpCode(t, f.ah.Create(c)); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func TestAccountHandler_Create_DuplicateName(t *testing.T) {
	f := newFixture()
	f.createAccount(t, `{"user_name":"alice"}`)

	c, _ := f.context(http.MethodPost, "/v1/accounts", `{"user_name":"ALICE"}`)
	if code := httpCode(t, f.ah.Create(c)); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
}

func TestAccountHandler_GetAndDelete(t *testing.T) {
	f := newFixture()
	created := f.createAccount(t, `{"user_name":"alice"}`)

	c, rec := f.context(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := decode[accountResponse](t, rec); got.ID != created.ID {
		t.Fatalf("unexpected account: %+v", got)
	}

	c, rec = f.context(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = f.context(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountHandler_Search(t *testing.T) {
	f := newFixture()
	alice := f.createAccount(t, `{"user_name":"alice","email":"alice@example.com","roles":["admin"]}`)
	f.createAccount(t, `{"user_name":"bob","roles":["admin","ops"]}`)

	ctx := context.Background()
	stored, _ := f.accounts.FindByID(ctx, alice.ID)
	_ = f.accounts.AddLogin(ctx, stored, &domain.Login{Provider: "github", ProviderKey: "42"})
	_ = f.accounts.AddClaims(ctx, stored, []domain.Claim{{Type: "dept", Value: "eng"}})
	if err := f.accounts.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	cases := []struct {
		query string
		want  int
	}{
		{"user_name=Alice", 1},
		{"user_name=carol", 0},
		{"email=ALICE@example.com", 1},
		{"login_provider=github&provider_key=42", 1},
		{"login_provider=github&provider_key=43", 0},
		{"claim_type=dept&claim_value=eng", 1},
		{"role=admin", 2},
		{"role=ops", 1},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, rec := f.context(http.MethodGet, "/v1/accounts?"+tc.query, "")
			if err := f.ah.Search(c); err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := decode[accountListResponse](t, rec); got.Count != tc.want || len(got.Items) != tc.want {
				t.Fatalf("expected %d results, got %+v", tc.want, got)
			}
		})
	}

	c, _ := f.context(http.MethodGet, "/v1/accounts", "")
	if code := httpCode(t, f.ah.Search(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a filter, got %d", code)
	}
}

func TestAccountHandler_RolesAndClaims(t *testing.T) {
	f := newFixture()
	created := f.createAccount(t, `{"user_name":"alice"}`)

	c, rec := f.context(http.MethodPost, "/", `{"role":"ops"}`)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.AddRole(c); err != nil {
		t.Fatalf("AddRole: %v", err)
	}
	if got := decode[accountResponse](t, rec); len(got.Roles) != 1 || got.Roles[0] != "ops" {
		t.Fatalf("unexpected roles: %v", got.Roles)
	}

	c, rec = f.context(http.MethodPost, "/", `{"claims":[{"type":"dept","value":"eng"}]}`)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.AddClaims(c); err != nil {
		t.Fatalf("AddClaims: %v", err)
	}
	if got := decode[accountResponse](t, rec); len(got.Claims) != 1 {
		t.Fatalf("unexpected claims: %v", got.Claims)
	}

	c, rec = f.context(http.MethodDelete, "/", "")
	c.SetParamNames("id", "role")
	c.SetParamValues(created.ID, "ops")
	if err := f.ah.RemoveRole(c); err != nil {
		t.Fatalf("RemoveRole: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	stored, _ := f.accounts.FindByID(context.Background(), created.ID)
	if stored.Roles.Contains("ops") || len(stored.Claims) != 1 {
		t.Fatalf("unexpected stored state: %+v", stored)
	}
}

func TestAccountHandler_ResetLockout(t *testing.T) {
	f := newFixture()
	created := f.createAccount(t, `{"user_name":"alice"}`)

	ctx := context.Background()
	stored, _ := f.accounts.FindByID(ctx, created.ID)
	_, _ = f.accounts.IncrementAccessFailedCount(ctx, stored)
	_, _ = f.accounts.IncrementAccessFailedCount(ctx, stored)
	if err := f.accounts.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	c, rec := f.context(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := f.ah.ResetLockout(c); err != nil {
		t.Fatalf("ResetLockout: %v", err)
	}
	if got := decode[accountResponse](t, rec); got.AccessFailedCount != 0 || got.LockoutEnd != nil {
		t.Fatalf("lockout not cleared: %+v", got)
	}
}

func TestAccountHandler_MutateMissingAccount(t *testing.T) {
	f := newFixture()
	c, _ := f.context(http.MethodPost, "/", `{"role":"ops"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := f.ah.AddRole(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
