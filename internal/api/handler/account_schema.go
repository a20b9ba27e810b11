package handler

import (
	"time"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createAccountRequest struct {
	UserName    string   `json:"user_name"    validate:"required,max=256"`
	Email       string   `json:"email"        validate:"omitempty,email"`
	Password    string   `json:"password"     validate:"omitempty,min=8,max=72"`
	PhoneNumber string   `json:"phone_number" validate:"omitempty,e164"`
	Roles       []string `json:"roles"        validate:"dive,required"`
}

type addRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type claimRequest struct {
	Type  string `json:"type"  validate:"required"`
	Value string `json:"value" validate:"required"`
}

type addClaimsRequest struct {
	Claims []claimRequest `json:"claims" validate:"required,min=1,dive"`
}

type createRoleRequest struct {
	Name   string         `json:"name"   validate:"required,max=256"`
	Claims []claimRequest `json:"claims" validate:"dive"`
}

// --- Response types ---

type claimResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type loginResponse struct {
	Provider    string `json:"provider"`
	ProviderKey string `json:"provider_key"`
	DisplayName string `json:"display_name,omitempty"`
}

type accountResponse struct {
	ID                   string          `json:"id"`
	UserName             string          `json:"user_name"`
	Email                string          `json:"email,omitempty"`
	EmailConfirmed       bool            `json:"email_confirmed"`
	PhoneNumber          string          `json:"phone_number,omitempty"`
	PhoneNumberConfirmed bool            `json:"phone_number_confirmed"`
	TwoFactorEnabled     bool            `json:"two_factor_enabled"`
	LockoutEnabled       bool            `json:"lockout_enabled"`
	LockoutEnd           *time.Time      `json:"lockout_end,omitempty"`
	AccessFailedCount    int             `json:"access_failed_count"`
	HasPassword          bool            `json:"has_password"`
	Roles                []string        `json:"roles"`
	Claims               []claimResponse `json:"claims"`
	Logins               []loginResponse `json:"logins"`
}

type accountListResponse struct {
	Items []accountResponse `json:"items"`
	Count int               `json:"count"`
}

type roleResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Claims []claimResponse `json:"claims"`
}

type roleListResponse struct {
	Items []roleResponse `json:"items"`
	Count int            `json:"count"`
}

// --- Mappers ---

func toClaims(in []claimRequest) []domain.Claim {
	out := make([]domain.Claim, 0, len(in))
	for _, c := range in {
		out = append(out, domain.Claim{Type: c.Type, Value: c.Value})
	}
	return out
}

func toClaimResponses(in []domain.Claim) []claimResponse {
	out := make([]claimResponse, 0, len(in))
	for _, c := range in {
		out = append(out, claimResponse{Type: c.Type, Value: c.Value})
	}
	return out
}

func toAccountResponse(a *domain.Account) accountResponse {
	logins := make([]loginResponse, 0, len(a.Logins))
	for _, l := range a.Logins {
		logins = append(logins, loginResponse{Provider: l.Provider, ProviderKey: l.ProviderKey, DisplayName: l.DisplayName})
	}
	return accountResponse{
		ID:                   a.ID,
		UserName:             a.UserName,
		Email:                a.Email,
		EmailConfirmed:       a.EmailConfirmed,
		PhoneNumber:          a.PhoneNumber,
		PhoneNumberConfirmed: a.PhoneNumberConfirmed,
		TwoFactorEnabled:     a.TwoFactorEnabled,
		LockoutEnabled:       a.LockoutEnabled,
		LockoutEnd:           a.LockoutEnd,
		AccessFailedCount:    a.AccessFailedCount,
		HasPassword:          a.PasswordHash != "",
		Roles:                a.Roles.Names(),
		Claims:               toClaimResponses(a.Claims),
		Logins:               logins,
	}
}

func toAccountList(accounts []*domain.Account) accountListResponse {
	items := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, toAccountResponse(a))
	}
	return accountListResponse{Items: items, Count: len(items)}
}

func toRoleResponse(r *domain.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, Claims: toClaimResponses(r.Claims)}
}
