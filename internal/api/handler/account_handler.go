package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
)

// AccountStore is the set of account capabilities the admin API drives.
type AccountStore interface {
	ports.UserClaimStore[*domain.Account]
	ports.UserLoginStore[*domain.Account]
	ports.UserPasswordStore[*domain.Account]
	ports.UserSecurityStampStore[*domain.Account]
	ports.UserEmailStore[*domain.Account]
	ports.UserLockoutStore[*domain.Account]
	ports.UserPhoneNumberStore[*domain.Account]
	ports.UserRoleStore[*domain.Account]
}

// AccountHandler handles the admin account endpoints.
type AccountHandler struct {
	store AccountStore
	log   zerolog.Logger
	cost  int
}

func NewAccountHandler(store AccountStore, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{store: store, log: log, cost: bcrypt.DefaultCost}
}

// Create handles POST /v1/accounts.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByName(ctx, normalize(req.UserName))
	if err != nil {
		return err
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "user name already taken")
	}

	account := domain.NewAccount("")
	steps := []func() error{
		func() error { return h.store.SetUserName(ctx, account, req.UserName) },
		func() error { return h.store.SetNormalizedUserName(ctx, account, normalize(req.UserName)) },
		func() error { return h.store.SetSecurityStamp(ctx, account, uuid.NewString()) },
		func() error { return h.store.SetLockoutEnabled(ctx, account, true) },
	}
	if req.Email != "" {
		steps = append(steps,
			func() error { return h.store.SetEmail(ctx, account, req.Email) },
			func() error { return h.store.SetNormalizedEmail(ctx, account, normalize(req.Email)) },
		)
	}
	if req.PhoneNumber != "" {
		steps = append(steps, func() error { return h.store.SetPhoneNumber(ctx, account, req.PhoneNumber) })
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cost)
		if err != nil {
			return err
		}
		steps = append(steps, func() error { return h.store.SetPasswordHash(ctx, account, string(hash)) })
	}
	for _, role := range req.Roles {
		steps = append(steps, func() error { return h.store.AddToRole(ctx, account, role) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if err := h.store.Create(ctx, account); err != nil {
		return err
	}

	h.log.Info().Str("account_id", account.ID).Str("admin", subject(c)).Msg("account created")
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Get handles GET /v1/accounts/:id.
//
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path  string  true  "Account id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	account, err := h.load(c)
	if err != nil {
		return err
	}
	if err := h.store.Delete(c.Request().Context(), account); err != nil {
		return err
	}
	h.log.Info().Str("account_id", account.ID).Str("admin", subject(c)).Msg("account deleted")
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET /v1/accounts. Exactly one lookup must be supplied.
//
// @Summary      Look up accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        user_name       query     string  false  "User name"
// @Param        email           query     string  false  "Email"
// @Param        login_provider  query     string  false  "External login provider (with provider_key)"
// @Param        provider_key    query     string  false  "External login key (with login_provider)"
// @Param        claim_type      query     string  false  "Claim type (with claim_value)"
// @Param        claim_value     query     string  false  "Claim value (with claim_type)"
// @Param        role            query     string  false  "Role name"
// @Success      200             {object}  accountListResponse
// @Failure      400             {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		single *domain.Account
		many   []*domain.Account
		err    error
	)

	switch {
	case c.QueryParam("user_name") != "":
		single, err = h.store.FindByName(ctx, normalize(c.QueryParam("user_name")))
	case c.QueryParam("email") != "":
		single, err = h.store.FindByEmail(ctx, normalize(c.QueryParam("email")))
	case c.QueryParam("login_provider") != "":
		single, err = h.store.FindByLogin(ctx, c.QueryParam("login_provider"), c.QueryParam("provider_key"))
	case c.QueryParam("claim_type") != "":
		many, err = h.store.UsersForClaim(ctx, &domain.Claim{
			Type:  c.QueryParam("claim_type"),
			Value: c.QueryParam("claim_value"),
		})
	case c.QueryParam("role") != "":
		many, err = h.store.UsersInRole(ctx, c.QueryParam("role"))
	default:
		return echo.NewHTTPError(http.StatusBadRequest,
			"one of user_name, email, login_provider, claim_type or role is required")
	}
	if err != nil {
		return err
	}
	if single != nil {
		many = []*domain.Account{single}
	}
	return c.JSON(http.StatusOK, toAccountList(many))
}

// AddRole handles POST /v1/accounts/:id/roles.
//
// @Summary      Add an account to a role
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Account id"
// @Param        body  body      addRoleRequest  true  "Role"
// @Success      200   {object}  accountResponse
// @Failure      404   {object}  errorResponse
// @Failure      412   {object}  errorResponse
// @Router       /v1/accounts/{id}/roles [post]
func (h *AccountHandler) AddRole(c echo.Context) error {
	var req addRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, http.StatusOK, func(account *domain.Account) error {
		return h.store.AddToRole(c.Request().Context(), account, req.Role)
	})
}

// RemoveRole handles DELETE /v1/accounts/:id/roles/:role.
//
// @Summary      Remove an account from a role
// @Tags         accounts
// @Security     BearerAuth
// @Param        id    path  string  true  "Account id"
// @Param        role  path  string  true  "Role name"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id}/roles/{role} [delete]
func (h *AccountHandler) RemoveRole(c echo.Context) error {
	return h.mutate(c, http.StatusNoContent, func(account *domain.Account) error {
		return h.store.RemoveFromRole(c.Request().Context(), account, c.Param("role"))
	})
}

// AddClaims handles POST /v1/accounts/:id/claims.
//
// @Summary      Add claims to an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Account id"
// @Param        body  body      addClaimsRequest  true  "Claims"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/accounts/{id}/claims [post]
func (h *AccountHandler) AddClaims(c echo.Context) error {
	var req addClaimsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.mutate(c, http.StatusOK, func(account *domain.Account) error {
		return h.store.AddClaims(c.Request().Context(), account, toClaims(req.Claims))
	})
}

// ResetLockout handles POST /v1/accounts/:id/lockout/reset.
//
// @Summary      Clear lockout state
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id}/lockout/reset [post]
func (h *AccountHandler) ResetLockout(c echo.Context) error {
	return h.mutate(c, http.StatusOK, func(account *domain.Account) error {
		ctx := c.Request().Context()
		if err := h.store.ResetAccessFailedCount(ctx, account); err != nil {
			return err
		}
		return h.store.SetLockoutEnd(ctx, account, nil)
	})
}

// load fetches the account named by the :id path parameter.
func (h *AccountHandler) load(c echo.Context) (*domain.Account, error) {
	account, err := h.store.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

// mutate loads, applies fn, persists, and renders the account.
func (h *AccountHandler) mutate(c echo.Context, status int, fn func(*domain.Account) error) error {
	account, err := h.load(c)
	if err != nil {
		return err
	}
	if err := fn(account); err != nil {
		return err
	}
	if err := h.store.Update(c.Request().Context(), account); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			h.log.Warn().Str("account_id", account.ID).Msg("concurrent account update")
		}
		return err
	}
	if status == http.StatusNoContent {
		return c.NoContent(status)
	}
	return c.JSON(status, toAccountResponse(account))
}
