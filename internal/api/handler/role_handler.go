package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
)

// RoleStore is the set of role capabilities the admin API drives.
type RoleStore interface {
	ports.QueryableRoleStore[*domain.Role]
	ports.RoleClaimStore[*domain.Role]
}

// RoleHandler handles the admin role endpoints.
type RoleHandler struct {
	store RoleStore
	log   zerolog.Logger
}

func NewRoleHandler(store RoleStore, log zerolog.Logger) *RoleHandler {
	return &RoleHandler{store: store, log: log}
}

// Create handles POST /v1/roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByName(ctx, normalize(req.Name))
	if err != nil {
		return err
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "role already exists")
	}

	role := domain.NewRole(req.Name)
	if err := h.store.SetNormalizedRoleName(ctx, role, normalize(req.Name)); err != nil {
		return err
	}
	for _, claim := range toClaims(req.Claims) {
		if err := h.store.AddClaim(ctx, role, &claim); err != nil {
			return err
		}
	}
	if err := h.store.Create(ctx, role); err != nil {
		return err
	}

	h.log.Info().Str("role_id", role.ID).Str("admin", subject(c)).Msg("role created")
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// Get handles GET /v1/roles/:id.
//
// @Summary      Get a role by id
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.store.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// List handles GET /v1/roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleListResponse
// @Router       /v1/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	items := []roleResponse{}
	for role, err := range h.store.Roles(c.Request().Context()) {
		if err != nil {
			return err
		}
		items = append(items, toRoleResponse(role))
	}
	return c.JSON(http.StatusOK, roleListResponse{Items: items, Count: len(items)})
}
