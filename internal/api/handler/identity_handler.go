package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// IdentityHandler serves credentials, login and identity administration.
type IdentityHandler struct {
	service ports.IdentityService
}

func NewIdentityHandler(service ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,numeric,min=7"`
	About    string `json:"about,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	SubjectID string      `json:"subject_id"`
	Role      domain.Role `json:"role"`
	ExpiresAt string      `json:"expires_at"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type registerAdminRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

type identityStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED EXPIRED DELETED"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type activeResponse struct {
	Active bool `json:"active"`
}

func (r registerRequest) input() ports.RegisterInput {
	return ports.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Mobile:   r.Mobile,
		About:    r.About,
		Password: r.Password,
	}
}

// Register creates a standard subject account.
//
// @Summary      Register a standard subject
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.Identity
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.Register(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, identity)
}

// RegisterOwner creates a resource-owner account.
//
// @Summary      Register a resource owner
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.Identity
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register/owner [post]
func (h *IdentityHandler) RegisterOwner(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.RegisterOwner(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, identity)
}

// Login authenticates a subject and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /auth/login [post]
func (h *IdentityHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Login(c.Request().Context(), req.SubjectID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		SubjectID: res.SubjectID,
		Role:      res.Role,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout revokes the presented bearer token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *IdentityHandler) Logout(c echo.Context) error {
	token := bearer(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	if err := h.service.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// ChangePassword changes the caller's own password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/password [put]
func (h *IdentityHandler) ChangePassword(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.ChangePassword(c.Request().Context(), p, ports.ChangePasswordInput{
		SubjectID:   p.SubjectID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// RegisterAdmin creates another administrator.
//
// @Summary      Register an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerAdminRequest  true  "Administrator credentials"
// @Success      201   {object}  domain.Identity
// @Failure      403   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /admin/identities [post]
func (h *IdentityHandler) RegisterAdmin(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req registerAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.RegisterAdmin(c.Request().Context(), p, req.SubjectID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, identity)
}

// List returns identities, optionally filtered by role and status.
//
// @Summary      List identities
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Role filter"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {array}   domain.Identity
// @Failure      403     {object}  map[string]any
// @Router       /admin/identities [get]
func (h *IdentityHandler) List(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListIdentities(c.Request().Context(), p, ports.IdentityFilter{
		Role:   domain.Role(c.QueryParam("role")),
		Status: domain.IdentityStatus(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateStatus changes an identity's status and cascades it to the profile
// service. A failed cascade answers 404 although the local change stays.
//
// @Summary      Update identity status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Subject id"
// @Param        body  body      identityStatusRequest  true  "Target status"
// @Success      200   {object}  ports.StatusChange[domain.IdentityStatus]
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /admin/identities/{id}/status [put]
func (h *IdentityHandler) UpdateStatus(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req identityStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateIdentityStatus(c.Request().Context(), p, c.Param("id"), domain.IdentityStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res.Local)
}

// MarkDeleted handles PUT /internal/identities/:id/deleted.
func (h *IdentityHandler) MarkDeleted(c echo.Context) error {
	res, err := h.service.MarkDeletedInternal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// TokenActive handles GET /internal/tokens/active, the gateway's revocation
// check. The token travels in the Authorization header.
func (h *IdentityHandler) TokenActive(c echo.Context) error {
	return c.JSON(http.StatusOK, activeResponse{
		Active: h.service.IsTokenActive(c.Request().Context(), bearer(c)),
	})
}
