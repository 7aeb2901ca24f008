package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// ProfileHandler serves profile reads and edits plus the internal lookups
// used by the other services.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required,numeric,min=7"`
	About  string `json:"about,omitempty"`
}

type createProfileRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required"`
	About  string `json:"about,omitempty"`
	Role   string `json:"role" validate:"required,oneof=ROLE_USER ROLE_OWNER"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Get returns one profile.
//
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subject id"
// @Success      200  {object}  domain.Profile
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// List returns every profile matching the filter.
//
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Role filter"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {array}   domain.Profile
// @Failure      403     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /profiles [get]
func (h *ProfileHandler) List(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), p, ports.ProfileFilter{
		Role:   domain.Role(c.QueryParam("role")),
		Status: domain.IdentityStatus(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Update replaces the editable profile fields.
//
// @Summary      Update a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Subject id"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /profiles/{id} [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.service.Update(c.Request().Context(), p, c.Param("id"), ports.UpdateProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		About:  req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete soft-deletes a profile and marks the identity deleted.
//
// @Summary      Delete a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subject id"
// @Success      200  {object}  ports.StatusChange[domain.IdentityStatus]
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /profiles/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res.Local)
}

// CreateInternal handles POST /internal/profiles.
func (h *ProfileHandler) CreateInternal(c echo.Context) error {
	var req createProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.service.CreateInternal(c.Request().Context(), ports.CreateProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		About:  req.About,
		Role:   domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetInternal handles GET /internal/profiles/:id.
func (h *ProfileHandler) GetInternal(c echo.Context) error {
	identity, err := h.service.GetInternal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// ValidateOwner handles GET /internal/profiles/:id/owner-validation.
func (h *ProfileHandler) ValidateOwner(c echo.Context) error {
	res, err := h.service.ValidateOwnerCandidate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// SetStatusInternal handles PUT /internal/profiles/:id/status.
func (h *ProfileHandler) SetStatusInternal(c echo.Context) error {
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.SetStatusInternal(c.Request().Context(), c.Param("id"), domain.IdentityStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
