package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// ResourceHandler handles HTTP requests for resource operations.
type ResourceHandler struct {
	service ports.ResourceService
}

func NewResourceHandler(service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// --- Request / Response types ---

type createResourceRequest struct {
	OwnerSubjectID string `json:"owner_subject_id,omitempty"`
	Name           string `json:"name" validate:"required"`
	Location       string `json:"location" validate:"required"`
	About          string `json:"about,omitempty"`
}

type updateResourceRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	About    string `json:"about,omitempty"`
}

type resourceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE BLOCKED DELETED"`
}

type ratingRequest struct {
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type idsResponse struct {
	IDs []string `json:"ids"`
}

// Create registers a new resource.
//
// @Summary      Create a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResourceRequest  true  "Resource details"
// @Success      201   {object}  domain.Resource
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req createResourceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), p, ports.CreateResourceInput{
		OwnerSubjectID: req.OwnerSubjectID,
		Name:           req.Name,
		Location:       req.Location,
		About:          req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /resources/:id.
//
// @Summary      Get a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  domain.Resource
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	res, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// List searches resources within the caller's scope. Anonymous callers see
// ACTIVE resources only.
//
// @Summary      Search resources
// @Tags         resources
// @Produce      json
// @Param        name        query     string   false  "Name contains"
// @Param        location    query     string   false  "Location contains"
// @Param        rating_op   query     string   false  "Rating comparison"  Enums(gt, lt, eq)
// @Param        rating      query     number   false  "Rating compared with rating_op"
// @Param        min_rating  query     number   false  "Minimum rating"
// @Success      200         {array}   domain.Resource
// @Failure      400         {object}  map[string]any
// @Failure      404         {object}  map[string]any
// @Router       /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	in := ports.SearchResourcesInput{
		Name:     c.QueryParam("name"),
		Location: c.QueryParam("location"),
		RatingOp: domain.RatingOperator(c.QueryParam("rating_op")),
	}
	var minRating float64
	err := echo.QueryParamsBinder(c).
		Float64("rating", &in.RatingValue).
		Float64("min_rating", &minRating).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rating and min_rating must be numbers")
	}
	if c.QueryParam("min_rating") != "" {
		in.MinRating = &minRating
	}

	items, err := h.service.List(c.Request().Context(), principal(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListDeleted handles GET /resources/deleted.
//
// @Summary      List deleted resources
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Resource
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /resources/deleted [get]
func (h *ResourceHandler) ListDeleted(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListDeleted(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PUT /resources/:id.
//
// @Summary      Update a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Resource id"
// @Param        body  body      updateResourceRequest  true  "Resource fields"
// @Success      200   {object}  domain.Resource
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /resources/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req updateResourceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Update(c.Request().Context(), p, c.Param("id"), ports.UpdateResourceInput{
		Name:     req.Name,
		Location: req.Location,
		About:    req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /resources/:id. Deleting twice reports changed=false.
//
// @Summary      Delete a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  ports.StatusChange[domain.ResourceStatus]
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateStatus handles PUT /resources/:id/status.
//
// @Summary      Update resource status
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Resource id"
// @Param        body  body      resourceStatusRequest  true  "Target status"
// @Success      200   {object}  ports.StatusChange[domain.ResourceStatus]
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /resources/{id}/status [put]
func (h *ResourceHandler) UpdateStatus(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req resourceStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateStatus(c.Request().Context(), p, c.Param("id"), domain.ResourceStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// GetInternal handles GET /internal/resources/:id.
func (h *ResourceHandler) GetInternal(c echo.Context) error {
	res, err := h.service.GetInternal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// PushRating handles PUT /internal/resources/:id/rating.
func (h *ResourceHandler) PushRating(c echo.Context) error {
	var req ratingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.PushAggregate(c.Request().Context(), c.Param("id"), *req.Rating); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListIDsByOwner handles GET /internal/resources?owner=.
func (h *ResourceHandler) ListIDsByOwner(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "owner is required")
	}

	ids, err := h.service.ListIDsByOwner(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idsResponse{IDs: ids})
}
