package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// FeedbackHandler handles HTTP requests for feedback operations.
type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type createFeedbackRequest struct {
	AuthorSubjectID string  `json:"author_subject_id,omitempty"`
	ResourceID      string  `json:"resource_id" validate:"required"`
	Score           float64 `json:"score" validate:"required,gte=1,lte=5"`
	Comment         string  `json:"comment,omitempty"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type feedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE HIDDEN DELETED"`
}

type averageResponse struct {
	ResourceID string  `json:"resource_id"`
	Average    float64 `json:"average"`
}

// Create leaves feedback on a resource and pushes the new average to it. When
// the push fails the feedback is kept and the call answers 404.
//
// @Summary      Create feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createFeedbackRequest  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req createFeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), p, ports.CreateFeedbackInput{
		AuthorSubjectID: req.AuthorSubjectID,
		ResourceID:      req.ResourceID,
		Score:           req.Score,
		Comment:         req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res.Local)
}

// Get handles GET /feedback/:id.
//
// @Summary      Get feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback id"
// @Success      200  {object}  domain.Feedback
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) Get(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	f, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

// List handles GET /feedback.
//
// @Summary      List feedback visible to the caller
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Feedback
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListByResource handles GET /feedback/resource/:resourceId.
//
// @Summary      List feedback on a resource
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        resourceId  path      string  true  "Resource id"
// @Success      200         {array}   domain.Feedback
// @Failure      403         {object}  map[string]any
// @Failure      404         {object}  map[string]any
// @Router       /feedback/resource/{resourceId} [get]
func (h *FeedbackHandler) ListByResource(c echo.Context) error {
	items, err := h.service.ListByResource(c.Request().Context(), principal(c), c.Param("resourceId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListByAuthor handles GET /feedback/author/:subjectId.
//
// @Summary      List feedback by author
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        subjectId  path      string  true  "Author subject id"
// @Success      200        {array}   domain.Feedback
// @Failure      403        {object}  map[string]any
// @Failure      404        {object}  map[string]any
// @Router       /feedback/author/{subjectId} [get]
func (h *FeedbackHandler) ListByAuthor(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListByAuthor(c.Request().Context(), p, c.Param("subjectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Average handles GET /feedback/resource/:resourceId/average.
//
// @Summary      Average score of a resource
// @Tags         feedback
// @Produce      json
// @Param        resourceId  path      string  true  "Resource id"
// @Success      200         {object}  averageResponse
// @Failure      403         {object}  map[string]any
// @Failure      404         {object}  map[string]any
// @Router       /feedback/resource/{resourceId}/average [get]
func (h *FeedbackHandler) Average(c echo.Context) error {
	resourceID := c.Param("resourceId")
	avg, err := h.service.AverageForResource(c.Request().Context(), principal(c), resourceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, averageResponse{ResourceID: resourceID, Average: avg})
}

// UpdateComment handles PUT /feedback/:id/comment.
//
// @Summary      Update a feedback comment
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Feedback id"
// @Param        body  body      commentRequest  true  "New comment"
// @Success      200   {object}  domain.Feedback
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /feedback/{id}/comment [put]
func (h *FeedbackHandler) UpdateComment(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	f, err := h.service.UpdateComment(c.Request().Context(), p, c.Param("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /feedback/:id.
//
// @Summary      Delete feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback id"
// @Success      200  {object}  ports.StatusChange[domain.FeedbackStatus]
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c echo.Context) error {
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

// UpdateStatus handles PUT /feedback/:id/status.
//
// @Summary      Update feedback status
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Feedback id"
// @Param        body  body      feedbackStatusRequest  true  "Target status"
// @Success      200   {object}  ports.StatusChange[domain.FeedbackStatus]
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /feedback/{id}/status [put]
func (h *FeedbackHandler) UpdateStatus(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req feedbackStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateStatus(c.Request().Context(), p, c.Param("id"), domain.FeedbackStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
