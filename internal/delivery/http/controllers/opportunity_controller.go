package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"voluntapp/internal/delivery/http/helpers"
	"voluntapp/internal/delivery/http/middleware"
	"voluntapp/internal/domain"
)

// CreateOpportunityRequest is the request body for POST /opportunities
type CreateOpportunityRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	ImageURL         *string    `json:"image_url"`
	Location         string     `json:"location"`
	DateTime         *time.Time `json:"date_time"`
	Duration         *string    `json:"duration"`
	VolunteersNeeded *int       `json:"volunteers_needed"`
	Skills           []string   `json:"skills"`
}

// Validate implements Validator.
func (c CreateOpportunityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(c.Category) == "" {
		errs = append(errs, "category is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	if c.VolunteersNeeded != nil && *c.VolunteersNeeded < 1 {
		errs = append(errs, "volunteers_needed must be at least 1")
	}
	return errs
}

// UpdateOpportunityRequest is the request body for PATCH /opportunities/{id}. All fields are optional.
type UpdateOpportunityRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Category         *string    `json:"category"`
	ImageURL         *string    `json:"image_url"`
	Location         *string    `json:"location"`
	DateTime         *time.Time `json:"date_time"`
	Duration         *string    `json:"duration"`
	VolunteersNeeded *int       `json:"volunteers_needed"`
	Skills           []string   `json:"skills"`
	Status           *string    `json:"status"`
}

// Validate implements Validator.
func (u UpdateOpportunityRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		errs = append(errs, "location cannot be empty")
	}
	if u.VolunteersNeeded != nil && *u.VolunteersNeeded < 1 {
		errs = append(errs, "volunteers_needed must be at least 1")
	}
	return errs
}

// OpportunitySuccessResponse is the success response envelope for single-opportunity endpoints.
type OpportunitySuccessResponse struct {
	Data  *domain.Opportunity `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// OpportunityListSuccessResponse is the success response envelope for GET /organization/opportunities (200).
type OpportunityListSuccessResponse struct {
	Data  []*domain.Opportunity `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// OpportunityController handles organization-facing opportunity management.
type OpportunityController struct {
	Logger  *slog.Logger
	Service domain.OpportunityService
}

// NewOpportunityController creates an OpportunityController with the given logger and service.
func NewOpportunityController(logger *slog.Logger, svc domain.OpportunityService) *OpportunityController {
	return &OpportunityController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an opportunity
// @Description Create a volunteer opportunity. Only organization accounts may post. The location is geocoded best-effort; unrecognized locations are stored without coordinates. Requires Bearer token.
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOpportunityRequest true "Opportunity data"
// @Success 201 {object} controllers.OpportunitySuccessResponse "data contains the created opportunity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /opportunities [post]
func (c *OpportunityController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateOpportunityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	o := &domain.Opportunity{
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		Category:         strings.TrimSpace(req.Category),
		ImageURL:         req.ImageURL,
		Location:         strings.TrimSpace(req.Location),
		DateTime:         req.DateTime,
		Duration:         req.Duration,
		VolunteersNeeded: 10,
		Skills:           req.Skills,
	}
	if req.VolunteersNeeded != nil {
		o.VolunteersNeeded = *req.VolunteersNeeded
	}

	created, err := c.Service.Create(r.Context(), userID, o)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// Get godoc
// @Summary Get an opportunity
// @Description Returns a single opportunity with its organization summary.
// @Tags opportunities
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 200 {object} helpers.APIResponse "data contains the opportunity with organization"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /opportunities/{id} [get]
func (c *OpportunityController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	o, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, o)
}

// ListMine godoc
// @Summary List the organization's opportunities
// @Description Returns all opportunities posted by the authenticated organization, newest first. Requires Bearer token.
// @Tags opportunities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.OpportunityListSuccessResponse "data contains the opportunities"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organization/opportunities [get]
func (c *OpportunityController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.ListByOrganization(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// Update godoc
// @Summary Update an opportunity
// @Description Sparse update of an opportunity owned by the authenticated organization. Changing location re-resolves coordinates. Requires Bearer token.
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Opportunity ID"
// @Param body body UpdateOpportunityRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.OpportunitySuccessResponse "data contains the updated opportunity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /opportunities/{id} [patch]
func (c *OpportunityController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateOpportunityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	patch := &domain.OpportunityPatch{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		ImageURL:         req.ImageURL,
		Location:         req.Location,
		DateTime:         req.DateTime,
		Duration:         req.Duration,
		VolunteersNeeded: req.VolunteersNeeded,
		Skills:           req.Skills,
		Status:           req.Status,
	}
	updated, err := c.Service.Update(r.Context(), id, userID, patch)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Cancel an opportunity
// @Description Soft delete: the opportunity transitions to cancelled and disappears from discovery; applications keep their history. Requires Bearer token.
// @Tags opportunities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Opportunity ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /opportunities/{id} [delete]
func (c *OpportunityController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id, userID); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "opportunity cancelled"})
}

func (c *OpportunityController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "opportunity not found")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
