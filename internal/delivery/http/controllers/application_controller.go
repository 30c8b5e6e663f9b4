package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"voluntapp/internal/delivery/http/helpers"
	"voluntapp/internal/delivery/http/middleware"
	"voluntapp/internal/domain"
)

// CreateApplicationRequest is the request body for POST /applications
type CreateApplicationRequest struct {
	OpportunityID string  `json:"opportunity_id"`
	Message       *string `json:"message"`
}

// Validate implements Validator.
func (c CreateApplicationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OpportunityID) == "" {
		errs = append(errs, "opportunity_id is required")
	} else if _, err := uuid.Parse(c.OpportunityID); err != nil {
		errs = append(errs, "invalid opportunity_id")
	}
	return errs
}

// UpdateApplicationStatusRequest is the request body for PATCH /applications/{id}/status
type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (u UpdateApplicationStatusRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Status) == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// ApplicationSuccessResponse is the success response envelope for single-application endpoints.
type ApplicationSuccessResponse struct {
	Data  *domain.Application `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ApplicationListSuccessResponse is the success response envelope for application list endpoints.
type ApplicationListSuccessResponse struct {
	Data  []*domain.ApplicationWithDetails `json:"data"`
	Error *helpers.APIError                `json:"error"`
}

// ApplicationController handles application lifecycle endpoints.
type ApplicationController struct {
	Logger  *slog.Logger
	Service domain.ApplicationService
}

// NewApplicationController creates an ApplicationController with the given logger and service.
func NewApplicationController(logger *slog.Logger, svc domain.ApplicationService) *ApplicationController {
	return &ApplicationController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Apply to an opportunity
// @Description Create a pending application for the authenticated user and increment the opportunity's applicant counter. Only active opportunities accept applications. Requires Bearer token.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateApplicationRequest true "Application data"
// @Success 201 {object} controllers.ApplicationSuccessResponse "data contains the created application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications [post]
func (c *ApplicationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	app, err := c.Service.Create(r.Context(), req.OpportunityID, userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOpportunityNotAvailable):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "opportunity not available")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "opportunity not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// UpdateStatus godoc
// @Summary Transition an application
// @Description Move an application through its lifecycle. The owning organization may accept, decline, or complete; the applicant may cancel or self-report completion. Transitions out of declined, cancelled, or completed are rejected.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body UpdateApplicationStatusRequest true "Target status"
// @Success 200 {object} controllers.ApplicationSuccessResponse "data contains the updated application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/{id}/status [patch]
func (c *ApplicationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateApplicationStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	target, err := domain.ParseApplicationStatus(strings.TrimSpace(strings.ToLower(req.Status)))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	app, err := c.Service.UpdateStatus(r.Context(), id, userID, target)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "application not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		case errors.Is(err, domain.ErrInvalidStatusForRole):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "status not permitted for requester")
		case errors.Is(err, domain.ErrInvalidTransition):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invalid status transition")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// ListMine godoc
// @Summary List the current user's applications
// @Description Returns the authenticated user's applications with opportunity details, newest first. Requires Bearer token.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ApplicationListSuccessResponse "data contains the applications"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/user [get]
func (c *ApplicationController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.ListByApplicant(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// ListByOpportunity godoc
// @Summary List applications for an opportunity
// @Description Returns the applications for an opportunity owned by the authenticated organization, with applicant summaries, newest first. Requires Bearer token.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param opportunityID path string true "Opportunity ID"
// @Success 200 {object} controllers.ApplicationListSuccessResponse "data contains the applications"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/opportunity/{opportunityID} [get]
func (c *ApplicationController) ListByOpportunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	opportunityID, ok := pathID(w, r, "opportunityID")
	if !ok {
		return
	}
	list, err := c.Service.ListByOpportunity(r.Context(), opportunityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "opportunity not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
