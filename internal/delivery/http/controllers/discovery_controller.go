package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"voluntapp/internal/delivery/http/helpers"
	"voluntapp/internal/delivery/http/middleware"
	"voluntapp/internal/domain"
)

// FeedResponse is the data payload for GET /opportunities.
type FeedResponse struct {
	Opportunities []*domain.ScoredOpportunity `json:"opportunities"`
	Pagination    helpers.PaginationMeta      `json:"pagination"`
}

// FeedSuccessResponse is the success response envelope for GET /opportunities (200).
type FeedSuccessResponse struct {
	Data  FeedResponse      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DiscoveryController serves the ranked opportunity feed.
type DiscoveryController struct {
	Logger  *slog.Logger
	Service domain.DiscoveryService
}

// NewDiscoveryController creates a DiscoveryController with the given logger and service.
func NewDiscoveryController(logger *slog.Logger, svc domain.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{
		Logger:  logger,
		Service: svc,
	}
}

// Feed godoc
// @Summary Ranked opportunity feed
// @Description Returns active opportunities scored against the authenticated user's profile: up to 50 points for proximity and up to 50 for interest overlap, best matches first. Supports page and page_size query parameters. Requires Bearer token.
// @Tags opportunities
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.FeedSuccessResponse "data contains scored opportunities and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /opportunities [get]
func (c *DiscoveryController) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	ranked, err := c.Service.RankOpportunities(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	params := helpers.ParsePagination(r)
	total := len(ranked)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	page := ranked[offset:end]
	if page == nil {
		page = []*domain.ScoredOpportunity{}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, FeedResponse{
		Opportunities: page,
		Pagination:    helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
