package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"voluntapp/internal/delivery/http/controllers"
	"voluntapp/internal/delivery/http/helpers"
	"voluntapp/internal/delivery/http/middleware"
	"voluntapp/internal/domain"
)

// Controllers bundles the controllers the router exposes.
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Opportunity *controllers.OpportunityController
	Discovery   *controllers.DiscoveryController
	Application *controllers.ApplicationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("GET /users/me/stats", auth(c.User.GetMyStats))

	// Opportunities
	mux.HandleFunc("GET /opportunities", auth(c.Discovery.Feed))
	mux.HandleFunc("POST /opportunities", auth(c.Opportunity.Create))
	mux.HandleFunc("GET /opportunities/{id}", c.Opportunity.Get)
	mux.HandleFunc("PATCH /opportunities/{id}", auth(c.Opportunity.Update))
	mux.HandleFunc("DELETE /opportunities/{id}", auth(c.Opportunity.Delete))
	mux.HandleFunc("GET /organization/opportunities", auth(c.Opportunity.ListMine))

	// Applications
	mux.HandleFunc("POST /applications", auth(c.Application.Create))
	mux.HandleFunc("PATCH /applications/{id}/status", auth(c.Application.UpdateStatus))
	mux.HandleFunc("GET /applications/user", auth(c.Application.ListMine))
	mux.HandleFunc("GET /applications/opportunity/{opportunityID}", auth(c.Application.ListByOpportunity))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
