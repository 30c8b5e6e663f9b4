package domain

import (
	"context"
	"time"
)

// Opportunity lifecycle statuses. Only active opportunities appear in
// discovery and accept applications.
const (
	OpportunityStatusActive    = "active"
	OpportunityStatusPaused    = "paused"
	OpportunityStatusCompleted = "completed"
	OpportunityStatusCancelled = "cancelled"
)

// Categories offered by the creation form. Category is stored as a plain
// string, so values outside this set are storable and treated as just another
// string.
var OpportunityCategories = []string{
	"Education",
	"Environment",
	"Health",
	"Community",
	"Food Bank",
	"Animal Welfare",
	"Arts & Culture",
	"Sports",
}

// Opportunity represents a volunteer engagement posted by an organization.
// swagger:model Opportunity
type Opportunity struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organization_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Category          string     `json:"category"`
	ImageURL          *string    `json:"image_url,omitempty"`
	Location          string     `json:"location"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	DateTime          *time.Time `json:"date_time,omitempty"`
	Duration          *string    `json:"duration,omitempty"`
	VolunteersNeeded  int        `json:"volunteers_needed"`
	VolunteersApplied int        `json:"volunteers_applied"`
	Skills            []string   `json:"skills"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewOpportunity returns a new active Opportunity with zero applications.
// ID is typically set by the repository on create.
func NewOpportunity(organizationID, title, description, category, location string, createdAt, updatedAt time.Time) *Opportunity {
	return &Opportunity{
		OrganizationID:   organizationID,
		Title:            title,
		Description:      description,
		Category:         category,
		Location:         location,
		VolunteersNeeded: 10,
		Status:           OpportunityStatusActive,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// OpportunityPatch is a sparse update for an opportunity. Nil fields are left
// unchanged. Latitude/Longitude are set by the service when Location changes,
// never taken from the client.
type OpportunityPatch struct {
	Title            *string
	Description      *string
	Category         *string
	ImageURL         *string
	Location         *string
	Latitude         *float64
	Longitude        *float64
	DateTime         *time.Time
	Duration         *string
	VolunteersNeeded *int
	Skills           []string
	Status           *string
}

// OrganizationSummary is the subset of an organization's profile embedded in
// opportunity projections.
// swagger:model OrganizationSummary
type OrganizationSummary struct {
	ID               string  `json:"id"`
	OrganizationName *string `json:"organization_name,omitempty"`
	Location         *string `json:"location,omitempty"`
}

// OpportunityWithOrganization bundles an opportunity with its owning
// organization's summary.
type OpportunityWithOrganization struct {
	*Opportunity
	Organization *OrganizationSummary `json:"organization"`
}

// ScoredOpportunity is a discovery feed entry: an opportunity plus the
// computed match score and, when both sides have coordinates, a human-readable
// distance. It exists only as the output of a ranking call and is never
// persisted.
// swagger:model ScoredOpportunity
type ScoredOpportunity struct {
	*OpportunityWithOrganization
	MatchScore int     `json:"match_score"`
	Distance   *string `json:"distance,omitempty"`
}

// OpportunityRepository defines storage operations for opportunities.
type OpportunityRepository interface {
	Create(ctx context.Context, o *Opportunity) error
	GetByID(ctx context.Context, id string) (*OpportunityWithOrganization, error)
	ListActive(ctx context.Context) ([]*OpportunityWithOrganization, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*Opportunity, error)
	Update(ctx context.Context, id string, patch *OpportunityPatch) (*Opportunity, error)
}

// OpportunityService defines organization-facing opportunity management.
type OpportunityService interface {
	Create(ctx context.Context, organizationID string, o *Opportunity) (*Opportunity, error)
	GetByID(ctx context.Context, id string) (*OpportunityWithOrganization, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*Opportunity, error)
	Update(ctx context.Context, id, organizationID string, patch *OpportunityPatch) (*Opportunity, error)
	// Delete soft-deletes: the opportunity transitions to cancelled so
	// existing applications keep their history.
	Delete(ctx context.Context, id, organizationID string) error
}

// DiscoveryService produces the ranked opportunity feed for a volunteer.
type DiscoveryService interface {
	RankOpportunities(ctx context.Context, viewerID string) ([]*ScoredOpportunity, error)
}
