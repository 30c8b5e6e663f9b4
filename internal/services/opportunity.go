package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voluntapp/internal/domain"
)

type opportunityService struct {
	opportunityRepo domain.OpportunityRepository
	userRepo        domain.UserRepository
	geocoder        domain.Geocoder
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewOpportunityService creates an OpportunityService with the given
// repositories and geocoder.
func NewOpportunityService(
	opportunityRepo domain.OpportunityRepository,
	userRepo domain.UserRepository,
	geocoder domain.Geocoder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.OpportunityService {
	return &opportunityService{
		opportunityRepo: opportunityRepo,
		userRepo:        userRepo,
		geocoder:        geocoder,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *opportunityService) Create(ctx context.Context, organizationID string, o *domain.Opportunity) (*domain.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	owner, err := s.userRepo.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if !owner.IsOrganization() {
		return nil, domain.ErrForbidden
	}

	if strings.TrimSpace(o.Title) == "" || strings.TrimSpace(o.Description) == "" ||
		strings.TrimSpace(o.Category) == "" || strings.TrimSpace(o.Location) == "" {
		return nil, fmt.Errorf("%w: title, description, category and location are required", domain.ErrInvalidInput)
	}

	o.OrganizationID = organizationID
	o.Status = domain.OpportunityStatusActive
	o.VolunteersApplied = 0
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	// Geocoding is best effort: an unresolved location leaves coordinates
	// nil and the opportunity is still created.
	coords, err := s.geocoder.Geocode(ctx, o.Location)
	if err != nil {
		s.logger.WarnContext(ctx, "geocode failed", "location", o.Location, "err", err)
	} else if coords != nil {
		o.Latitude = &coords.Latitude
		o.Longitude = &coords.Longitude
	}

	if err := s.opportunityRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	return o, nil
}

func (s *opportunityService) GetByID(ctx context.Context, id string) (*domain.OpportunityWithOrganization, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	o, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return o, nil
}

func (s *opportunityService) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.opportunityRepo.ListByOrganization(ctx, organizationID)
}

func (s *opportunityService) Update(ctx context.Context, id, organizationID string, patch *domain.OpportunityPatch) (*domain.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	if existing.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}

	if patch.Status != nil {
		switch *patch.Status {
		case domain.OpportunityStatusActive, domain.OpportunityStatusPaused,
			domain.OpportunityStatusCompleted, domain.OpportunityStatusCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
		}
	}

	// A location change re-resolves coordinates; misses clear them.
	if patch.Location != nil && *patch.Location != existing.Location {
		patch.Latitude = nil
		patch.Longitude = nil
		coords, err := s.geocoder.Geocode(ctx, *patch.Location)
		if err != nil {
			s.logger.WarnContext(ctx, "geocode failed", "location", *patch.Location, "err", err)
		} else if coords != nil {
			patch.Latitude = &coords.Latitude
			patch.Longitude = &coords.Longitude
		}
	}

	updated, err := s.opportunityRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update opportunity: %w", err)
	}
	return updated, nil
}

func (s *opportunityService) Delete(ctx context.Context, id, organizationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get opportunity: %w", err)
	}
	if existing.OrganizationID != organizationID {
		return domain.ErrForbidden
	}

	// Soft delete: the row stays so existing applications keep their history.
	status := domain.OpportunityStatusCancelled
	if _, err := s.opportunityRepo.Update(ctx, id, &domain.OpportunityPatch{Status: &status}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel opportunity: %w", err)
	}
	return nil
}
