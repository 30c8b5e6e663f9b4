package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"voluntapp/internal/domain"
	"voluntapp/internal/geo"
)

type discoveryService struct {
	opportunityRepo domain.OpportunityRepository
	userRepo        domain.UserRepository
	contextTimeout  time.Duration
}

// NewDiscoveryService creates the ranking service backing the volunteer feed.
func NewDiscoveryService(
	opportunityRepo domain.OpportunityRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.DiscoveryService {
	return &discoveryService{
		opportunityRepo: opportunityRepo,
		userRepo:        userRepo,
		contextTimeout:  timeout,
	}
}

// RankOpportunities scores every active opportunity against the viewer's
// profile and returns them best-first. Scoring is two halves of up to 50
// points each: proximity and interest overlap.
func (s *discoveryService) RankOpportunities(ctx context.Context, viewerID string) ([]*domain.ScoredOpportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get viewer: %w", err)
	}

	active, err := s.opportunityRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active opportunities: %w", err)
	}

	ranked := make([]*domain.ScoredOpportunity, 0, len(active))
	for _, o := range active {
		ranked = append(ranked, &domain.ScoredOpportunity{
			OpportunityWithOrganization: o,
			MatchScore:                  matchScore(viewer, o.Opportunity),
			Distance:                    distanceLabel(viewer, o.Opportunity),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked, nil
}

// distanceLabel formats the viewer-to-opportunity distance for display, or
// nil when either side has no coordinates.
func distanceLabel(viewer *domain.User, o *domain.Opportunity) *string {
	if viewer.Latitude == nil || viewer.Longitude == nil || o.Latitude == nil || o.Longitude == nil {
		return nil
	}
	d := geo.Miles(*viewer.Latitude, *viewer.Longitude, *o.Latitude, *o.Longitude)
	label := geo.FormatMiles(d)
	return &label
}

func matchScore(viewer *domain.User, o *domain.Opportunity) int {
	return int(math.Round(proximityScore(viewer, o) + interestScore(viewer, o)))
}

// proximityScore decays linearly from 50 at zero distance to 0 at 100 miles.
// Missing coordinates on either side score 0 rather than guessing.
func proximityScore(viewer *domain.User, o *domain.Opportunity) float64 {
	if viewer.Latitude == nil || viewer.Longitude == nil || o.Latitude == nil || o.Longitude == nil {
		return 0
	}
	d := geo.Miles(*viewer.Latitude, *viewer.Longitude, *o.Latitude, *o.Longitude)
	if d > 100 {
		return 0
	}
	return math.Max(0, 50-d*0.5)
}

// interestScore is 50 when the opportunity's category appears in the viewer's
// interests, 10 when the viewer has interests but none match, and a neutral
// 25 when the viewer declared no interests at all.
func interestScore(viewer *domain.User, o *domain.Opportunity) float64 {
	if o.Category == "" {
		return 0
	}
	if len(viewer.Interests) == 0 {
		return 25
	}
	for _, interest := range viewer.Interests {
		if interest == o.Category {
			return 50
		}
	}
	return 10
}
