package services

import (
	"context"
	"testing"
	"time"

	"voluntapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }

func TestDiscoveryService_RankOpportunities(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	sfLat, sfLng := 37.7749, -122.4194
	nyLat, nyLng := 40.7128, -74.0060

	setup := func(viewer *domain.User) (domain.DiscoveryService, *fakeUserRepo, *fakeOpportunityRepo) {
		users := newFakeUserRepo()
		opps := newFakeOpportunityRepo()
		users.add(viewer)
		svc := NewDiscoveryService(opps, users, timeout)
		return svc, users, opps
	}

	t.Run("perfect match scores 100", func(t *testing.T) {
		viewer := &domain.User{
			ID:        "vol-1",
			Latitude:  ptrF(sfLat),
			Longitude: ptrF(sfLng),
			Interests: []string{"Food Bank"},
		}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "Sort donations",
			Category:       "Food Bank",
			Latitude:       ptrF(sfLat),
			Longitude:      ptrF(sfLng),
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 100, ranked[0].MatchScore)
	})

	t.Run("no interests yields neutral 25", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1"}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "Tutor kids",
			Category:       "Education",
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 25, ranked[0].MatchScore)
	})

	t.Run("non-matching interests score 10 not 25", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1", Interests: []string{"Sports"}}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "Tutor kids",
			Category:       "Education",
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 10, ranked[0].MatchScore)
	})

	t.Run("beyond 100 miles contributes no proximity", func(t *testing.T) {
		// SF to NYC is roughly 2571 miles.
		viewer := &domain.User{
			ID:        "vol-1",
			Latitude:  ptrF(sfLat),
			Longitude: ptrF(sfLng),
			Interests: []string{"Food Bank"},
		}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "Sort donations",
			Category:       "Food Bank",
			Latitude:       ptrF(nyLat),
			Longitude:      ptrF(nyLng),
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 50, ranked[0].MatchScore)
	})

	t.Run("missing coordinates contribute no proximity", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1", Interests: []string{"Food Bank"}}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "Sort donations",
			Category:       "Food Bank",
			Latitude:       ptrF(sfLat),
			Longitude:      ptrF(sfLng),
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 50, ranked[0].MatchScore)
		assert.Nil(t, ranked[0].Distance)
	})

	t.Run("excludes non-active opportunities", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1"}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Active", Category: "Education", Status: domain.OpportunityStatusActive})
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Paused", Category: "Education", Status: domain.OpportunityStatusPaused})
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Done", Category: "Education", Status: domain.OpportunityStatusCompleted})
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Gone", Category: "Education", Status: domain.OpportunityStatusCancelled})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, "Active", ranked[0].Title)
	})

	t.Run("ties broken by newest first", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1"}
		svc, _, opps := setup(viewer)
		older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Older", Category: "Education", Status: domain.OpportunityStatusActive, CreatedAt: older})
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Newer", Category: "Education", Status: domain.OpportunityStatusActive, CreatedAt: newer})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "Newer", ranked[0].Title)
		assert.Equal(t, "Older", ranked[1].Title)
	})

	t.Run("higher score first regardless of age", func(t *testing.T) {
		viewer := &domain.User{ID: "vol-1", Interests: []string{"Food Bank"}}
		svc, _, opps := setup(viewer)
		older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "Match", Category: "Food Bank", Status: domain.OpportunityStatusActive, CreatedAt: older})
		opps.add(&domain.Opportunity{OrganizationID: "org-1", Title: "NoMatch", Category: "Education", Status: domain.OpportunityStatusActive, CreatedAt: newer})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "Match", ranked[0].Title)
		assert.Equal(t, 50, ranked[0].MatchScore)
		assert.Equal(t, 10, ranked[1].MatchScore)
	})

	t.Run("unknown viewer", func(t *testing.T) {
		svc, _, _ := setup(&domain.User{ID: "vol-1"})
		_, err := svc.RankOpportunities(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("nearby score decays with distance", func(t *testing.T) {
		// Opportunity ~38 miles away: proximity ≈ 50 - 19 = 31, interest 50.
		viewer := &domain.User{
			ID:        "vol-1",
			Latitude:  ptrF(37.7749),
			Longitude: ptrF(-122.4194),
			Interests: []string{"Food Bank"},
		}
		svc, _, opps := setup(viewer)
		opps.add(&domain.Opportunity{
			OrganizationID: "org-1",
			Title:          "San Jose drive",
			Category:       "Food Bank",
			Latitude:       ptrF(37.3382),
			Longitude:      ptrF(-121.8863),
			Status:         domain.OpportunityStatusActive,
		})

		ranked, err := svc.RankOpportunities(ctx, "vol-1")
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Greater(t, ranked[0].MatchScore, 50)
		assert.Less(t, ranked[0].MatchScore, 100)
		require.NotNil(t, ranked[0].Distance)
		assert.Contains(t, *ranked[0].Distance, "mi away")
	})
}
