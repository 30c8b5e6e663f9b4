package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voluntapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApplicationRepo is an in-memory ApplicationRepository for tests. It
// shares an opportunity repo so CreateWithCounter can bump the counter the
// way the SQL transaction does.
type fakeApplicationRepo struct {
	byID      map[string]*domain.Application
	opps      *fakeOpportunityRepo
	nextID    int
	createErr error
}

func newFakeApplicationRepo(opps *fakeOpportunityRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		byID:   make(map[string]*domain.Application),
		opps:   opps,
		nextID: 1,
	}
}

func (f *fakeApplicationRepo) add(app *domain.Application) *domain.Application {
	if app.ID == "" {
		app.ID = fmt.Sprintf("app-%d", f.nextID)
		f.nextID++
	}
	f.byID[app.ID] = app
	return app
}

func (f *fakeApplicationRepo) CreateWithCounter(ctx context.Context, app *domain.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	o, ok := f.opps.byID[app.OpportunityID]
	if !ok {
		return domain.ErrNotFound
	}
	f.add(app)
	o.VolunteersApplied++
	return nil
}

func (f *fakeApplicationRepo) GetWithOwner(ctx context.Context, id string) (*domain.Application, string, error) {
	app, ok := f.byID[id]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	o, ok := f.opps.byID[app.OpportunityID]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return app, o.OrganizationID, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, completedAt *time.Time) (*domain.Application, error) {
	app, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if app.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	app.Status = to
	if completedAt != nil {
		app.CompletedAt = completedAt
	}
	return app, nil
}

func (f *fakeApplicationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.ApplicationWithDetails, error) {
	out := []*domain.ApplicationWithDetails{}
	for _, app := range f.byID {
		if app.UserID == userID {
			out = append(out, &domain.ApplicationWithDetails{Application: app, Opportunity: f.opps.byID[app.OpportunityID]})
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ApplicationWithDetails, error) {
	out := []*domain.ApplicationWithDetails{}
	for _, app := range f.byID {
		if app.OpportunityID == opportunityID {
			out = append(out, &domain.ApplicationWithDetails{Application: app, Opportunity: f.opps.byID[app.OpportunityID]})
		}
	}
	return out, nil
}

// fakeDecisionEmailService records decision notifications.
type fakeDecisionEmailService struct {
	sent    []*domain.ApplicationDecisionEmailData
	sendErr error
}

func (f *fakeDecisionEmailService) SendApplicationDecision(ctx context.Context, data *domain.ApplicationDecisionEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, data)
	return nil
}

type applicationFixture struct {
	svc   domain.ApplicationService
	users *fakeUserRepo
	opps  *fakeOpportunityRepo
	apps  *fakeApplicationRepo
	email *fakeDecisionEmailService
	opp   *domain.Opportunity
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	users := newFakeUserRepo()
	opps := newFakeOpportunityRepo()
	apps := newFakeApplicationRepo(opps)
	email := &fakeDecisionEmailService{}

	addOrganization(users, opps, "org-1", "Food Bank SF")
	users.add(&domain.User{ID: "vol-1", Email: "vol@example.com", FirstName: "Ana", AccountType: domain.AccountTypeVolunteer})
	opp := opps.add(&domain.Opportunity{
		OrganizationID: "org-1",
		Title:          "Sort donations",
		Category:       "Food Bank",
		Status:         domain.OpportunityStatusActive,
	})

	svc := NewApplicationService(apps, opps, users, email, testLogger(), 5*time.Second)
	return &applicationFixture{svc: svc, users: users, opps: opps, apps: apps, email: email, opp: opp}
}

func (fx *applicationFixture) pendingApplication() *domain.Application {
	return fx.apps.add(&domain.Application{
		OpportunityID: fx.opp.ID,
		UserID:        "vol-1",
		Status:        domain.ApplicationStatusPending,
		AppliedAt:     time.Now(),
	})
}

func TestApplicationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success increments counter", func(t *testing.T) {
		fx := newApplicationFixture(t)
		msg := "I'd love to help"
		app, err := fx.svc.Create(ctx, fx.opp.ID, "vol-1", &msg)
		require.NoError(t, err)
		require.NotEmpty(t, app.ID)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		assert.Equal(t, 1, fx.opps.byID[fx.opp.ID].VolunteersApplied)
	})

	t.Run("repeat applications each count", func(t *testing.T) {
		fx := newApplicationFixture(t)
		_, err := fx.svc.Create(ctx, fx.opp.ID, "vol-1", nil)
		require.NoError(t, err)
		_, err = fx.svc.Create(ctx, fx.opp.ID, "vol-1", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, fx.opps.byID[fx.opp.ID].VolunteersApplied)
	})

	t.Run("non-active opportunity rejected without writes", func(t *testing.T) {
		fx := newApplicationFixture(t)
		fx.opp.Status = domain.OpportunityStatusPaused

		_, err := fx.svc.Create(ctx, fx.opp.ID, "vol-1", nil)
		require.ErrorIs(t, err, domain.ErrOpportunityNotAvailable)
		assert.Empty(t, fx.apps.byID)
		assert.Equal(t, 0, fx.opps.byID[fx.opp.ID].VolunteersApplied)
	})

	t.Run("unknown opportunity", func(t *testing.T) {
		fx := newApplicationFixture(t)
		_, err := fx.svc.Create(ctx, "missing", "vol-1", nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("organization accepts pending and applicant is notified", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "org-1", domain.ApplicationStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusAccepted, updated.Status)
		require.Len(t, fx.email.sent, 1)
		assert.Equal(t, "vol@example.com", fx.email.sent[0].Email)
		assert.Equal(t, "accepted", fx.email.sent[0].Decision)
		assert.Equal(t, "Sort donations", fx.email.sent[0].OpportunityTitle)
		assert.Equal(t, "Food Bank SF", fx.email.sent[0].OrganizationName)
	})

	t.Run("organization declines pending and applicant is notified", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "org-1", domain.ApplicationStatusDeclined)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusDeclined, updated.Status)
		require.Len(t, fx.email.sent, 1)
		assert.Equal(t, "declined", fx.email.sent[0].Decision)
	})

	t.Run("email failure does not break the transition", func(t *testing.T) {
		fx := newApplicationFixture(t)
		fx.email.sendErr = fmt.Errorf("smtp down")
		app := fx.pendingApplication()

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "org-1", domain.ApplicationStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusAccepted, updated.Status)
	})

	t.Run("organization completes accepted with timestamp", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()
		app.Status = domain.ApplicationStatusAccepted

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "org-1", domain.ApplicationStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.Empty(t, fx.email.sent)
		// Completion by the organization does not bump the applicant's counter.
		assert.Equal(t, 0, fx.users.incs["vol-1"])
	})

	t.Run("applicant cancels pending", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "vol-1", domain.ApplicationStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusCancelled, updated.Status)
	})

	t.Run("applicant cancels accepted", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()
		app.Status = domain.ApplicationStatusAccepted

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "vol-1", domain.ApplicationStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusCancelled, updated.Status)
	})

	t.Run("applicant self-completes and stats increment", func(t *testing.T) {
		fx := newApplicationFixture(t)
		app := fx.pendingApplication()
		app.Status = domain.ApplicationStatusAccepted

		updated, err := fx.svc.UpdateStatus(ctx, app.ID, "vol-1", domain.ApplicationStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.Equal(t, 1, fx.users.incs["vol-1"])
	})

	t.Run("role permission matrix", func(t *testing.T) {
		cases := []struct {
			name      string
			requester string
			target    domain.ApplicationStatus
			allowed   bool
		}{
			{"org accepts", "org-1", domain.ApplicationStatusAccepted, true},
			{"org declines", "org-1", domain.ApplicationStatusDeclined, true},
			{"org completes", "org-1", domain.ApplicationStatusCompleted, true},
			{"org cancels", "org-1", domain.ApplicationStatusCancelled, false},
			{"applicant cancels", "vol-1", domain.ApplicationStatusCancelled, true},
			{"applicant completes", "vol-1", domain.ApplicationStatusCompleted, true},
			{"applicant accepts", "vol-1", domain.ApplicationStatusAccepted, false},
			{"applicant declines", "vol-1", domain.ApplicationStatusDeclined, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				fx := newApplicationFixture(t)
				app := fx.pendingApplication()
				_, err := fx.svc.UpdateStatus(ctx, app.ID, tc.requester, tc.target)
				if tc.allowed {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, domain.ErrInvalidStatusForRole)
				}
			})
		}
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		cases := []struct {
			name      string
			from      domain.ApplicationStatus
			requester string
			target    domain.ApplicationStatus
		}{
			{"declined cannot be accepted", domain.ApplicationStatusDeclined, "org-1", domain.ApplicationStatusAccepted},
			{"declined cannot be cancelled", domain.ApplicationStatusDeclined, "vol-1", domain.ApplicationStatusCancelled},
			{"cancelled cannot be accepted", domain.ApplicationStatusCancelled, "org-1", domain.ApplicationStatusAccepted},
			{"cancelled cannot be completed", domain.ApplicationStatusCancelled, "vol-1", domain.ApplicationStatusCompleted},
			{"completed cannot be declined", domain.ApplicationStatusCompleted, "org-1", domain.ApplicationStatusDeclined},
			{"completed cannot be cancelled", domain.ApplicationStatusCompleted, "vol-1", domain.ApplicationStatusCancelled},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				fx := newApplicationFixture(t)
				app := fx.pendingApplication()
				app.Status = tc.from
				_, err := fx.svc.UpdateStatus(ctx, app.ID, tc.requester, tc.target)
				require.ErrorIs(t, err, domain.ErrInvalidTransition)
			})
		}
	})

	t.Run("unrelated principal forbidden", func(t *testing.T) {
		fx := newApplicationFixture(t)
		fx.users.add(&domain.User{ID: "vol-2", Email: "other@example.com", AccountType: domain.AccountTypeVolunteer})
		app := fx.pendingApplication()

		_, err := fx.svc.UpdateStatus(ctx, app.ID, "vol-2", domain.ApplicationStatusCancelled)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown application", func(t *testing.T) {
		fx := newApplicationFixture(t)
		_, err := fx.svc.UpdateStatus(ctx, "missing", "org-1", domain.ApplicationStatusAccepted)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApplicationService_ListByOpportunity(t *testing.T) {
	ctx := context.Background()

	t.Run("owner lists applications", func(t *testing.T) {
		fx := newApplicationFixture(t)
		fx.pendingApplication()
		fx.pendingApplication()

		list, err := fx.svc.ListByOpportunity(ctx, fx.opp.ID, "org-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		fx := newApplicationFixture(t)
		fx.pendingApplication()

		_, err := fx.svc.ListByOpportunity(ctx, fx.opp.ID, "vol-1")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown opportunity", func(t *testing.T) {
		fx := newApplicationFixture(t)
		_, err := fx.svc.ListByOpportunity(ctx, "missing", "org-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApplicationService_ListByApplicant(t *testing.T) {
	ctx := context.Background()
	fx := newApplicationFixture(t)
	fx.pendingApplication()

	list, err := fx.svc.ListByApplicant(ctx, "vol-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fx.opp.ID, list[0].OpportunityID)
}
