package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voluntapp/internal/domain"
)

type applicationService struct {
	applicationRepo domain.ApplicationRepository
	opportunityRepo domain.OpportunityRepository
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewApplicationService creates an ApplicationService with the given
// repositories and notification service.
func NewApplicationService(
	applicationRepo domain.ApplicationRepository,
	opportunityRepo domain.OpportunityRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		opportunityRepo: opportunityRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *applicationService) Create(ctx context.Context, opportunityID, applicantID string, message *string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	o, err := s.opportunityRepo.GetByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	if o.Status != domain.OpportunityStatusActive {
		return nil, domain.ErrOpportunityNotAvailable
	}

	app := domain.NewApplication(opportunityID, applicantID, message, time.Now())
	if err := s.applicationRepo.CreateWithCounter(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, applicationID, requesterID string, target domain.ApplicationStatus) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	app, ownerOrgID, err := s.applicationRepo.GetWithOwner(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	var role domain.ApplicationRole
	switch requesterID {
	case ownerOrgID:
		role = domain.RoleOrganization
	case app.UserID:
		role = domain.RoleApplicant
	default:
		return nil, domain.ErrForbidden
	}

	if !domain.RoleMayRequest(role, target) {
		return nil, domain.ErrInvalidStatusForRole
	}
	if !domain.IsTransitionAllowed(app.Status, target) {
		return nil, domain.ErrInvalidTransition
	}

	var completedAt *time.Time
	if target == domain.ApplicationStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	// The repository guards on the status we read, so a concurrent transition
	// surfaces as ErrInvalidTransition instead of silently overwriting.
	updated, err := s.applicationRepo.UpdateStatus(ctx, applicationID, app.Status, target, completedAt)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}

	switch {
	case role == domain.RoleOrganization && (target == domain.ApplicationStatusAccepted || target == domain.ApplicationStatusDeclined):
		s.notifyDecision(ctx, updated, target)
	case role == domain.RoleApplicant && target == domain.ApplicationStatusCompleted:
		if err := s.userRepo.IncrementOpportunitiesCompleted(ctx, updated.UserID); err != nil {
			s.logger.WarnContext(ctx, "increment opportunities completed failed",
				"user_id", updated.UserID, "err", err)
		}
	}

	return updated, nil
}

// notifyDecision emails the applicant about an accept or decline. Failures
// are logged, never surfaced; the transition has already committed.
func (s *applicationService) notifyDecision(ctx context.Context, app *domain.Application, decision domain.ApplicationStatus) {
	applicant, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "decision email skipped", "application_id", app.ID, "err", err)
		return
	}
	o, err := s.opportunityRepo.GetByID(ctx, app.OpportunityID)
	if err != nil {
		s.logger.WarnContext(ctx, "decision email skipped", "application_id", app.ID, "err", err)
		return
	}

	orgName := ""
	if o.Organization != nil && o.Organization.OrganizationName != nil {
		orgName = *o.Organization.OrganizationName
	}
	err = s.emailService.SendApplicationDecision(ctx, &domain.ApplicationDecisionEmailData{
		Email:            applicant.Email,
		FirstName:        applicant.FirstName,
		OpportunityTitle: o.Title,
		OrganizationName: orgName,
		Decision:         string(decision),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "decision email failed", "application_id", app.ID, "err", err)
	}
}

func (s *applicationService) ListByApplicant(ctx context.Context, userID string) ([]*domain.ApplicationWithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.applicationRepo.ListByUser(ctx, userID)
}

func (s *applicationService) ListByOpportunity(ctx context.Context, opportunityID, requesterID string) ([]*domain.ApplicationWithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	o, err := s.opportunityRepo.GetByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	if o.OrganizationID != requesterID {
		return nil, domain.ErrForbidden
	}
	return s.applicationRepo.ListByOpportunity(ctx, opportunityID)
}
