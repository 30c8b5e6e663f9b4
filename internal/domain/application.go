package domain

import (
	"context"
	"fmt"
	"time"
)

// ApplicationStatus values mirror the applications.status column.
//
// Status graph:
//
//	pending ──► accepted ──► completed
//	   │            │
//	   │            └──────► cancelled
//	   ├──► declined
//	   ├──► cancelled
//	   └──► completed
//
// declined, cancelled, and completed are terminal. The owning organization
// drives accepted/declined/completed; the applicant drives cancelled and the
// self-reported completed path.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

// ApplicationRole is the requester's relationship to an application.
type ApplicationRole string

const (
	RoleOrganization ApplicationRole = "organization"
	RoleApplicant    ApplicationRole = "applicant"
)

// roleTargets lists the target statuses each role may request.
var roleTargets = map[ApplicationRole][]ApplicationStatus{
	RoleOrganization: {ApplicationStatusAccepted, ApplicationStatusDeclined, ApplicationStatusCompleted},
	RoleApplicant:    {ApplicationStatusCancelled, ApplicationStatusCompleted},
}

// validSources lists the statuses a transition into each target may come from.
// Statuses absent as sources (declined, cancelled, completed) are terminal.
var validSources = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusAccepted:  {ApplicationStatusPending},
	ApplicationStatusDeclined:  {ApplicationStatusPending},
	ApplicationStatusCancelled: {ApplicationStatusPending, ApplicationStatusAccepted},
	ApplicationStatusCompleted: {ApplicationStatusPending, ApplicationStatusAccepted},
}

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// returning an error for unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusDeclined,
		ApplicationStatusCancelled, ApplicationStatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// RoleMayRequest returns true when the role is permitted to request the target
// status at all, regardless of the current status.
func RoleMayRequest(role ApplicationRole, target ApplicationStatus) bool {
	for _, t := range roleTargets[role] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to ApplicationStatus) bool {
	for _, s := range validSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions.
func IsTerminal(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusDeclined, ApplicationStatusCancelled, ApplicationStatusCompleted:
		return true
	}
	return false
}

// Application represents a volunteer's expressed interest in an opportunity
// and its tracked progress. Rows are never physically deleted.
// swagger:model Application
type Application struct {
	ID            string            `json:"id"`
	OpportunityID string            `json:"opportunity_id"`
	UserID        string            `json:"user_id"`
	Status        ApplicationStatus `json:"status"`
	Message       *string           `json:"message,omitempty"`
	AppliedAt     time.Time         `json:"applied_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

// NewApplication returns a pending Application. ID is typically set by the
// repository on create.
func NewApplication(opportunityID, userID string, message *string, appliedAt time.Time) *Application {
	return &Application{
		OpportunityID: opportunityID,
		UserID:        userID,
		Status:        ApplicationStatusPending,
		Message:       message,
		AppliedAt:     appliedAt,
	}
}

// ApplicantSummary is the subset of a volunteer's profile embedded in
// application projections.
// swagger:model ApplicantSummary
type ApplicantSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ApplicationWithDetails joins an application with its opportunity and
// applicant summaries for list projections.
type ApplicationWithDetails struct {
	*Application
	Opportunity *Opportunity      `json:"opportunity"`
	Applicant   *ApplicantSummary `json:"applicant"`
}

// ApplicationRepository defines storage operations for applications.
type ApplicationRepository interface {
	// CreateWithCounter inserts the application and increments the owning
	// opportunity's volunteers_applied counter as one unit of work. The
	// increment is issued as a single atomic UPDATE so concurrent
	// applications never lose a count.
	CreateWithCounter(ctx context.Context, app *Application) error
	// GetWithOwner returns the application together with the parent
	// opportunity's owning organization id.
	GetWithOwner(ctx context.Context, id string) (*Application, string, error)
	// UpdateStatus sets the status only when the stored status still equals
	// from; it returns ErrInvalidTransition when the row has moved on.
	// completedAt is written when non-nil.
	UpdateStatus(ctx context.Context, id string, from, to ApplicationStatus, completedAt *time.Time) (*Application, error)
	ListByUser(ctx context.Context, userID string) ([]*ApplicationWithDetails, error)
	ListByOpportunity(ctx context.Context, opportunityID string) ([]*ApplicationWithDetails, error)
}

// ApplicationService governs creation and state transitions of applications.
type ApplicationService interface {
	Create(ctx context.Context, opportunityID, applicantID string, message *string) (*Application, error)
	UpdateStatus(ctx context.Context, applicationID, requesterID string, target ApplicationStatus) (*Application, error)
	ListByApplicant(ctx context.Context, userID string) ([]*ApplicationWithDetails, error)
	ListByOpportunity(ctx context.Context, opportunityID, requesterID string) ([]*ApplicationWithDetails, error)
}
