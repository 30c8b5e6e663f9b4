package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "declined", "cancelled", "completed"} {
		got, err := ParseApplicationStatus(s)
		require.NoError(t, err)
		assert.Equal(t, ApplicationStatus(s), got)
	}

	for _, s := range []string{"", "Pending", "archived", "complete"} {
		_, err := ParseApplicationStatus(s)
		assert.Error(t, err, "status %q", s)
	}
}

func TestRoleMayRequest(t *testing.T) {
	tests := []struct {
		role   ApplicationRole
		target ApplicationStatus
		want   bool
	}{
		{RoleOrganization, ApplicationStatusAccepted, true},
		{RoleOrganization, ApplicationStatusDeclined, true},
		{RoleOrganization, ApplicationStatusCompleted, true},
		{RoleOrganization, ApplicationStatusCancelled, false},
		{RoleOrganization, ApplicationStatusPending, false},
		{RoleApplicant, ApplicationStatusCancelled, true},
		{RoleApplicant, ApplicationStatusCompleted, true},
		{RoleApplicant, ApplicationStatusAccepted, false},
		{RoleApplicant, ApplicationStatusDeclined, false},
		{RoleApplicant, ApplicationStatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleMayRequest(tt.role, tt.target), "%s -> %s", tt.role, tt.target)
	}
}

func TestIsTransitionAllowed(t *testing.T) {
	allowed := map[[2]ApplicationStatus]bool{
		{ApplicationStatusPending, ApplicationStatusAccepted}:   true,
		{ApplicationStatusPending, ApplicationStatusDeclined}:   true,
		{ApplicationStatusPending, ApplicationStatusCancelled}:  true,
		{ApplicationStatusPending, ApplicationStatusCompleted}:  true,
		{ApplicationStatusAccepted, ApplicationStatusCancelled}: true,
		{ApplicationStatusAccepted, ApplicationStatusCompleted}: true,
	}

	all := []ApplicationStatus{
		ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusDeclined,
		ApplicationStatusCancelled, ApplicationStatusCompleted,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]ApplicationStatus{from, to}]
			assert.Equal(t, want, IsTransitionAllowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(ApplicationStatusPending))
	assert.False(t, IsTerminal(ApplicationStatusAccepted))
	assert.True(t, IsTerminal(ApplicationStatusDeclined))
	assert.True(t, IsTerminal(ApplicationStatusCancelled))
	assert.True(t, IsTerminal(ApplicationStatusCompleted))

	// Terminal statuses have no outgoing edges in the transition table.
	all := []ApplicationStatus{
		ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusDeclined,
		ApplicationStatusCancelled, ApplicationStatusCompleted,
	}
	for _, from := range all {
		if !IsTerminal(from) {
			continue
		}
		for _, to := range all {
			assert.False(t, IsTransitionAllowed(from, to), "%s -> %s", from, to)
		}
	}
}
