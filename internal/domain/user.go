package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Account types. Fixed at signup; they gate which side of the marketplace a
// principal acts on.
const (
	AccountTypeVolunteer    = "volunteer"
	AccountTypeOrganization = "organization"
)

// User represents a registered principal: a volunteer or an organization.
// swagger:model User
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Salt             string     `json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	AccountType      string     `json:"account_type"`
	OrganizationName *string    `json:"organization_name,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	Location         *string    `json:"location,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Interests        []string   `json:"interests"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, firstName, lastName, accountType string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		AccountType: accountType,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// IsOrganization reports whether the user is an organization account.
func (u *User) IsOrganization() bool { return u.AccountType == AccountTypeOrganization }

// UserPatch is a sparse profile update. Nil fields are left unchanged.
type UserPatch struct {
	FirstName        *string
	LastName         *string
	Bio              *string
	OrganizationName *string
	Location         *string
	Latitude         *float64
	Longitude        *float64
	Interests        []string
}

// VolunteerStats are the cumulative impact counters kept on a user row.
// swagger:model VolunteerStats
type VolunteerStats struct {
	HoursVolunteered       int `json:"hours_volunteered"`
	OpportunitiesCompleted int `json:"opportunities_completed"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, accountType string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, patch *UserPatch) (*User, error)
	GetStats(ctx context.Context, id string) (*VolunteerStats, error)
	AddHoursVolunteered(ctx context.Context, id string, hours int) error
	IncrementOpportunitiesCompleted(ctx context.Context, id string) error
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName, accountType string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// UserService defines the business logic for user profiles.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, patch *UserPatch) (*User, error)
	GetStats(ctx context.Context, id string) (*VolunteerStats, error)
}
