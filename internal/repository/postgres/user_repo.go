package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"voluntapp/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

const userColumns = `id, email, password_hash, salt, first_name, last_name, account_type,
		organization_name, bio, location, latitude, longitude, interests, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var orgNameNull, bioNull, locationNull sql.NullString
	var latNull, lngNull sql.NullFloat64
	var interests pq.StringArray
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.FirstName, &u.LastName, &u.AccountType,
		&orgNameNull, &bioNull, &locationNull, &latNull, &lngNull, &interests,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orgNameNull.Valid {
		u.OrganizationName = &orgNameNull.String
	}
	if bioNull.Valid {
		u.Bio = &bioNull.String
	}
	if locationNull.Valid {
		u.Location = &locationNull.String
	}
	if latNull.Valid {
		u.Latitude = &latNull.Float64
	}
	if lngNull.Valid {
		u.Longitude = &lngNull.Float64
	}
	u.Interests = []string(interests)
	if u.Interests == nil {
		u.Interests = []string{}
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, salt, first_name, last_name, account_type, organization_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Salt, u.FirstName, u.LastName, u.AccountType,
		u.OrganizationName, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch *domain.UserPatch) (*domain.User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", n))
		args = append(args, *patch.FirstName)
		n++
	}
	if patch.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", n))
		args = append(args, *patch.LastName)
		n++
	}
	if patch.Bio != nil {
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", n))
		args = append(args, *patch.Bio)
		n++
	}
	if patch.OrganizationName != nil {
		setClauses = append(setClauses, fmt.Sprintf("organization_name = $%d", n))
		args = append(args, *patch.OrganizationName)
		n++
	}
	if patch.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *patch.Location)
		n++
		// Location changes always rewrite coordinates, including to NULL
		// when the new location did not geocode.
		setClauses = append(setClauses, fmt.Sprintf("latitude = $%d", n))
		args = append(args, patch.Latitude)
		n++
		setClauses = append(setClauses, fmt.Sprintf("longitude = $%d", n))
		args = append(args, patch.Longitude)
		n++
	}
	if patch.Interests != nil {
		setClauses = append(setClauses, fmt.Sprintf("interests = $%d", n))
		args = append(args, pq.Array(patch.Interests))
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetStats(ctx context.Context, id string) (*domain.VolunteerStats, error) {
	query := `SELECT hours_volunteered, opportunities_completed FROM users WHERE id = $1`
	stats := &domain.VolunteerStats{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&stats.HoursVolunteered, &stats.OpportunitiesCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return stats, nil
}

func (r *userRepository) AddHoursVolunteered(ctx context.Context, id string, hours int) error {
	query := `UPDATE users SET hours_volunteered = hours_volunteered + $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, hours, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementOpportunitiesCompleted(ctx context.Context, id string) error {
	query := `UPDATE users SET opportunities_completed = opportunities_completed + 1, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
