package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"voluntapp/internal/domain"
)

type applicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{
		DB: db,
	}
}

func (r *applicationRepository) CreateWithCounter(ctx context.Context, app *domain.Application) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO applications (opportunity_id, user_id, status, message, applied_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, insert,
		app.OpportunityID, app.UserID, app.Status, app.Message, app.AppliedAt,
	).Scan(&app.ID); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	// Atomic increment: never read-modify-write in application code.
	increment := `UPDATE opportunities SET volunteers_applied = volunteers_applied + 1 WHERE id = $1`
	result, err := tx.ExecContext(ctx, increment, app.OpportunityID)
	if err != nil {
		return fmt.Errorf("increment volunteers_applied: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

const applicationColumns = `a.id, a.opportunity_id, a.user_id, a.status, a.message, a.applied_at, a.completed_at`

func scanApplication(row interface{ Scan(...any) error }, extra ...any) (*domain.Application, error) {
	a := &domain.Application{}
	var messageNull sql.NullString
	var completedNull sql.NullTime
	dest := []any{&a.ID, &a.OpportunityID, &a.UserID, &a.Status, &messageNull, &a.AppliedAt, &completedNull}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if messageNull.Valid {
		a.Message = &messageNull.String
	}
	if completedNull.Valid {
		a.CompletedAt = &completedNull.Time
	}
	return a, nil
}

func (r *applicationRepository) GetWithOwner(ctx context.Context, id string) (*domain.Application, string, error) {
	query := fmt.Sprintf(`
		SELECT %s, o.organization_id
		FROM applications a
		JOIN opportunities o ON a.opportunity_id = o.id
		WHERE a.id = $1
	`, applicationColumns)
	var ownerID string
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, id), &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", err
	}
	return a, ownerID, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, completedAt *time.Time) (*domain.Application, error) {
	// The status guard in the WHERE clause rejects a transition whose source
	// state has already moved on under a concurrent update.
	query := fmt.Sprintf(`
		UPDATE applications a
		SET status = $1, completed_at = COALESCE($2, a.completed_at)
		WHERE a.id = $3 AND a.status = $4
		RETURNING %s
	`, applicationColumns)
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, to, completedAt, id, from))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Distinguish a missing row from a stale source status.
	var current string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM applications WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidTransition
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ApplicationWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, u.id, u.first_name, u.last_name, u.email
		FROM applications a
		LEFT JOIN opportunities o ON a.opportunity_id = o.id
		LEFT JOIN users u ON a.user_id = u.id
		WHERE a.user_id = $1
		ORDER BY a.applied_at DESC
	`, applicationColumns, opportunityColumns)
	return r.listWithDetails(ctx, query, userID)
}

func (r *applicationRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ApplicationWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, u.id, u.first_name, u.last_name, u.email
		FROM applications a
		LEFT JOIN opportunities o ON a.opportunity_id = o.id
		LEFT JOIN users u ON a.user_id = u.id
		WHERE a.opportunity_id = $1
		ORDER BY a.applied_at DESC
	`, applicationColumns, opportunityColumns)
	return r.listWithDetails(ctx, query, opportunityID)
}

func (r *applicationRepository) listWithDetails(ctx context.Context, query string, arg any) ([]*domain.ApplicationWithDetails, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.ApplicationWithDetails, 0)
	for rows.Next() {
		item, err := scanApplicationWithDetails(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanApplicationWithDetails(rows *sql.Rows) (*domain.ApplicationWithDetails, error) {
	a := &domain.Application{}
	o := &domain.Opportunity{}
	applicant := &domain.ApplicantSummary{}

	var messageNull sql.NullString
	var completedNull sql.NullTime
	var imageNull sql.NullString
	var latNull, lngNull sql.NullFloat64
	var dateNull sql.NullTime
	var durationNull sql.NullString
	var skills pq.StringArray

	err := rows.Scan(
		&a.ID, &a.OpportunityID, &a.UserID, &a.Status, &messageNull, &a.AppliedAt, &completedNull,
		&o.ID, &o.OrganizationID, &o.Title, &o.Description, &o.Category, &imageNull,
		&o.Location, &latNull, &lngNull, &dateNull, &durationNull,
		&o.VolunteersNeeded, &o.VolunteersApplied, &skills, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&applicant.ID, &applicant.FirstName, &applicant.LastName, &applicant.Email,
	)
	if err != nil {
		return nil, err
	}
	if messageNull.Valid {
		a.Message = &messageNull.String
	}
	if completedNull.Valid {
		a.CompletedAt = &completedNull.Time
	}
	if imageNull.Valid {
		o.ImageURL = &imageNull.String
	}
	if latNull.Valid {
		o.Latitude = &latNull.Float64
	}
	if lngNull.Valid {
		o.Longitude = &lngNull.Float64
	}
	if dateNull.Valid {
		o.DateTime = &dateNull.Time
	}
	if durationNull.Valid {
		o.Duration = &durationNull.String
	}
	o.Skills = []string(skills)
	if o.Skills == nil {
		o.Skills = []string{}
	}

	return &domain.ApplicationWithDetails{
		Application: a,
		Opportunity: o,
		Applicant:   applicant,
	}, nil
}
