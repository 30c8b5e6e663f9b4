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

type opportunityRepository struct {
	DB *sql.DB
}

func NewOpportunityRepository(db *sql.DB) domain.OpportunityRepository {
	return &opportunityRepository{
		DB: db,
	}
}

const opportunityColumns = `o.id, o.organization_id, o.title, o.description, o.category, o.image_url,
		o.location, o.latitude, o.longitude, o.date_time, o.duration,
		o.volunteers_needed, o.volunteers_applied, o.skills, o.status, o.created_at, o.updated_at`

func scanOpportunity(row interface{ Scan(...any) error }, withOrg bool) (*domain.OpportunityWithOrganization, error) {
	o := &domain.Opportunity{}
	var imageNull sql.NullString
	var latNull, lngNull sql.NullFloat64
	var dateNull sql.NullTime
	var durationNull sql.NullString
	var skills pq.StringArray

	dest := []any{
		&o.ID, &o.OrganizationID, &o.Title, &o.Description, &o.Category, &imageNull,
		&o.Location, &latNull, &lngNull, &dateNull, &durationNull,
		&o.VolunteersNeeded, &o.VolunteersApplied, &skills, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	}

	var orgNameNull, orgLocationNull sql.NullString
	if withOrg {
		dest = append(dest, &orgNameNull, &orgLocationNull)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
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

	result := &domain.OpportunityWithOrganization{Opportunity: o}
	if withOrg {
		org := &domain.OrganizationSummary{ID: o.OrganizationID}
		if orgNameNull.Valid {
			org.OrganizationName = &orgNameNull.String
		}
		if orgLocationNull.Valid {
			org.Location = &orgLocationNull.String
		}
		result.Organization = org
	}
	return result, nil
}

func (r *opportunityRepository) Create(ctx context.Context, o *domain.Opportunity) error {
	query := `
		INSERT INTO opportunities (organization_id, title, description, category, image_url,
			location, latitude, longitude, date_time, duration, volunteers_needed, skills, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, volunteers_applied
	`
	return r.DB.QueryRowContext(ctx, query,
		o.OrganizationID, o.Title, o.Description, o.Category, o.ImageURL,
		o.Location, o.Latitude, o.Longitude, o.DateTime, o.Duration,
		o.VolunteersNeeded, pq.Array(o.Skills), o.Status, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID, &o.VolunteersApplied)
}

func (r *opportunityRepository) GetByID(ctx context.Context, id string) (*domain.OpportunityWithOrganization, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.organization_name, u.location
		FROM opportunities o
		LEFT JOIN users u ON o.organization_id = u.id
		WHERE o.id = $1
	`, opportunityColumns)
	result, err := scanOpportunity(r.DB.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *opportunityRepository) ListActive(ctx context.Context) ([]*domain.OpportunityWithOrganization, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.organization_name, u.location
		FROM opportunities o
		LEFT JOIN users u ON o.organization_id = u.id
		WHERE o.status = $1
		ORDER BY o.created_at DESC
	`, opportunityColumns)
	rows, err := r.DB.QueryContext(ctx, query, domain.OpportunityStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opportunities := make([]*domain.OpportunityWithOrganization, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows, true)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, o)
	}
	return opportunities, rows.Err()
}

func (r *opportunityRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Opportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM opportunities o
		WHERE o.organization_id = $1
		ORDER BY o.created_at DESC
	`, opportunityColumns)
	rows, err := r.DB.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opportunities := make([]*domain.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows, false)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, o.Opportunity)
	}
	return opportunities, rows.Err()
}

func (r *opportunityRepository) Update(ctx context.Context, id string, patch *domain.OpportunityPatch) (*domain.Opportunity, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", n))
		args = append(args, *patch.Category)
		n++
	}
	if patch.ImageURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", n))
		args = append(args, *patch.ImageURL)
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
	if patch.DateTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("date_time = $%d", n))
		args = append(args, *patch.DateTime)
		n++
	}
	if patch.Duration != nil {
		setClauses = append(setClauses, fmt.Sprintf("duration = $%d", n))
		args = append(args, *patch.Duration)
		n++
	}
	if patch.VolunteersNeeded != nil {
		setClauses = append(setClauses, fmt.Sprintf("volunteers_needed = $%d", n))
		args = append(args, *patch.VolunteersNeeded)
		n++
	}
	if patch.Skills != nil {
		setClauses = append(setClauses, fmt.Sprintf("skills = $%d", n))
		args = append(args, pq.Array(patch.Skills))
		n++
	}
	if patch.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *patch.Status)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return existing.Opportunity, nil
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE opportunities o SET %s
		WHERE o.id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, opportunityColumns)
	result, err := scanOpportunity(r.DB.QueryRowContext(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return result.Opportunity, nil
}
