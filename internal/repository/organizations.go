package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func (r *Repository) GetAllOrganizations() ([]*domain.Organization, error) {
	query := `
		SELECT id, name, description, created_at, version FROM organizations
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	organizations := make([]*domain.Organization, 0)
	for rows.Next() {
		organization := &domain.Organization{}
		dst := []any{&organization.ID, &organization.Name, &organization.Description, &organization.CreatedAt, &organization.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		organizations = append(organizations, organization)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return organizations, nil
}

func (r *Repository) GetOrganizationByID(id int64) (*domain.Organization, error) {
	query := `
		SELECT name, description, created_at, version
		FROM organizations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	organization := &domain.Organization{
		ID: id,
	}

	dst := []any{&organization.Name, &organization.Description, &organization.CreatedAt, &organization.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return organization, nil
}

func (r *Repository) CreateOrganization(organization *domain.Organization) error {
	query := `
		INSERT INTO organizations (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{organization.Name, organization.Description}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&organization.ID, &organization.CreatedAt, &organization.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) AddOrganizationMember(organizationID int64, userID int64) error {
	query := `
		INSERT INTO organization_members (organization_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (organization_id, user_id) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, organizationID, userID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckOrganizationMembership(organizationID int64, userID int64) (bool, error) {
	isMember := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM organization_members WHERE organization_id = $1 AND user_id = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, organizationID, userID).Scan(&isMember); err != nil {
		return false, err
	}

	return isMember, nil
}
