package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func (r *Repository) GetExcuseByID(id int64) (*domain.ExcuseRequest, error) {
	query := `
		SELECT user_id, organization_id, event_id, occurred_on, reason, status, created_at, version
		FROM excuse_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	excuse := &domain.ExcuseRequest{
		ID: id,
	}

	dst := []any{&excuse.UserID, &excuse.OrganizationID, &excuse.EventID, &excuse.OccurredOn, &excuse.Reason, &excuse.Status, &excuse.CreatedAt, &excuse.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return excuse, nil
}

func (r *Repository) GetExcusesByUserAndRange(organizationID int64, userID int64, from time.Time, to time.Time) ([]*domain.ExcuseRequest, error) {
	query := `
		SELECT id, event_id, occurred_on, reason, status, created_at, version
		FROM excuse_requests
		WHERE organization_id = $1 AND user_id = $2 AND occurred_on >= $3 AND occurred_on <= $4
		ORDER BY occurred_on
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	excuses := make([]*domain.ExcuseRequest, 0)
	for rows.Next() {
		excuse := &domain.ExcuseRequest{
			UserID:         userID,
			OrganizationID: organizationID,
		}
		dst := []any{&excuse.ID, &excuse.EventID, &excuse.OccurredOn, &excuse.Reason, &excuse.Status, &excuse.CreatedAt, &excuse.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		excuses = append(excuses, excuse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return excuses, nil
}

func (r *Repository) GetPendingExcusesByOrganization(organizationID int64) ([]*domain.ExcuseRequest, error) {
	query := `
		SELECT id, user_id, event_id, occurred_on, reason, status, created_at, version
		FROM excuse_requests
		WHERE organization_id = $1 AND status = $2
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, domain.ExcusePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	excuses := make([]*domain.ExcuseRequest, 0)
	for rows.Next() {
		excuse := &domain.ExcuseRequest{
			OrganizationID: organizationID,
		}
		dst := []any{&excuse.ID, &excuse.UserID, &excuse.EventID, &excuse.OccurredOn, &excuse.Reason, &excuse.Status, &excuse.CreatedAt, &excuse.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		excuses = append(excuses, excuse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return excuses, nil
}

func (r *Repository) CreateExcuseRequest(excuse *domain.ExcuseRequest) error {
	query := `
		INSERT INTO excuse_requests (user_id, organization_id, event_id, occurred_on, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{excuse.UserID, excuse.OrganizationID, excuse.EventID, excuse.OccurredOn, excuse.Reason, excuse.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&excuse.ID, &excuse.CreatedAt, &excuse.Version); err != nil {
		return err
	}

	return nil
}

// UpdateExcuseStatus 以乐观锁的方式更新审批状态，版本不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateExcuseStatus(excuse *domain.ExcuseRequest) error {
	query := `
		UPDATE excuse_requests
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{excuse.Status, excuse.ID, excuse.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&excuse.Version); err != nil {
		return err
	}

	return nil
}
