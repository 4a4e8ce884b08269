package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func (r *Repository) GetEventByID(id int64) (*domain.ScheduledEvent, error) {
	query := `
		SELECT organization_id, title, event_date, created_at, version
		FROM scheduled_events WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	event := &domain.ScheduledEvent{
		ID: id,
	}

	dst := []any{&event.OrganizationID, &event.Title, &event.Date, &event.CreatedAt, &event.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return event, nil
}

// GetEventsByOrganizationAndRange 查询某组织在 [from, to] 闭区间内的排定活动
func (r *Repository) GetEventsByOrganizationAndRange(organizationID int64, from time.Time, to time.Time) ([]*domain.ScheduledEvent, error) {
	query := `
		SELECT id, title, event_date, created_at, version
		FROM scheduled_events
		WHERE organization_id = $1 AND event_date >= $2 AND event_date <= $3
		ORDER BY event_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.ScheduledEvent, 0)
	for rows.Next() {
		event := &domain.ScheduledEvent{
			OrganizationID: organizationID,
		}
		dst := []any{&event.ID, &event.Title, &event.Date, &event.CreatedAt, &event.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repository) CreateEvent(event *domain.ScheduledEvent) error {
	query := `
		INSERT INTO scheduled_events (organization_id, title, event_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{event.OrganizationID, event.Title, event.Date}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEvent(id int64) error {
	query := `
		DELETE FROM scheduled_events WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
