package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// GetAttendanceByUserAndRange 查询某成员在 [from, to] 时间段内的出勤记录
// 调用方应当在两端各留一天余量：临近午夜的签到时刻可能落在活动日的前后一天
func (r *Repository) GetAttendanceByUserAndRange(organizationID int64, userID int64, from time.Time, to time.Time) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, event_id, occurred_on, is_ad_hoc, status, created_at, version
		FROM attendance_records
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

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{
			UserID:         userID,
			OrganizationID: organizationID,
		}
		dst := []any{&record.ID, &record.EventID, &record.OccurredOn, &record.IsAdHoc, &record.Status, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetRecentAttendanceByUser(organizationID int64, userID int64, limit int) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, event_id, occurred_on, is_ad_hoc, status, created_at, version
		FROM attendance_records
		WHERE organization_id = $1 AND user_id = $2
		ORDER BY occurred_on DESC
		LIMIT $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{
			UserID:         userID,
			OrganizationID: organizationID,
		}
		dst := []any{&record.ID, &record.EventID, &record.OccurredOn, &record.IsAdHoc, &record.Status, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) CreateAttendanceRecord(record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (user_id, organization_id, event_id, occurred_on, is_ad_hoc, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.UserID, record.OrganizationID, record.EventID, record.OccurredOn, record.IsAdHoc, record.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}
