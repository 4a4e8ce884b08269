package domain

import "time"

type AttendanceStatus string

const (
	AttendanceOnTime  AttendanceStatus = "ON_TIME"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// AttendanceRecord 表示用户对一次活动的出勤结果
type AttendanceRecord struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"userID"`
	OrganizationID int64            `json:"organizationID"`
	EventID        *int64           `json:"eventID"` // 为 nil 时表示临时签到，没有关联的排定活动
	OccurredOn     FlexDate         `json:"occurredOn"`
	IsAdHoc        bool             `json:"isAdHoc"`
	Status         AttendanceStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	Version        int32            `json:"-"`
}
