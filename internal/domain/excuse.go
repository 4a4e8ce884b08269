package domain

import "time"

type ExcuseStatus string

const (
	ExcusePending  ExcuseStatus = "PENDING"
	ExcuseApproved ExcuseStatus = "APPROVED"
	ExcuseDenied   ExcuseStatus = "DENIED"
)

// ExcuseRequest 表示用户针对某次排定活动提出的请假申请
type ExcuseRequest struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"userID"`
	OrganizationID int64        `json:"organizationID"`
	EventID        int64        `json:"eventID"`
	OccurredOn     FlexDate     `json:"occurredOn"`
	Reason         string       `json:"reason"`
	Status         ExcuseStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	Version        int32        `json:"-"`
}
