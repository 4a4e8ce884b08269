package domain

import "time"

// ScheduledEvent 表示某个组织在某个日历日上排定了活动
// Date 来自外部数据源，形态不固定，匹配前必须经过 reconcile 包归一化
type ScheduledEvent struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Title          string    `json:"title"`
	Date           FlexDate  `json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
