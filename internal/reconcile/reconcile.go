package reconcile

import (
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// Reconciler 把三个独立获取、形态各异的数据源（排定活动、出勤记录、请假申请）
// 对齐到本地日历日上，供 ResolveDay / BuildRange 计算每日状态
// 构造完成后只读，可以被多个 goroutine 并发使用
type Reconciler struct {
	loc *time.Location

	eventDays       map[DayKey]bool  // 当天是否有排定活动
	eventDayByID    map[int64]DayKey // 活动 ID -> 活动所在日，用于把记录优先对齐到活动日
	attendanceByDay map[DayKey][]*domain.AttendanceRecord
	excusesByDay    map[DayKey][]*domain.ExcuseRequest
}

// New 构建索引。任何一个数据源都可以传空切片（对应上游被跳过或返回为空）
// 日期无法归一化的记录在这里直接丢弃，之后的所有匹配都不会再看到它们
func New(events []*domain.ScheduledEvent, attendance []*domain.AttendanceRecord, excuses []*domain.ExcuseRequest, loc *time.Location) *Reconciler {
	if loc == nil {
		loc = time.Local
	}

	r := &Reconciler{
		loc:             loc,
		eventDays:       make(map[DayKey]bool),
		eventDayByID:    make(map[int64]DayKey),
		attendanceByDay: make(map[DayKey][]*domain.AttendanceRecord),
		excusesByDay:    make(map[DayKey][]*domain.ExcuseRequest),
	}

	for _, event := range events {
		day, ok := ToDayKey(event.Date, loc)
		if !ok {
			continue
		}
		r.eventDays[day] = true
		r.eventDayByID[event.ID] = day
	}

	for _, record := range attendance {
		// 临时签到完全不参与周视图的匹配，它们在别的页面单独展示
		if record.IsAdHoc {
			continue
		}
		day, ok := r.recordDay(record.EventID, record.OccurredOn)
		if !ok {
			continue
		}
		r.attendanceByDay[day] = append(r.attendanceByDay[day], record)
	}

	for _, excuse := range excuses {
		eventID := excuse.EventID
		day, ok := r.recordDay(&eventID, excuse.OccurredOn)
		if !ok {
			continue
		}
		r.excusesByDay[day] = append(r.excusesByDay[day], excuse)
	}

	return r
}

// recordDay 决定一条记录归属的日历日：
// 优先使用关联活动的日期（即使签到时刻落在临近午夜的前一天，活动日才是权威的），
// 只有在活动不在本次拉取范围内时才回退到记录自身的时间戳
func (r *Reconciler) recordDay(eventID *int64, occurredOn domain.FlexDate) (DayKey, bool) {
	if eventID != nil {
		if day, ok := r.eventDayByID[*eventID]; ok {
			return day, true
		}
	}
	return ToDayKey(occurredOn, r.loc)
}
