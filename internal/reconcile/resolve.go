package reconcile

import (
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// ResolveDay 计算某一天的出勤状态
// 六条规则按顺序求值，先命中者生效，这个顺序本身就是核心业务规则：
//
//  1. 当天没有排定活动 -> OFF
//     没有活动永远优先，防止其他组织的活动记录恰好落在这一天时渗入本视图
//  2. 当天在未来，或当天是今天且还没有任何出勤记录、也没有已批准的请假 -> SCHEDULED
//  3. 有准时或迟到的签到记录 -> CHECKED_IN
//  4. 出勤记录标记为 EXCUSED，或请假申请已批准 -> EXCUSE_APPROVED
//  5. 请假申请待审批 -> EXCUSE_PENDING
//  6. 其余情况 -> ABSENT（已排定的过去活动，既没有签到也没有有效请假）
func (r *Reconciler) ResolveDay(day DayKey, now time.Time) domain.DayStatus {
	// 规则 1
	if !r.eventDays[day] {
		return domain.DayStatusOff
	}

	records := r.attendanceByDay[day]
	excuses := r.excusesByDay[day]

	// 规则 2
	today := NewDayKey(now.In(r.loc))
	if day.After(today) {
		return domain.DayStatusScheduled
	}
	if day == today && len(records) == 0 && !hasExcuseWithStatus(excuses, domain.ExcuseApproved) {
		return domain.DayStatusScheduled
	}

	// 规则 3
	for _, record := range records {
		if record.Status == domain.AttendanceOnTime || record.Status == domain.AttendanceLate {
			return domain.DayStatusCheckedIn
		}
	}

	// 规则 4
	for _, record := range records {
		if record.Status == domain.AttendanceExcused {
			return domain.DayStatusExcuseApproved
		}
	}
	if hasExcuseWithStatus(excuses, domain.ExcuseApproved) {
		return domain.DayStatusExcuseApproved
	}

	// 规则 5
	if hasExcuseWithStatus(excuses, domain.ExcusePending) {
		return domain.DayStatusExcusePending
	}

	// 规则 6
	return domain.DayStatusAbsent
}

func hasExcuseWithStatus(excuses []*domain.ExcuseRequest, status domain.ExcuseStatus) bool {
	for _, excuse := range excuses {
		if excuse.Status == status {
			return true
		}
	}
	return false
}

// BuildRange 从 start 开始按时间顺序计算连续 dayCount 天的状态
// 纯函数：相同输入永远得到相同输出，除显式传入的 now 外不读取任何时钟
func (r *Reconciler) BuildRange(start DayKey, dayCount int, now time.Time) []domain.DayStatus {
	statuses := make([]domain.DayStatus, 0, dayCount)
	for offset := 0; offset < dayCount; offset++ {
		statuses = append(statuses, r.ResolveDay(start.AddDays(offset), now))
	}
	return statuses
}
