package domain

// DayStatus 是和解引擎的输出：被请求范围内的每个日历日恰好对应一个状态
// 六个取值互斥且完备，展示层只负责把状态映射成图标和颜色
type DayStatus string

const (
	DayStatusOff            DayStatus = "OFF"             // 当日没有排定活动
	DayStatusScheduled      DayStatus = "SCHEDULED"       // 有活动但结果未知（未来或今天尚未签到）
	DayStatusCheckedIn      DayStatus = "CHECKED_IN"      // 准时或迟到签到
	DayStatusExcuseApproved DayStatus = "EXCUSE_APPROVED" // 请假已批准
	DayStatusExcusePending  DayStatus = "EXCUSE_PENDING"  // 请假待审批
	DayStatusAbsent         DayStatus = "ABSENT"          // 已排定的过去活动，既无签到也无有效请假
)
