package reconcile

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// 测试固定使用 2024-03-03（周日）到 2024-03-09（周六）这一周，周三是 2024-03-06
var (
	sunday    = dk(2024, time.March, 3)
	wednesday = dk(2024, time.March, 6)
)

func isoEvent(id int64, date string) *domain.ScheduledEvent {
	return &domain.ScheduledEvent{
		ID:             id,
		OrganizationID: 1,
		Title:          "例会",
		Date:           domain.NewTextDate(date),
	}
}

func record(eventID *int64, occurredOn domain.FlexDate, isAdHoc bool, status domain.AttendanceStatus) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		UserID:     1,
		EventID:    eventID,
		OccurredOn: occurredOn,
		IsAdHoc:    isAdHoc,
		Status:     status,
	}
}

func excuse(eventID int64, occurredOn domain.FlexDate, status domain.ExcuseStatus) *domain.ExcuseRequest {
	return &domain.ExcuseRequest{
		UserID:     1,
		EventID:    eventID,
		OccurredOn: occurredOn,
		Status:     status,
	}
}

func eventID(id int64) *int64 {
	return &id
}

func TestBuildRange_TodayScheduledWithoutCheckIn(t *testing.T) {
	// 周三有活动，今天就是周三中午，还没有签到：
	// 预期 [OFF, OFF, OFF, SCHEDULED, OFF, OFF, OFF]
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	now := time.Date(2024, time.March, 6, 12, 0, 0, 0, testLoc)

	r := New(events, nil, nil, testLoc)
	got := r.BuildRange(sunday, 7, now)

	want := []domain.DayStatus{
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusScheduled,
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusOff,
	}
	assert.Equal(t, want, got)
}

func TestResolveDay_ApprovedExcuseBeatsAbsence(t *testing.T) {
	// 活动日已经过去，出勤记录是缺席，但请假已批准：周三应当是 EXCUSE_APPROVED
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	attendance := []*domain.AttendanceRecord{
		record(eventID(10), domain.NewTextDate("2024-03-06"), false, domain.AttendanceAbsent),
	}
	excuses := []*domain.ExcuseRequest{
		excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcuseApproved),
	}
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, testLoc)

	r := New(events, attendance, excuses, testLoc)
	assert.Equal(t, domain.DayStatusExcuseApproved, r.ResolveDay(wednesday, now))
}

func TestResolveDay_MidnightCheckInMatchesEventDay(t *testing.T) {
	// 签到时刻是本地时间周二 23:58（毫秒时间戳），但关联活动的日期是周三：
	// 匹配必须以活动日为准，周三是 CHECKED_IN，周二保持 OFF
	checkInAt := time.Date(2024, time.March, 5, 23, 58, 0, 0, testLoc)
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	attendance := []*domain.AttendanceRecord{
		record(eventID(10), domain.NewEpochDate(checkInAt.UnixMilli()), false, domain.AttendanceOnTime),
	}
	now := time.Date(2024, time.March, 8, 9, 0, 0, 0, testLoc)

	r := New(events, attendance, nil, testLoc)
	assert.Equal(t, domain.DayStatusCheckedIn, r.ResolveDay(wednesday, now))
	assert.Equal(t, domain.DayStatusOff, r.ResolveDay(dk(2024, time.March, 5), now))
}

func TestResolveDay_CheckedInBeatsPendingExcuse(t *testing.T) {
	// 同一天同时存在活动、签到记录和待审批的请假：签到优先
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	attendance := []*domain.AttendanceRecord{
		record(eventID(10), domain.NewTextDate("2024-03-06"), false, domain.AttendanceLate),
	}
	excuses := []*domain.ExcuseRequest{
		excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcusePending),
	}
	now := time.Date(2024, time.March, 8, 9, 0, 0, 0, testLoc)

	r := New(events, attendance, excuses, testLoc)
	assert.Equal(t, domain.DayStatusCheckedIn, r.ResolveDay(wednesday, now))
}

func TestResolveDay_NoEventDominates(t *testing.T) {
	// 没有活动的日子永远是 OFF，哪怕有出勤记录或请假恰好归一化到这一天
	// （例如另一个组织的活动记录混进了查询结果）
	attendance := []*domain.AttendanceRecord{
		record(nil, domain.NewTextDate("2024-03-06"), false, domain.AttendanceOnTime),
	}
	excuses := []*domain.ExcuseRequest{
		excuse(99, domain.NewTextDate("2024-03-06"), domain.ExcuseApproved),
	}
	now := time.Date(2024, time.March, 8, 9, 0, 0, 0, testLoc)

	r := New(nil, attendance, excuses, testLoc)
	assert.Equal(t, domain.DayStatusOff, r.ResolveDay(wednesday, now))
}

func TestResolveDay_FutureAlwaysScheduled(t *testing.T) {
	// 未来的活动日即使已经有记录（比如提前批准的请假）也显示 SCHEDULED
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	excuses := []*domain.ExcuseRequest{
		excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcuseApproved),
	}
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, testLoc)

	r := New(events, nil, excuses, testLoc)
	assert.Equal(t, domain.DayStatusScheduled, r.ResolveDay(wednesday, now))
}

func TestResolveDay_TodayVariants(t *testing.T) {
	now := time.Date(2024, time.March, 6, 12, 0, 0, 0, testLoc)
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}

	t.Run("今天已签到", func(t *testing.T) {
		attendance := []*domain.AttendanceRecord{
			record(eventID(10), domain.NewTextDate("2024-03-06"), false, domain.AttendanceOnTime),
		}
		r := New(events, attendance, nil, testLoc)
		assert.Equal(t, domain.DayStatusCheckedIn, r.ResolveDay(wednesday, now))
	})

	t.Run("今天请假已批准", func(t *testing.T) {
		excuses := []*domain.ExcuseRequest{
			excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcuseApproved),
		}
		r := New(events, nil, excuses, testLoc)
		assert.Equal(t, domain.DayStatusExcuseApproved, r.ResolveDay(wednesday, now))
	})

	t.Run("今天只有待审批的请假", func(t *testing.T) {
		// 待审批不影响结果未知的判断，今天仍然显示 SCHEDULED
		excuses := []*domain.ExcuseRequest{
			excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcusePending),
		}
		r := New(events, nil, excuses, testLoc)
		assert.Equal(t, domain.DayStatusScheduled, r.ResolveDay(wednesday, now))
	})
}

func TestResolveDay_PastOutcomes(t *testing.T) {
	// 活动日已经过去之后的各种结局
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, testLoc)
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}

	cases := []struct {
		name       string
		attendance []*domain.AttendanceRecord
		excuses    []*domain.ExcuseRequest
		want       domain.DayStatus
	}{
		{
			name: "没有任何记录",
			want: domain.DayStatusAbsent,
		},
		{
			name: "出勤记录标记为 EXCUSED",
			attendance: []*domain.AttendanceRecord{
				record(eventID(10), domain.NewTextDate("2024-03-06"), false, domain.AttendanceExcused),
			},
			want: domain.DayStatusExcuseApproved,
		},
		{
			name: "请假待审批",
			excuses: []*domain.ExcuseRequest{
				excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcusePending),
			},
			want: domain.DayStatusExcusePending,
		},
		{
			name: "请假被驳回",
			excuses: []*domain.ExcuseRequest{
				excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcuseDenied),
			},
			want: domain.DayStatusAbsent,
		},
		{
			name: "缺席记录加被驳回的请假",
			attendance: []*domain.AttendanceRecord{
				record(eventID(10), domain.NewTextDate("2024-03-06"), false, domain.AttendanceAbsent),
			},
			excuses: []*domain.ExcuseRequest{
				excuse(10, domain.NewTextDate("2024-03-06"), domain.ExcuseDenied),
			},
			want: domain.DayStatusAbsent,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := New(events, c.attendance, c.excuses, testLoc)
			assert.Equal(t, c.want, r.ResolveDay(wednesday, now))
		})
	}
}

func TestResolveDay_AdHocCheckInsExcluded(t *testing.T) {
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, testLoc)

	t.Run("临时签到不会让无活动的日子变色", func(t *testing.T) {
		attendance := []*domain.AttendanceRecord{
			record(nil, domain.NewTextDate("2024-03-06"), true, domain.AttendanceOnTime),
		}
		r := New(nil, attendance, nil, testLoc)
		assert.Equal(t, domain.DayStatusOff, r.ResolveDay(wednesday, now))
	})

	t.Run("临时签到不能抵充排定活动的出勤", func(t *testing.T) {
		events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
		attendance := []*domain.AttendanceRecord{
			record(nil, domain.NewTextDate("2024-03-06"), true, domain.AttendanceOnTime),
		}
		r := New(events, attendance, nil, testLoc)
		assert.Equal(t, domain.DayStatusAbsent, r.ResolveDay(wednesday, now))
	})
}

func TestResolveDay_UnlinkedRecordFallsBackToOwnDate(t *testing.T) {
	// 记录引用的活动不在本次拉取范围内时，回退到记录自身的日期来归位
	events := []*domain.ScheduledEvent{isoEvent(10, "2024-03-06")}
	attendance := []*domain.AttendanceRecord{
		record(eventID(999), domain.NewTextDate("2024-03-06"), false, domain.AttendanceOnTime),
	}
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, testLoc)

	r := New(events, attendance, nil, testLoc)
	assert.Equal(t, domain.DayStatusCheckedIn, r.ResolveDay(wednesday, now))
}

func TestResolveDay_MalformedRecordsIgnored(t *testing.T) {
	// 日期无法解析的记录被整体排除，不改变任何一天的结果，也绝不 panic
	events := []*domain.ScheduledEvent{
		isoEvent(10, "2024-03-06"),
		isoEvent(11, "garbage"),
	}
	attendance := []*domain.AttendanceRecord{
		record(eventID(999), domain.NewTextDate("not-a-date"), false, domain.AttendanceOnTime),
		record(nil, domain.FlexDate{}, false, domain.AttendanceOnTime),
	}
	excuses := []*domain.ExcuseRequest{
		excuse(999, domain.NewTextDate("2024-02-31"), domain.ExcuseApproved),
	}
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, testLoc)

	r := New(events, attendance, excuses, testLoc)
	got := r.BuildRange(sunday, 7, now)

	want := []domain.DayStatus{
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusAbsent,
		domain.DayStatusOff,
		domain.DayStatusOff,
		domain.DayStatusOff,
	}
	assert.Equal(t, want, got)
}

func TestBuildRange_EmptySources(t *testing.T) {
	now := time.Date(2024, time.March, 6, 12, 0, 0, 0, testLoc)

	r := New(nil, nil, nil, testLoc)
	got := r.BuildRange(sunday, 7, now)

	require.Len(t, got, 7)
	for _, status := range got {
		assert.Equal(t, domain.DayStatusOff, status)
	}
}

// 随机构造数据源并检查引擎必须保持的性质：
// 输出长度、状态取值范围、无活动日恒为 OFF、重复求值结果一致
func TestBuildRange_RandomizedProperties(t *testing.T) {
	validStatuses := map[domain.DayStatus]bool{
		domain.DayStatusOff:            true,
		domain.DayStatusScheduled:      true,
		domain.DayStatusCheckedIn:      true,
		domain.DayStatusExcuseApproved: true,
		domain.DayStatusExcusePending:  true,
		domain.DayStatusAbsent:         true,
	}
	attendanceStatuses := []domain.AttendanceStatus{
		domain.AttendanceOnTime, domain.AttendanceLate, domain.AttendanceAbsent, domain.AttendanceExcused,
	}
	excuseStatuses := []domain.ExcuseStatus{
		domain.ExcusePending, domain.ExcuseApproved, domain.ExcuseDenied,
	}

	rng := rand.New(rand.NewSource(20240306))
	const dayCount = 21

	randomDate := func(day DayKey) domain.FlexDate {
		instant := time.Date(day.Year, day.Month, day.Day, rng.Intn(24), rng.Intn(60), 0, 0, testLoc)
		switch rng.Intn(4) {
		case 0:
			return domain.NewEpochDate(instant.Unix())
		case 1:
			return domain.NewEpochDate(instant.UnixMilli())
		case 2:
			return domain.NewTextDate(day.String())
		default:
			return domain.NewTextDate(instant.Format("2006-01-02T15:04:05"))
		}
	}

	for i := 0; i < 200; i++ {
		var events []*domain.ScheduledEvent
		for id := int64(1); id <= 10; id++ {
			if rng.Intn(2) == 0 {
				continue
			}
			day := sunday.AddDays(rng.Intn(dayCount))
			events = append(events, &domain.ScheduledEvent{ID: id, OrganizationID: 1, Date: randomDate(day)})
		}

		var attendance []*domain.AttendanceRecord
		for j := 0; j < rng.Intn(8); j++ {
			rec := record(nil, randomDate(sunday.AddDays(rng.Intn(dayCount))), rng.Intn(5) == 0, attendanceStatuses[rng.Intn(len(attendanceStatuses))])
			if rng.Intn(2) == 0 {
				rec.EventID = eventID(int64(rng.Intn(12) + 1))
			}
			if rng.Intn(10) == 0 {
				rec.OccurredOn = domain.NewTextDate("broken")
			}
			attendance = append(attendance, rec)
		}

		var excuses []*domain.ExcuseRequest
		for j := 0; j < rng.Intn(5); j++ {
			excuses = append(excuses, excuse(int64(rng.Intn(12)+1), randomDate(sunday.AddDays(rng.Intn(dayCount))), excuseStatuses[rng.Intn(len(excuseStatuses))]))
		}

		now := time.Date(2024, time.March, 3+rng.Intn(dayCount), rng.Intn(24), 0, 0, 0, testLoc)

		got := New(events, attendance, excuses, testLoc).BuildRange(sunday, dayCount, now)
		require.Len(t, got, dayCount)

		// 同样的输入再算一遍，结果必须逐位一致
		again := New(events, attendance, excuses, testLoc).BuildRange(sunday, dayCount, now)
		require.Equal(t, got, again)

		eventfulDays := map[DayKey]bool{}
		for _, event := range events {
			if day, ok := ToDayKey(event.Date, testLoc); ok {
				eventfulDays[day] = true
			}
		}

		for offset, status := range got {
			require.True(t, validStatuses[status], "第 %d 天出现了枚举之外的状态 %s", offset, status)
			if !eventfulDays[sunday.AddDays(offset)] {
				require.Equal(t, domain.DayStatusOff, status, "无活动的日子必须是 OFF")
			}
		}
	}
}
