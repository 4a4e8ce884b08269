package reconcile

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// 测试统一使用 UTC 以西的时区，这样任何按 UTC 解释日期的错误都会表现为跨天漂移
var testLoc = time.FixedZone("UTC-8", -8*60*60)

func dk(year int, month time.Month, day int) DayKey {
	return DayKey{Year: year, Month: month, Day: day}
}

func TestToDayKey_SameDayAcrossShapes(t *testing.T) {
	// 同一个本地日历日（2024-03-06）的四种线上形态必须归一化到同一个 DayKey
	instant := time.Date(2024, time.March, 6, 10, 0, 0, 0, testLoc)

	cases := []struct {
		name string
		date domain.FlexDate
	}{
		{"秒级时间戳", domain.NewEpochDate(instant.Unix())},
		{"毫秒级时间戳", domain.NewEpochDate(instant.UnixMilli())},
		{"纯数字字符串时间戳", domain.NewTextDate(strconv.FormatInt(instant.Unix(), 10))},
		{"纯日期字符串", domain.NewTextDate("2024-03-06")},
		{"带时间的 ISO 字符串", domain.NewTextDate("2024-03-06T10:00:00")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			day, ok := ToDayKey(c.date, testLoc)
			require.True(t, ok)
			assert.Equal(t, dk(2024, time.March, 6), day)
		})
	}
}

func TestToDayKey_WestOfUTCNoDrift(t *testing.T) {
	// UTC 时间 2024-03-06 00:30 在 UTC-8 还是 3 月 5 日，
	// 归一化必须取本地日历日而不是 UTC 日历日
	utcInstant := time.Date(2024, time.March, 6, 0, 30, 0, 0, time.UTC)

	day, ok := ToDayKey(domain.NewEpochDate(utcInstant.Unix()), testLoc)
	require.True(t, ok)
	assert.Equal(t, dk(2024, time.March, 5), day)

	day, ok = ToDayKey(domain.NewEpochDate(utcInstant.UnixMilli()), testLoc)
	require.True(t, ok)
	assert.Equal(t, dk(2024, time.March, 5), day)
}

func TestToDayKey_DatetimeStringIgnoresTimePart(t *testing.T) {
	// 带时间的字符串只取 T 之前的部分，后缀的时区标记不参与解析
	for _, s := range []string{
		"2024-03-06T23:59:59",
		"2024-03-06T23:59:59.999Z",
		"2024-03-06T00:00:00+08:00",
	} {
		day, ok := ToDayKey(domain.NewTextDate(s), testLoc)
		require.True(t, ok, s)
		assert.Equal(t, dk(2024, time.March, 6), day, s)
	}
}

func TestToDayKey_EpochDigitBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		value int64
		ok    bool
	}{
		{"8 位数字不是时间戳", 99_999_999, false},
		{"9 位数字按秒处理", 100_000_000, true},
		{"恰好 10 位上限按秒处理", 9_999_999_999, true},
		{"11 位按毫秒处理", 10_000_000_000, true},
		{"零值", 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := ToDayKey(domain.NewEpochDate(c.value), testLoc)
			assert.Equal(t, c.ok, ok)
		})
	}

	// 秒和毫秒的分界两侧应当落在相差千倍的时刻上
	day, ok := ToDayKey(domain.NewEpochDate(10_000_000_000), testLoc)
	require.True(t, ok)
	assert.Equal(t, NewDayKey(time.UnixMilli(10_000_000_000).In(testLoc)), day)
}

func TestToDayKey_Malformed(t *testing.T) {
	cases := []struct {
		name string
		date domain.FlexDate
	}{
		{"空值", domain.FlexDate{}},
		{"空字符串", domain.NewTextDate("")},
		{"非日期文本", domain.NewTextDate("not-a-date")},
		{"斜杠分隔", domain.NewTextDate("06/03/2024")},
		{"缺少日", domain.NewTextDate("2024-03")},
		{"不存在的日期", domain.NewTextDate("2024-02-31")},
		{"不存在的月份", domain.NewTextDate("2024-13-01")},
		{"分量不是数字", domain.NewTextDate("2024-0a-01")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := ToDayKey(c.date, testLoc)
			assert.False(t, ok)
		})
	}
}

func TestToDayKey_NilLocationFallsBackToLocal(t *testing.T) {
	day, ok := ToDayKey(domain.NewTextDate("2024-03-06"), nil)
	require.True(t, ok)
	assert.Equal(t, dk(2024, time.March, 6), day)
}

func TestDayKey_AddDays(t *testing.T) {
	assert.Equal(t, dk(2024, time.March, 9), dk(2024, time.March, 3).AddDays(6))
	// 跨月
	assert.Equal(t, dk(2024, time.April, 2), dk(2024, time.March, 31).AddDays(2))
	// 闰年二月
	assert.Equal(t, dk(2024, time.February, 29), dk(2024, time.February, 28).AddDays(1))
	// 跨年和负偏移
	assert.Equal(t, dk(2025, time.January, 1), dk(2024, time.December, 31).AddDays(1))
	assert.Equal(t, dk(2024, time.December, 31), dk(2025, time.January, 1).AddDays(-1))
}

func TestDayKey_Ordering(t *testing.T) {
	earlier := dk(2024, time.March, 5)
	later := dk(2024, time.March, 6)

	assert.True(t, earlier.Before(later))
	assert.True(t, later.After(earlier))
	assert.False(t, earlier.Before(earlier))
	assert.False(t, earlier.After(earlier))
	assert.True(t, dk(2023, time.December, 31).Before(dk(2024, time.January, 1)))
}

func TestDayKey_String(t *testing.T) {
	assert.Equal(t, "2024-03-06", dk(2024, time.March, 6).String())
	assert.Equal(t, "0999-01-02", dk(999, time.January, 2).String())
}
