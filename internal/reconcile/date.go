package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

// DayKey 是本地日历意义上的 (年, 月, 日)，用来把不同来源、不同形态的日期对齐到同一天
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDayKey(t time.Time) DayKey {
	return DayKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (k DayKey) AddDays(n int) DayKey {
	// 取正午做日期运算，避开夏令时切换时可能不存在的时刻
	t := time.Date(k.Year, k.Month, k.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return NewDayKey(t)
}

func (k DayKey) Before(other DayKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

func (k DayKey) After(other DayKey) bool {
	return other.Before(k)
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

const maxEpochSeconds = 9_999_999_999

// ToDayKey 把任意线上形态的日期归一化成本地日历日
// 无法解析时返回 ok = false，调用方应当把对应记录排除在匹配之外，而不是报错：
// 上游数据的缺陷最多让某个点显示错误的状态，绝不能让整个视图崩溃
func ToDayKey(d domain.FlexDate, loc *time.Location) (DayKey, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch d.Kind() {
	case domain.FlexDateEpoch:
		return epochToDayKey(d.Epoch(), loc)
	case domain.FlexDateText:
		return textToDayKey(d.Text(), loc)
	default:
		return DayKey{}, false
	}
}

// 十进制位数不超过 8 位的数字不可能是合法的时间戳，按无法解析处理
func epochToDayKey(v int64, loc *time.Location) (DayKey, bool) {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs <= 99_999_999 {
		return DayKey{}, false
	}

	var t time.Time
	if abs > maxEpochSeconds {
		// 大于 9999999999 的时间戳是毫秒，否则是秒
		t = time.UnixMilli(v)
	} else {
		t = time.Unix(v, 0)
	}

	// 必须先转换到本地时区再取日历日，直接按 UTC 取会让 UTC 以西的用户差一天
	return NewDayKey(t.In(loc)), true
}

func textToDayKey(s string, loc *time.Location) (DayKey, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DayKey{}, false
	}

	// 部分数据源会把时间戳序列化成纯数字字符串
	if isAllDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return DayKey{}, false
		}
		return epochToDayKey(v, loc)
	}

	// 带时间的 ISO 字符串只取 T 之前的日历日部分
	// 绝不能把整串交给按 UTC 解释的解析器，否则会发生跨天漂移
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		s = s[:idx]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DayKey{}, false
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return DayKey{}, false
	}

	// 借助 time.Date 的规范化行为反向校验各分量，拒绝 2024-02-31 这类日期
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return DayKey{}, false
	}

	return DayKey{Year: year, Month: time.Month(month), Day: day}, true
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
