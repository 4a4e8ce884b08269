package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// 上游数据源中的日期存在三种线上形态：Unix 时间戳（秒或毫秒）、纯日历日期字符串、
// 带时间的 ISO 字符串。FlexDate 在反序列化时只记录形态和原始值，
// 具体归一化由 reconcile 包统一完成，避免在各个调用点上分别判断类型
type FlexDateKind int

const (
	FlexDateEmpty FlexDateKind = iota
	FlexDateEpoch
	FlexDateText
)

type FlexDate struct {
	kind  FlexDateKind
	epoch int64
	text  string
}

func NewEpochDate(v int64) FlexDate {
	return FlexDate{kind: FlexDateEpoch, epoch: v}
}

func NewTextDate(s string) FlexDate {
	if s == "" {
		return FlexDate{}
	}
	return FlexDate{kind: FlexDateText, text: s}
}

// FlexDateFromTime 以纯日历日期的文本形态存储，丢弃时刻信息
func FlexDateFromTime(t time.Time) FlexDate {
	if t.IsZero() {
		return FlexDate{}
	}
	return FlexDate{kind: FlexDateText, text: t.Format("2006-01-02")}
}

func (d FlexDate) Kind() FlexDateKind {
	return d.kind
}

func (d FlexDate) Epoch() int64 {
	return d.epoch
}

func (d FlexDate) Text() string {
	return d.text
}

func (d FlexDate) IsZero() bool {
	return d.kind == FlexDateEmpty
}

// UnmarshalJSON 接受数字和字符串两种 JSON 类型
// 其他类型（null、对象等）一律按空值处理，不返回错误，
// 留给 reconcile 包将其排除在匹配之外
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = FlexDate{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			*d = FlexDate{}
			return nil
		}
		*d = NewTextDate(text)
		return nil
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = NewEpochDate(v)
		return nil
	}

	// 部分客户端会把时间戳序列化成浮点数
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*d = NewEpochDate(int64(f))
		return nil
	}

	*d = FlexDate{}
	return nil
}

func (d FlexDate) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case FlexDateEpoch:
		return []byte(strconv.FormatInt(d.epoch, 10)), nil
	case FlexDateText:
		return json.Marshal(d.text)
	default:
		return []byte("null"), nil
	}
}

// Scan 让 FlexDate 可以直接作为数据库扫描目标，
// 数据库中的 DATE / TIMESTAMPTZ 列会以 time.Time 的形式传入
func (d *FlexDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = FlexDate{}
	case time.Time:
		*d = FlexDateFromTime(v)
	case string:
		*d = NewTextDate(v)
	case []byte:
		*d = NewTextDate(string(v))
	case int64:
		*d = NewEpochDate(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 FlexDate", value)
	}
	return nil
}

func (d FlexDate) Value() (driver.Value, error) {
	switch d.kind {
	case FlexDateEpoch:
		// 超过 9999999999 的时间戳按毫秒处理，与 reconcile 包的判断保持一致
		if d.epoch > 9_999_999_999 || d.epoch < -9_999_999_999 {
			return time.UnixMilli(d.epoch), nil
		}
		return time.Unix(d.epoch, 0), nil
	case FlexDateText:
		return d.text, nil
	default:
		return nil, nil
	}
}
