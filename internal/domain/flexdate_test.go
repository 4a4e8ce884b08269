package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexDate_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Date FlexDate `json:"date"`
	}

	// 数字形态
	require.NoError(t, json.Unmarshal([]byte(`{"date":1709748000}`), &payload))
	assert.Equal(t, FlexDateEpoch, payload.Date.Kind())
	assert.Equal(t, int64(1709748000), payload.Date.Epoch())

	// 字符串形态
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-06T10:00:00"}`), &payload))
	assert.Equal(t, FlexDateText, payload.Date.Kind())
	assert.Equal(t, "2024-03-06T10:00:00", payload.Date.Text())

	// null 和其他 JSON 类型按空值处理，不报错
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &payload))
	assert.True(t, payload.Date.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"date":true}`), &payload))
	assert.True(t, payload.Date.IsZero())

	// 浮点时间戳截断成整数
	require.NoError(t, json.Unmarshal([]byte(`{"date":1709748000.75}`), &payload))
	assert.Equal(t, int64(1709748000), payload.Date.Epoch())
}

func TestFlexDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewEpochDate(1709748000))
	require.NoError(t, err)
	assert.Equal(t, "1709748000", string(data))

	data, err = json.Marshal(NewTextDate("2024-03-06"))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-06"`, string(data))

	data, err = json.Marshal(FlexDate{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFlexDate_Scan(t *testing.T) {
	var d FlexDate

	require.NoError(t, d.Scan(time.Date(2024, time.March, 6, 15, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-06", d.Text())

	require.NoError(t, d.Scan("2024-03-07"))
	assert.Equal(t, "2024-03-07", d.Text())

	require.NoError(t, d.Scan([]byte("2024-03-08")))
	assert.Equal(t, "2024-03-08", d.Text())

	require.NoError(t, d.Scan(int64(1709748000)))
	assert.Equal(t, int64(1709748000), d.Epoch())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(3.14))
}

func TestFlexDate_Value(t *testing.T) {
	v, err := NewEpochDate(1709748000).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1709748000, 0), v)

	// 毫秒时间戳
	v, err = NewEpochDate(1709748000000).Value()
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1709748000000), v)

	v, err = NewTextDate("2024-03-06").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", v)

	v, err = FlexDate{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
