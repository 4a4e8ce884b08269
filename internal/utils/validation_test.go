package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func TestValidateExcuseBackfillWindow(t *testing.T) {
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.Local)

	t.Run("窗口内的活动允许补交", func(t *testing.T) {
		date := domain.NewTextDate("2024-03-06")
		assert.NoError(t, ValidateExcuseBackfillWindow(date, now, 7))
	})

	t.Run("未来的活动允许提交", func(t *testing.T) {
		date := domain.NewTextDate("2024-03-20")
		assert.NoError(t, ValidateExcuseBackfillWindow(date, now, 7))
	})

	t.Run("窗口边界当天仍然允许", func(t *testing.T) {
		date := domain.NewTextDate("2024-03-04")
		assert.NoError(t, ValidateExcuseBackfillWindow(date, now, 7))
	})

	t.Run("超出窗口的活动拒绝补交", func(t *testing.T) {
		date := domain.NewTextDate("2024-03-03")
		assert.Error(t, ValidateExcuseBackfillWindow(date, now, 7))
	})

	t.Run("无法解析的日期直接拒绝", func(t *testing.T) {
		date := domain.NewTextDate("garbage")
		assert.Error(t, ValidateExcuseBackfillWindow(date, now, 7))
	})
}
