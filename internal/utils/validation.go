package utils

import (
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/reconcile"
)

// ValidateExcuseBackfillWindow 检查请假申请对应的活动日期是否还在补交窗口内
func ValidateExcuseBackfillWindow(eventDate domain.FlexDate, now time.Time, backfillDays int) error {
	day, ok := reconcile.ToDayKey(eventDate, now.Location())
	if !ok {
		return errors.New("活动日期无效")
	}

	earliest := reconcile.NewDayKey(now).AddDays(-backfillDays)
	if day.Before(earliest) {
		return errors.New("补交已超时，无法提交请假申请")
	}

	return nil
}
