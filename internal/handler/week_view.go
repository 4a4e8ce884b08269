package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/reconcile"
)

type weekDayStatus struct {
	Date   string           `json:"date"`
	Status domain.DayStatus `json:"status"`
}

func (h *Handler) GetMyWeekStatuses(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	now := time.Now()
	loc := now.Location()

	// 解析起始日，缺省取最近的周日
	startDay := reconcile.NewDayKey(now).AddDays(-int(now.Weekday()))
	if param := r.URL.Query().Get("start"); param != "" {
		day, ok := reconcile.ToDayKey(domain.NewTextDate(param), loc)
		if !ok {
			h.errorResponse(w, r, "起始日期无效")
			return
		}
		startDay = day
	}

	dayCount := h.config.WeekView.DefaultDayCount
	if param := r.URL.Query().Get("days"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "天数无效")
			return
		}
		dayCount = n
	}
	if dayCount > h.config.WeekView.MaxDayCount {
		dayCount = h.config.WeekView.MaxDayCount
	}

	// 先查缓存
	cacheKey := fmt.Sprintf("week_view_%d_%d_%s_%d", organization.ID, myInfo.ID, startDay, dayCount)

	cacheCtx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(cacheCtx, cacheKey).Result(); err == nil {
		days := make([]weekDayStatus, 0)
		if err := json.Unmarshal([]byte(cached), &days); err == nil {
			h.successResponse(w, r, "获取周视图成功", days)
			return
		}
	}

	// 三个数据源相互独立，并发拉取
	// 查询区间在两端各留一天余量：临近午夜的签到时刻可能被记在活动日的前后一天
	rangeStart := time.Date(startDay.Year, startDay.Month, startDay.Day, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	endDay := startDay.AddDays(dayCount)
	rangeEnd := time.Date(endDay.Year, endDay.Month, endDay.Day, 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	var (
		wg         sync.WaitGroup
		events     []*domain.ScheduledEvent
		attendance []*domain.AttendanceRecord
		excuses    []*domain.ExcuseRequest

		eventsErr     error
		attendanceErr error
		excusesErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		events, eventsErr = h.repository.GetEventsByOrganizationAndRange(organization.ID, rangeStart, rangeEnd)
	}()
	go func() {
		defer wg.Done()
		attendance, attendanceErr = h.repository.GetAttendanceByUserAndRange(organization.ID, myInfo.ID, rangeStart, rangeEnd)
	}()
	go func() {
		defer wg.Done()
		excuses, excusesErr = h.repository.GetExcusesByUserAndRange(organization.ID, myInfo.ID, rangeStart, rangeEnd)
	}()
	wg.Wait()

	for _, err := range []error{eventsErr, attendanceErr, excusesErr} {
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	// 三个快照都就绪后才交给和解引擎，引擎自身没有加载中的概念
	statuses := reconcile.New(events, attendance, excuses, loc).BuildRange(startDay, dayCount, now)

	days := make([]weekDayStatus, 0, dayCount)
	for offset, status := range statuses {
		days = append(days, weekDayStatus{
			Date:   startDay.AddDays(offset).String(),
			Status: status,
		})
	}

	// 写入缓存，失败只记日志不影响响应
	if data, err := json.Marshal(days); err == nil {
		if err := h.redisClient.Set(cacheCtx, cacheKey, data, time.Duration(h.config.WeekView.CacheExpiration)*time.Second).Err(); err != nil {
			slog.Warn("写入周视图缓存失败", "error", err)
		}
	}

	h.successResponse(w, r, "获取周视图成功", days)
}
