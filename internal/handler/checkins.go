package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		EventID *int64 `json:"eventID"`
		Status  string `json:"status" validate:"required,oneof=ON_TIME LATE"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 关联了活动的签到需要校验活动归属
	if req.EventID != nil {
		event, err := h.repository.GetEventByID(*req.EventID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "活动不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if event.OrganizationID != organization.ID {
			h.errorResponse(w, r, "活动不属于该组织")
			return
		}
	}

	record := &domain.AttendanceRecord{
		UserID:         myInfo.ID,
		OrganizationID: organization.ID,
		EventID:        req.EventID,
		OccurredOn:     domain.NewEpochDate(time.Now().UnixMilli()),
		IsAdHoc:        req.EventID == nil,
		Status:         domain.AttendanceStatus(req.Status),
	}

	if err := h.repository.CreateAttendanceRecord(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "签到成功", record)
}

func (h *Handler) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	limit := 50
	if param := r.URL.Query().Get("limit"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "数量参数无效")
			return
		}
		limit = n
	}
	if limit > 200 {
		limit = 200
	}

	records, err := h.repository.GetRecentAttendanceByUser(organization.ID, myInfo.ID, limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取出勤记录成功", records)
}
