package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/reconcile"
)

func (h *Handler) GetOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 60)

	if param := r.URL.Query().Get("from"); param != "" {
		t, err := time.ParseInLocation("2006-01-02", param, now.Location())
		if err != nil {
			h.errorResponse(w, r, "起始日期无效")
			return
		}
		from = t
	}
	if param := r.URL.Query().Get("to"); param != "" {
		t, err := time.ParseInLocation("2006-01-02", param, now.Location())
		if err != nil {
			h.errorResponse(w, r, "结束日期无效")
			return
		}
		to = t
	}

	events, err := h.repository.GetEventsByOrganizationAndRange(organization.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取活动列表成功", events)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Title string `json:"title" validate:"required"`
		Date  string `json:"date" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 检查日期是否能归一化到某个日历日
	date := domain.NewTextDate(req.Date)
	if _, ok := reconcile.ToDayKey(date, time.Local); !ok {
		h.badRequest(w, r, errors.New("活动日期格式错误"))
		return
	}

	event := &domain.ScheduledEvent{
		OrganizationID: organization.ID,
		Title:          req.Title,
		Date:           date,
	}

	if err := h.repository.CreateEvent(event); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "scheduled_events_organization_id_fkey":
				h.errorResponse(w, r, "组织不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建活动成功", event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.ScheduledEvent)

	if err := h.repository.DeleteEvent(event.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除活动成功", nil)
}
