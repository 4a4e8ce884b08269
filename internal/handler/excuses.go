package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/reconcile"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/utils"
)

func (h *Handler) SubmitExcuseRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		EventID int64  `json:"eventID" validate:"required"`
		Reason  string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	event, err := h.repository.GetEventByID(req.EventID)
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

	// 检查补交窗口
	if err := utils.ValidateExcuseBackfillWindow(event.Date, time.Now(), h.config.Excuse.BackfillDays); err != nil {
		h.badRequest(w, r, err)
		return
	}

	excuse := &domain.ExcuseRequest{
		UserID:         myInfo.ID,
		OrganizationID: organization.ID,
		EventID:        event.ID,
		OccurredOn:     event.Date,
		Reason:         req.Reason,
		Status:         domain.ExcusePending,
	}

	if err := h.repository.CreateExcuseRequest(excuse); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "excuse_requests_user_id_event_id_key":
				h.errorResponse(w, r, "同一活动不能重复提交请假申请")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "提交请假申请成功", excuse)
}

func (h *Handler) GetMyExcuses(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	now := time.Now()
	from := now.AddDate(0, 0, -90)
	to := now.AddDate(0, 0, 90)

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

	excuses, err := h.repository.GetExcusesByUserAndRange(organization.ID, myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假申请成功", excuses)
}

func (h *Handler) GetPendingExcuses(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	excuses, err := h.repository.GetPendingExcusesByOrganization(organization.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待审批请假申请成功", excuses)
}

func (h *Handler) ReviewExcuseRequest(w http.ResponseWriter, r *http.Request) {
	excuse := r.Context().Value(ExcuseCtx).(*domain.ExcuseRequest)

	var req struct {
		Status string `json:"status" validate:"required,oneof=APPROVED DENIED"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if excuse.Status != domain.ExcusePending {
		h.errorResponse(w, r, "该申请已经审批过")
		return
	}

	excuse.Status = domain.ExcuseStatus(req.Status)

	if err := h.repository.UpdateExcuseStatus(excuse); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "审批失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 准备通知邮件
	applicant, err := h.repository.GetUserByID(excuse.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	event, err := h.repository.GetEventByID(excuse.EventID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result := "已批准"
	if excuse.Status == domain.ExcuseDenied {
		result = "已驳回"
	}

	eventDate := event.Date.Text()
	if day, ok := reconcile.ToDayKey(event.Date, time.Local); ok {
		eventDate = day.String()
	}

	mailMessage := domain.MailMessage{
		Type: "excuse_reviewed",
		To:   applicant.Email,
		Data: domain.ExcuseReviewedMailData{
			FullName:   applicant.FullName,
			EventTitle: event.Title,
			EventDate:  eventDate,
			Result:     result,
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批完成", excuse)
}
