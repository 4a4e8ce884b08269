package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
)

func (h *Handler) GetAllOrganizations(w http.ResponseWriter, r *http.Request) {
	organizations, err := h.repository.GetAllOrganizations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织列表成功", organizations)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	h.successResponse(w, r, "获取组织信息成功", organization)
}
