package handler

import (
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
)

type Assignment struct {
	svc *core.AssignmentService
}

func NewAssignment(svc *core.AssignmentService) *Assignment {
	return &Assignment{svc: svc}
}

func (h *Assignment) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}

	assignments, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, assignments)
}

func (h *Assignment) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}
	var req request.AssignRole
	if !decode(w, r, &req) {
		return
	}

	result, err := h.svc.AssignScopedRole(r.Context(), core.AssignRoleParams{
		DBUserID:   userID,
		RoleID:     req.RoleID,
		Scope:      req.Scope(),
		AssignedBy: req.AssignedBy,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, createdStatus(result.Created), result)
}

func (h *Assignment) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.svc.RevokeScopedRole(r.Context(), userID, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, report)
}
