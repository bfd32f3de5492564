package handler

import (
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
)

type DirectPrivilege struct {
	svc *core.DirectGrantService
}

func NewDirectPrivilege(svc *core.DirectGrantService) *DirectPrivilege {
	return &DirectPrivilege{svc: svc}
}

func (h *DirectPrivilege) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}

	privs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, privs)
}

func (h *DirectPrivilege) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}
	var req request.GrantDirectPrivilege
	if !decode(w, r, &req) {
		return
	}

	result, err := h.svc.GrantDirect(r.Context(), core.GrantDirectParams{
		DBUserID:       userID,
		Privilege:      req.PrivilegeType,
		TargetDatabase: req.TargetDatabase,
		TargetTable:    req.TargetTable,
		GrantedBy:      req.GrantedBy,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, createdStatus(result.Created), result)
}

func (h *DirectPrivilege) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "userID")
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.RevokeDirect(r.Context(), userID, id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
