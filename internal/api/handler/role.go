package handler

import (
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
)

type Role struct {
	svc *core.CatalogService
}

func NewRole(svc *core.CatalogService) *Role {
	return &Role{svc: svc}
}

func (h *Role) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.ListRoles(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, roles)
}

func (h *Role) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRole
	if !decode(w, r, &req) {
		return
	}

	role, err := h.svc.CreateRole(r.Context(), req.Name, req.Description, req.IsDatabaseRole)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, role)
}

func (h *Role) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	role, err := h.svc.GetRole(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, role)
}

func (h *Role) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteRole(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Role) ListPrivileges(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	privs, err := h.svc.ListRolePrivileges(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, privs)
}

func (h *Role) AddPrivilege(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req request.LinkRolePrivilege
	if !decode(w, r, &req) {
		return
	}

	created, err := h.svc.AddRolePrivilege(r.Context(), id, req.PrivilegeID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, createdStatus(created), map[string]any{
		"role_id":      id,
		"privilege_id": req.PrivilegeID,
		"created":      created,
	})
}

func (h *Role) RemovePrivilege(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	privilegeID, ok := urlID(w, r, "privilegeID")
	if !ok {
		return
	}

	if err := h.svc.RemoveRolePrivilege(r.Context(), id, privilegeID); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
