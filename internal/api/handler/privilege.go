package handler

import (
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
	"github.com/edvin/dbaccess/internal/model"
)

type Privilege struct {
	svc *core.CatalogService
}

func NewPrivilege(svc *core.CatalogService) *Privilege {
	return &Privilege{svc: svc}
}

func (h *Privilege) List(w http.ResponseWriter, r *http.Request) {
	privs, err := h.svc.ListPrivileges(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, privs)
}

func (h *Privilege) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePrivilege
	if !decode(w, r, &req) {
		return
	}

	priv, err := h.svc.CreatePrivilege(r.Context(), &model.Privilege{
		Name:           req.Name,
		Description:    req.Description,
		PrivilegeType:  req.PrivilegeType,
		TargetDatabase: req.TargetDatabase,
		TargetTable:    req.TargetTable,
		MySQLPrivilege: req.MySQLPrivilege,
		IsGlobal:       req.IsGlobal,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, priv)
}

func (h *Privilege) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	priv, err := h.svc.GetPrivilege(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, priv)
}

func (h *Privilege) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePrivilege(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
