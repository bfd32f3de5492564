package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
)

type DatabaseUser struct {
	accounts *core.AccountService
	resolver *core.Resolver
	sync     *core.Synchronizer
}

func NewDatabaseUser(accounts *core.AccountService, resolver *core.Resolver, sync *core.Synchronizer) *DatabaseUser {
	return &DatabaseUser{accounts: accounts, resolver: resolver, sync: sync}
}

func (h *DatabaseUser) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, users)
}

// Create tracks an account. The native account is only created when a
// password is supplied.
func (h *DatabaseUser) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDatabaseUser
	if !decode(w, r, &req) {
		return
	}

	user, err := h.accounts.CreateAccount(r.Context(), core.CreateAccountParams{
		Username:    req.Username,
		Host:        req.Host,
		Description: req.Description,
		Password:    req.Password,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, user)
}

func (h *DatabaseUser) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user)
}

func (h *DatabaseUser) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	found, err := h.accounts.DeleteAccount(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !found {
		response.WriteError(w, http.StatusNotFound, "database user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DatabaseUser) EffectivePrivileges(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	eff, err := h.resolver.ResolveEffectivePrivileges(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, eff)
}

// Apply revokes everything the account holds and re-grants the union of its
// role privileges.
func (h *DatabaseUser) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req request.ApplyPrivileges
	if err := request.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.sync.ApplyPrivilegesToUser(r.Context(), id, req.Database)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, report)
}
