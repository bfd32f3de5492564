package handler

import (
	"net/http"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
	"github.com/edvin/dbaccess/internal/core"
)

type Maintenance struct {
	accounts *core.AccountService
}

func NewMaintenance(accounts *core.AccountService) *Maintenance {
	return &Maintenance{accounts: accounts}
}

// SyncAccounts creates native accounts for every tracked user the server is
// missing.
func (h *Maintenance) SyncAccounts(w http.ResponseWriter, r *http.Request) {
	var req request.SyncAccounts
	if !decode(w, r, &req) {
		return
	}

	report, err := h.accounts.SyncAccounts(r.Context(), req.DefaultPassword)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, report)
}
