package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/dbaccess/internal/api/request"
	"github.com/edvin/dbaccess/internal/api/response"
)

// urlID reads a required chi URL parameter. It writes a 400 and returns false
// when the parameter is empty.
func urlID(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	id, err := request.RequireID(chi.URLParam(r, key))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// decode parses and validates a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := request.Decode(r, v); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// createdStatus is 201 for a new row and 200 when an identical one was returned.
func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
