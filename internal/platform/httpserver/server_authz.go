package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authzerrors "voyago/contexts/identity-access/authorization-registry/domain/errors"
	authzhttp "voyago/contexts/identity-access/authorization-registry/transport/http"
)

func writeAuthzError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authzhttp.ErrorResponse{Code: code, Message: message})
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrInvalidRequest):
		writeAuthzError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrGrantNotFound):
		writeAuthzError(w, http.StatusNotFound, "grant_not_found", err.Error())
	case errors.Is(err, authzerrors.ErrNotOwner):
		writeAuthzError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAuthzError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleSetAuthorization(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeAuthzError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req authzhttp.SetAuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authz.Handler.SetAuthorizationHandler(r.Context(), caller, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGrants(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authz.Handler.ListGrantsHandler(r.Context())
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGrant(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authz.Handler.GetGrantHandler(r.Context(), r.PathValue("caller"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAuthorization(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authz.Handler.CheckAuthorizationHandler(r.Context(), r.PathValue("caller"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
