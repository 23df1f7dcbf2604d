package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	reputationerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	reputationhttp "voyago/contexts/community-experience/reputation-engine/transport/http"
)

func writeReputationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reputationhttp.ErrorResponse{Code: code, Message: message})
}

func writeReputationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputationerrors.ErrInvalidRequest):
		writeReputationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reputationerrors.ErrInvalidRating):
		writeReputationError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, reputationerrors.ErrSelfReview):
		writeReputationError(w, http.StatusUnprocessableEntity, "self_review", err.Error())
	case errors.Is(err, reputationerrors.ErrDuplicateReview):
		writeReputationError(w, http.StatusConflict, "duplicate_review", err.Error())
	case errors.Is(err, reputationerrors.ErrAlreadyRegistered):
		writeReputationError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, reputationerrors.ErrProfileNotFound),
		errors.Is(err, reputationerrors.ErrReviewNotFound):
		writeReputationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, reputationerrors.ErrUnauthorized),
		errors.Is(err, reputationerrors.ErrNotOwner):
		writeReputationError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeReputationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireReputationCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeReputationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return caller, true
}

func parseReviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	reviewID, err := strconv.ParseInt(r.PathValue("review_id"), 10, 64)
	if err != nil || reviewID <= 0 {
		writeReputationError(w, http.StatusBadRequest, "invalid_review_id", "review_id must be a positive integer")
		return 0, false
	}
	return reviewID, true
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.RegisterUserHandler(r.Context(), req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.GetProfileHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireReputationCaller(w, r)
	if !ok {
		return
	}
	req := reputationhttp.VerifyUserRequest{Identity: r.PathValue("identity")}
	resp, err := s.reputation.Handler.VerifyUserHandler(r.Context(), caller, req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAverageRating(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.GetAverageRatingHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoodStanding(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeReputationError(w, http.StatusBadRequest, "invalid_threshold", "threshold must be an integer")
			return
		}
		threshold = value
	}
	resp, err := s.reputation.Handler.GoodStandingHandler(r.Context(), r.PathValue("identity"), threshold)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListReceivedReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.ListReceivedReviewsHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGivenReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.ListGivenReviewsHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := requireReputationCaller(w, r)
	if !ok {
		return
	}
	var req reputationhttp.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.SubmitReviewHandler(r.Context(), reviewer, req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := parseReviewID(w, r)
	if !ok {
		return
	}
	resp, err := s.reputation.Handler.GetReviewHandler(r.Context(), reviewID)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireReputationCaller(w, r)
	if !ok {
		return
	}
	reviewID, ok := parseReviewID(w, r)
	if !ok {
		return
	}
	resp, err := s.reputation.Handler.VerifyReviewHandler(r.Context(), caller, reviewID)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBookingStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireReputationCaller(w, r)
	if !ok {
		return
	}
	var req reputationhttp.UpdateBookingStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.UpdateBookingStatsHandler(r.Context(), caller, req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
