package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	reputationengine "voyago/contexts/community-experience/reputation-engine"
	authorizationregistry "voyago/contexts/identity-access/authorization-registry"
	bookingledger "voyago/contexts/travel-core/booking-ledger"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "voyago/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	bookings   bookingledger.Module
	reputation reputationengine.Module
	authz      authorizationregistry.Module
}

func New(
	bookings bookingledger.Module,
	reputation reputationengine.Module,
	authz authorizationregistry.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		bookings:   bookings,
		reputation: reputation,
		authz:      authz,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/bookings/v1/bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /api/bookings/v1/bookings/{booking_id}", s.handleGetBooking)
	s.mux.HandleFunc("POST /api/bookings/v1/bookings/{booking_id}/confirm", s.handleConfirmBooking)
	s.mux.HandleFunc("POST /api/bookings/v1/bookings/{booking_id}/cancel", s.handleCancelBooking)
	s.mux.HandleFunc("POST /api/bookings/v1/bookings/{booking_id}/complete", s.handleCompleteBooking)
	s.mux.HandleFunc("GET /api/bookings/v1/bookings/{booking_id}/ledger", s.handleListLedgerEntries)
	s.mux.HandleFunc("GET /api/bookings/v1/users/{identity}/bookings", s.handleListUserBookings)

	s.mux.HandleFunc("GET /api/platform/v1/settings", s.handleGetPlatformSettings)
	s.mux.HandleFunc("POST /api/platform/v1/settings/fee", s.handleUpdatePlatformFee)
	s.mux.HandleFunc("POST /api/platform/v1/settings/fee-recipient", s.handleUpdateFeeRecipient)
	s.mux.HandleFunc("POST /api/platform/v1/settings/pause", s.handleSetPaused)

	s.mux.HandleFunc("POST /api/reputation/v1/users", s.handleRegisterUser)
	s.mux.HandleFunc("GET /api/reputation/v1/users/{identity}", s.handleGetProfile)
	s.mux.HandleFunc("POST /api/reputation/v1/users/{identity}/verify", s.handleVerifyUser)
	s.mux.HandleFunc("GET /api/reputation/v1/users/{identity}/average-rating", s.handleGetAverageRating)
	s.mux.HandleFunc("GET /api/reputation/v1/users/{identity}/good-standing", s.handleGoodStanding)
	s.mux.HandleFunc("GET /api/reputation/v1/users/{identity}/reviews", s.handleListReceivedReviews)
	s.mux.HandleFunc("GET /api/reputation/v1/users/{identity}/reviews/given", s.handleListGivenReviews)
	s.mux.HandleFunc("POST /api/reputation/v1/reviews", s.handleSubmitReview)
	s.mux.HandleFunc("GET /api/reputation/v1/reviews/{review_id}", s.handleGetReview)
	s.mux.HandleFunc("POST /api/reputation/v1/reviews/{review_id}/verify", s.handleVerifyReview)
	s.mux.HandleFunc("POST /api/reputation/v1/stats", s.handleUpdateBookingStats)

	s.mux.HandleFunc("POST /api/authz/v1/grants", s.handleSetAuthorization)
	s.mux.HandleFunc("GET /api/authz/v1/grants", s.handleListGrants)
	s.mux.HandleFunc("GET /api/authz/v1/grants/{caller}", s.handleGetGrant)
	s.mux.HandleFunc("GET /api/authz/v1/callers/{caller}/check", s.handleCheckAuthorization)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
