package httpserver

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	reputationengine "voyago/contexts/community-experience/reputation-engine"
	authorizationregistry "voyago/contexts/identity-access/authorization-registry"
	bookingledger "voyago/contexts/travel-core/booking-ledger"
	bookingentities "voyago/contexts/travel-core/booking-ledger/domain/entities"
	bookinghttp "voyago/contexts/travel-core/booking-ledger/transport/http"
)

const (
	testOwner        = "owner-1"
	testFeeRecipient = "treasury-1"
)

func newTestServer() *Server {
	authzModule := authorizationregistry.NewInMemoryModule(testOwner, nil)
	reputationModule := reputationengine.NewInMemoryModule(testOwner, authzModule.Queries, nil)
	bookingModule := bookingledger.NewInMemoryModule(bookingentities.PlatformSettings{
		Owner:        testOwner,
		FeeRecipient: testFeeRecipient,
		FeeBps:       250,
	}, nil)
	return New(bookingModule, reputationModule, authzModule, nil, "")
}

func doJSON(t *testing.T, server *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	return rec
}

func createBookingBody(t *testing.T) string {
	t.Helper()
	payload := bookinghttp.CreateBookingRequest{
		Kind:           "hotel",
		Amount:         10000,
		ServiceDate:    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		ContentRef:     "ipfs://booking-meta-1",
		Refundable:     true,
		RefundDeadline: time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return string(raw)
}

func TestCreateBookingRequiresUserHeader(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, "POST", "/api/bookings/v1/bookings", "", createBookingBody(t))
	if rec.Code != 401 {
		t.Fatalf("expected 401 without X-User-Id, got %d", rec.Code)
	}
	var errResp bookinghttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "missing_user" {
		t.Fatalf("unexpected error code: %s", errResp.Code)
	}
}

func TestCreateBookingRejectsInvalidJSON(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("POST", "/api/bookings/v1/bookings", strings.NewReader("{not json"))
	req.Header.Set("X-User-Id", "cust-1")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("POST", "/api/bookings/v1/bookings", strings.NewReader(createBookingBody(t)))
	req.Header.Set("X-User-Id", "cust-1")
	req.Header.Set("Idempotency-Key", "idem-http-1")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200 on create, got %d: %s", rec.Code, rec.Body.String())
	}
	var created bookinghttp.CreateBookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Status != "success" || created.Data.BookingID != 1 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// Owner confirms the booking.
	rec = doJSON(t, server, "POST", "/api/bookings/v1/bookings/1/confirm", testOwner, "")
	if rec.Code != 200 {
		t.Fatalf("expected 200 on confirm, got %d: %s", rec.Code, rec.Body.String())
	}
	var confirmed bookinghttp.BookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &confirmed); err != nil {
		t.Fatalf("decode confirm response: %v", err)
	}
	if confirmed.Data.Status != "confirmed" {
		t.Fatalf("expected confirmed status, got %s", confirmed.Data.Status)
	}

	rec = doJSON(t, server, "GET", "/api/bookings/v1/bookings/1/ledger", "", "")
	if rec.Code != 200 {
		t.Fatalf("expected 200 on ledger read, got %d", rec.Code)
	}
	var ledger bookinghttp.LedgerEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ledger); err != nil {
		t.Fatalf("decode ledger response: %v", err)
	}
	if len(ledger.Data) != 1 || ledger.Data[0].EntryType != "hold" {
		t.Fatalf("expected a single hold entry, got %+v", ledger.Data)
	}
}

func TestGetBookingInvalidIDAndNotFound(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, "GET", "/api/bookings/v1/bookings/abc", "", "")
	if rec.Code != 400 {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}

	rec = doJSON(t, server, "GET", "/api/bookings/v1/bookings/999", "", "")
	if rec.Code != 404 {
		t.Fatalf("expected 404 for unknown booking, got %d", rec.Code)
	}
}

func TestCancelBookingForbiddenForNonCustomer(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("POST", "/api/bookings/v1/bookings", strings.NewReader(createBookingBody(t)))
	req.Header.Set("X-User-Id", "cust-1")
	req.Header.Set("Idempotency-Key", "idem-http-2")
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, "POST", "/api/bookings/v1/bookings/1/cancel", "intruder", "")
	if rec.Code != 403 {
		t.Fatalf("expected 403 for non-customer cancel, got %d", rec.Code)
	}
}

func TestPlatformFeeEndpointValidation(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, "POST", "/api/platform/v1/settings/fee", "cust-1", `{"fee_bps":100}`)
	if rec.Code != 403 {
		t.Fatalf("expected 403 for non-owner fee update, got %d", rec.Code)
	}

	rec = doJSON(t, server, "POST", "/api/platform/v1/settings/fee", testOwner, `{"fee_bps":1001}`)
	if rec.Code != 422 {
		t.Fatalf("expected 422 for fee above the cap, got %d", rec.Code)
	}

	rec = doJSON(t, server, "POST", "/api/platform/v1/settings/fee", testOwner, `{"fee_bps":300}`)
	if rec.Code != 200 {
		t.Fatalf("expected 200 on valid fee update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, "GET", "/api/platform/v1/settings", "", "")
	if rec.Code != 200 {
		t.Fatalf("expected 200 on settings read, got %d", rec.Code)
	}
	var settings bookinghttp.PlatformSettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings response: %v", err)
	}
	if settings.Data.FeeBps != 300 {
		t.Fatalf("expected fee bps 300, got %d", settings.Data.FeeBps)
	}
}
