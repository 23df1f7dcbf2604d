package bookingledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	bookingledger "voyago/contexts/travel-core/booking-ledger"
	"voyago/contexts/travel-core/booking-ledger/adapters/memory"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	httptransport "voyago/contexts/travel-core/booking-ledger/transport/http"
)

const (
	testOwner        = "owner-1"
	testFeeRecipient = "treasury-1"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestModule(t *testing.T) (bookingledger.Module, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore(entities.PlatformSettings{
		Owner:        testOwner,
		FeeRecipient: testFeeRecipient,
		FeeBps:       250,
	})
	clk := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	module := bookingledger.NewModule(bookingledger.Dependencies{
		Repository:     store,
		Settings:       store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          clk,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
	})
	module.Store = store
	return module, store, clk
}

func createTestBooking(
	t *testing.T,
	module bookingledger.Module,
	clk *fakeClock,
	idemKey string,
	refundable bool,
) httptransport.CreateBookingResponse {
	t.Helper()
	resp, err := module.Handler.CreateBookingHandler(context.Background(), "cust-1", idemKey, httptransport.CreateBookingRequest{
		Kind:           "hotel",
		Amount:         10000,
		ServiceDate:    clk.now.Add(72 * time.Hour).Format(time.RFC3339),
		ContentRef:     "ipfs://booking-meta-1",
		Refundable:     refundable,
		RefundDeadline: clk.now.Add(48 * time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	return resp
}

func TestCreateBookingAssignsSequentialIDsAndEscrowHold(t *testing.T) {
	module, store, clk := newTestModule(t)

	first := createTestBooking(t, module, clk, "idem-1", true)
	second := createTestBooking(t, module, clk, "idem-2", true)

	if first.Data.BookingID != 1 || second.Data.BookingID != 2 {
		t.Fatalf("expected sequential booking ids 1,2 got %d,%d", first.Data.BookingID, second.Data.BookingID)
	}
	if first.Data.Status != string(entities.StatusPending) {
		t.Fatalf("expected pending status, got %s", first.Data.Status)
	}

	entries, err := store.ListLedgerEntries(context.Background(), first.Data.BookingID)
	if err != nil {
		t.Fatalf("list ledger entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].EntryType != entities.EntryHold {
		t.Fatalf("expected single hold entry, got %+v", entries)
	}
	if entries[0].Amount != 10000 {
		t.Fatalf("expected hold amount 10000, got %d", entries[0].Amount)
	}
}

func TestCreateBookingRejectsZeroAmountAndPastServiceDate(t *testing.T) {
	module, _, clk := newTestModule(t)
	ctx := context.Background()

	_, err := module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-zero", httptransport.CreateBookingRequest{
		Kind:        "flight",
		Amount:      0,
		ServiceDate: clk.now.Add(time.Hour).Format(time.RFC3339),
		ContentRef:  "ipfs://x",
	})
	if !errors.Is(err, domainerrors.ErrAmountZero) {
		t.Fatalf("expected ErrAmountZero, got %v", err)
	}

	_, err = module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-past", httptransport.CreateBookingRequest{
		Kind:        "flight",
		Amount:      100,
		ServiceDate: clk.now.Add(-time.Hour).Format(time.RFC3339),
		ContentRef:  "ipfs://x",
	})
	if !errors.Is(err, domainerrors.ErrPastServiceDate) {
		t.Fatalf("expected ErrPastServiceDate, got %v", err)
	}
}

func TestCreateBookingIdempotencyReplayAndConflict(t *testing.T) {
	module, _, clk := newTestModule(t)
	ctx := context.Background()

	req := httptransport.CreateBookingRequest{
		Kind:        "coworking",
		Amount:      4000,
		ServiceDate: clk.now.Add(24 * time.Hour).Format(time.RFC3339),
		ContentRef:  "ipfs://cw-1",
	}
	first, err := module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-replay", req)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-replay", req)
	if err != nil {
		t.Fatalf("replayed create failed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed response on duplicate idempotency key")
	}
	if first.Data.BookingID != second.Data.BookingID {
		t.Fatalf("replay returned different booking id: %d vs %d", first.Data.BookingID, second.Data.BookingID)
	}

	req.Amount = 9999
	_, err = module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-replay", req)
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestPausedPlatformBlocksCreationOnly(t *testing.T) {
	module, _, clk := newTestModule(t)
	ctx := context.Background()

	created := createTestBooking(t, module, clk, "idem-pause-1", true)

	if _, err := module.Handler.SetPausedHandler(ctx, testOwner, true); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	_, err := module.Handler.CreateBookingHandler(ctx, "cust-1", "idem-pause-2", httptransport.CreateBookingRequest{
		Kind:        "hotel",
		Amount:      500,
		ServiceDate: clk.now.Add(time.Hour).Format(time.RFC3339),
		ContentRef:  "ipfs://paused",
	})
	if !errors.Is(err, domainerrors.ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}

	// Lifecycle transitions keep working while paused.
	confirmed, err := module.Handler.ConfirmBookingHandler(ctx, testOwner, created.Data.BookingID)
	if err != nil {
		t.Fatalf("confirm while paused failed: %v", err)
	}
	if confirmed.Data.Status != string(entities.StatusConfirmed) {
		t.Fatalf("expected confirmed status, got %s", confirmed.Data.Status)
	}
}

func TestConfirmBookingIsOwnerOnly(t *testing.T) {
	module, _, clk := newTestModule(t)
	ctx := context.Background()

	created := createTestBooking(t, module, clk, "idem-confirm", true)

	if _, err := module.Handler.ConfirmBookingHandler(ctx, "cust-1", created.Data.BookingID); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	confirmed, err := module.Handler.ConfirmBookingHandler(ctx, testOwner, created.Data.BookingID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Data.ConfirmedAt == "" {
		t.Fatalf("expected confirmed_at to be set")
	}

	if _, err := module.Handler.ConfirmBookingHandler(ctx, testOwner, created.Data.BookingID); !errors.Is(err, domainerrors.ErrNotPending) {
		t.Fatalf("expected ErrNotPending on double confirm, got %v", err)
	}
}

func TestCancelRefundableBookingSplitsFeeExactly(t *testing.T) {
	module, store, clk := newTestModule(t)
	ctx := context.Background()

	created := createTestBooking(t, module, clk, "idem-cancel-refund", true)

	resp, err := module.Handler.CancelBookingHandler(ctx, "cust-1", created.Data.BookingID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !resp.Data.Refunded {
		t.Fatalf("expected refunded cancellation before the deadline")
	}
	if resp.Data.Booking.Status != string(entities.StatusRefunded) {
		t.Fatalf("expected refunded status, got %s", resp.Data.Booking.Status)
	}
	// 250 bps of 10000.
	if resp.Data.FeeAmount != 250 || resp.Data.RefundAmount != 9750 {
		t.Fatalf("unexpected split fee=%d refund=%d", resp.Data.FeeAmount, resp.Data.RefundAmount)
	}
	if resp.Data.FeeAmount+resp.Data.RefundAmount != 10000 {
		t.Fatalf("fee+refund must equal the escrowed amount")
	}

	entries, err := store.ListLedgerEntries(ctx, created.Data.BookingID)
	if err != nil {
		t.Fatalf("list ledger entries failed: %v", err)
	}
	var sawRefund, sawFee bool
	for _, entry := range entries {
		switch entry.EntryType {
		case entities.EntryRefund:
			sawRefund = entry.Amount == 9750 && entry.Party == "cust-1"
		case entities.EntryFee:
			sawFee = entry.Amount == 250 && entry.Party == testFeeRecipient
		}
	}
	if !sawRefund || !sawFee {
		t.Fatalf("expected refund and fee journal entries, got %+v", entries)
	}

	if _, err := module.Handler.CancelBookingHandler(ctx, "cust-1", created.Data.BookingID); !errors.Is(err, domainerrors.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled on second cancel, got %v", err)
	}
}

func TestCancelPastDeadlineForfeitsEscrow(t *testing.T) {
	module, store, clk := newTestModule(t)
	ctx := context.Background()

	created := createTestBooking(t, module, clk, "idem-cancel-forfeit", true)
	clk.now = clk.now.Add(49 * time.Hour) // past the refund deadline

	resp, err := module.Handler.CancelBookingHandler(ctx, "cust-1", created.Data.BookingID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if resp.Data.Refunded {
		t.Fatalf("expected forfeiting cancellation after the deadline")
	}
	if resp.Data.Booking.Status != string(entities.StatusCancelled) {
		t.Fatalf("expected cancelled status, got %s", resp.Data.Booking.Status)
	}

	entries, err := store.ListLedgerEntries(ctx, created.Data.BookingID)
	if err != nil {
		t.Fatalf("list ledger entries failed: %v", err)
	}
	var sawForfeit bool
	for _, entry := range entries {
		if entry.EntryType == entities.EntryForfeit {
			sawForfeit = entry.Amount == 10000 && entry.Party == testFeeRecipient
		}
	}
	if !sawForfeit {
		t.Fatalf("expected forfeit journal entry, got %+v", entries)
	}
}

func TestCancelBookingIsCustomerOnly(t *testing.T) {
	module, _, clk := newTestModule(t)

	created := createTestBooking(t, module, clk, "idem-cancel-caller", true)
	_, err := module.Handler.CancelBookingHandler(context.Background(), "someone-else", created.Data.BookingID)
	if !errors.Is(err, domainerrors.ErrNotCustomer) {
		t.Fatalf("expected ErrNotCustomer, got %v", err)
	}
}

func TestCompleteBookingWaitsForServiceDate(t *testing.T) {
	module, store, clk := newTestModule(t)
	ctx := context.Background()

	created := createTestBooking(t, module, clk, "idem-complete", false)

	if _, err := module.Handler.CompleteBookingHandler(ctx, testOwner, created.Data.BookingID); !errors.Is(err, domainerrors.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed on pending booking, got %v", err)
	}
	if _, err := module.Handler.ConfirmBookingHandler(ctx, testOwner, created.Data.BookingID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if _, err := module.Handler.CompleteBookingHandler(ctx, testOwner, created.Data.BookingID); !errors.Is(err, domainerrors.ErrServiceDateNotReached) {
		t.Fatalf("expected ErrServiceDateNotReached, got %v", err)
	}

	clk.now = clk.now.Add(73 * time.Hour)
	resp, err := module.Handler.CompleteBookingHandler(ctx, testOwner, created.Data.BookingID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Data.Status != string(entities.StatusCompleted) {
		t.Fatalf("expected completed status, got %s", resp.Data.Status)
	}

	entries, err := store.ListLedgerEntries(ctx, created.Data.BookingID)
	if err != nil {
		t.Fatalf("list ledger entries failed: %v", err)
	}
	var sawRelease bool
	for _, entry := range entries {
		if entry.EntryType == entities.EntryRelease {
			sawRelease = entry.Amount == 10000 && entry.Party == testFeeRecipient
		}
	}
	if !sawRelease {
		t.Fatalf("expected release journal entry, got %+v", entries)
	}

	if _, err := module.Handler.CompleteBookingHandler(ctx, testOwner, created.Data.BookingID); !errors.Is(err, domainerrors.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed on settled booking, got %v", err)
	}
}

func TestPlatformFeeBoundsAndOwnerGate(t *testing.T) {
	module, _, _ := newTestModule(t)
	ctx := context.Background()

	if _, err := module.Handler.UpdatePlatformFeeHandler(ctx, "cust-1", httptransport.UpdatePlatformFeeRequest{FeeBps: 100}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := module.Handler.UpdatePlatformFeeHandler(ctx, testOwner, httptransport.UpdatePlatformFeeRequest{FeeBps: 1001}); !errors.Is(err, domainerrors.ErrFeeTooHigh) {
		t.Fatalf("expected ErrFeeTooHigh, got %v", err)
	}

	resp, err := module.Handler.UpdatePlatformFeeHandler(ctx, testOwner, httptransport.UpdatePlatformFeeRequest{FeeBps: 1000})
	if err != nil {
		t.Fatalf("update fee failed: %v", err)
	}
	if resp.Data.FeeBps != 1000 {
		t.Fatalf("expected fee bps 1000, got %d", resp.Data.FeeBps)
	}
}

func TestBookingCreatedOutboxEnvelopeIsCanonical(t *testing.T) {
	module, store, clk := newTestModule(t)
	created := createTestBooking(t, module, clk, "idem-envelope", true)

	outbox, err := store.ListPendingOutbox(context.Background(), 50)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}

	found := false
	for _, msg := range outbox {
		if msg.EventType != "booking.created" {
			continue
		}
		found = true
		var envelope map[string]any
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			t.Fatalf("decode outbox envelope: %v", err)
		}
		if source, _ := envelope["source_service"].(string); source != "booking-ledger" {
			t.Fatalf("unexpected source_service: %s", source)
		}
		if path, _ := envelope["partition_key_path"].(string); path != "booking_id" {
			t.Fatalf("unexpected partition_key_path: %s", path)
		}
		if key, _ := envelope["partition_key"].(string); key != "1" {
			t.Fatalf("unexpected partition_key: %s", key)
		}
	}
	if !found {
		t.Fatalf("expected booking.created event in outbox for booking %d", created.Data.BookingID)
	}
}
