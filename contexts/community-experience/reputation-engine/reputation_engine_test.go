package reputationengine_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	reputationengine "voyago/contexts/community-experience/reputation-engine"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	httptransport "voyago/contexts/community-experience/reputation-engine/transport/http"
)

const reputationOwner = "owner-1"

type allowListAuthz struct {
	allowed map[string]bool
}

func (a allowListAuthz) IsAuthorized(_ context.Context, caller string) (bool, error) {
	return a.allowed[caller], nil
}

func newReputationModule(t *testing.T, allowed ...string) reputationengine.Module {
	t.Helper()
	authz := allowListAuthz{allowed: map[string]bool{}}
	for _, caller := range allowed {
		authz.allowed[caller] = true
	}
	return reputationengine.NewInMemoryModule(reputationOwner, authz, nil)
}

func TestRegisterUserStartsAtInitialTrust(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	resp, err := module.Handler.RegisterUserHandler(ctx, httptransport.RegisterUserRequest{Identity: "alice"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.Data.TrustScore != 100 {
		t.Fatalf("expected initial trust score 100, got %d", resp.Data.TrustScore)
	}
	if !resp.Data.IsActive || resp.Data.IsVerified {
		t.Fatalf("expected active unverified profile, got %+v", resp.Data)
	}

	_, err = module.Handler.RegisterUserHandler(ctx, httptransport.RegisterUserRequest{Identity: "alice"})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	_, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 1, Rating: 0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating for 0, got %v", err)
	}
	_, err = module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 1, Rating: 6,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating for 6, got %v", err)
	}
	_, err = module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "alice", BookingID: 1, Rating: 4,
	})
	if !errors.Is(err, domainerrors.ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
}

func TestOneReviewPerBookingAcrossAllPairs(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	if _, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 7, Rating: 5,
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	// Same booking, different reviewer/reviewee pair: still rejected.
	_, err := module.Handler.SubmitReviewHandler(ctx, "carol", httptransport.SubmitReviewRequest{
		Reviewee: "dave", BookingID: 7, Rating: 3,
	})
	if !errors.Is(err, domainerrors.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	if _, err := module.Handler.SubmitReviewHandler(ctx, "carol", httptransport.SubmitReviewRequest{
		Reviewee: "dave", BookingID: 8, Rating: 3,
	}); err != nil {
		t.Fatalf("review on a fresh booking failed: %v", err)
	}
}

func TestReviewTrustDeltasAndAverageRating(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	// No reviews yet: average is zero.
	avg, err := module.Handler.GetAverageRatingHandler(ctx, "bob")
	if err != nil {
		t.Fatalf("average rating query failed: %v", err)
	}
	if avg.Data.AverageRatingX100 != 0 {
		t.Fatalf("expected average 0 with no reviews, got %d", avg.Data.AverageRatingX100)
	}

	first, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 1, Rating: 5,
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if first.Data.Profile.TrustScore != 105 {
		t.Fatalf("expected trust 105 after rating 5, got %d", first.Data.Profile.TrustScore)
	}

	second, err := module.Handler.SubmitReviewHandler(ctx, "carol", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 2, Rating: 4,
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if second.Data.Profile.TrustScore != 110 {
		t.Fatalf("expected trust 110 after second positive review, got %d", second.Data.Profile.TrustScore)
	}

	neutral, err := module.Handler.SubmitReviewHandler(ctx, "dave", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 3, Rating: 3,
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if neutral.Data.Profile.TrustScore != 110 {
		t.Fatalf("expected neutral rating to leave trust at 110, got %d", neutral.Data.Profile.TrustScore)
	}

	negative, err := module.Handler.SubmitReviewHandler(ctx, "erin", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 4, Rating: 1,
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if negative.Data.Profile.TrustScore != 105 {
		t.Fatalf("expected trust 105 after negative review, got %d", negative.Data.Profile.TrustScore)
	}

	// (5+4+3+1)/4 = 3.25 reported as x100.
	avg, err = module.Handler.GetAverageRatingHandler(ctx, "bob")
	if err != nil {
		t.Fatalf("average rating query failed: %v", err)
	}
	if avg.Data.AverageRatingX100 != 325 {
		t.Fatalf("expected average 325, got %d", avg.Data.AverageRatingX100)
	}
}

func TestTrustScoreFloorClamp(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	var last httptransport.SubmitReviewResponse
	var err error
	for i := int64(1); i <= 25; i++ {
		last, err = module.Handler.SubmitReviewHandler(ctx, "critic", httptransport.SubmitReviewRequest{
			Reviewee: "victim", BookingID: i, Rating: 1,
		})
		if err != nil {
			t.Fatalf("review %d failed: %v", i, err)
		}
	}
	if last.Data.Profile.TrustScore != 1 {
		t.Fatalf("expected trust clamped at floor 1, got %d", last.Data.Profile.TrustScore)
	}
}

func TestTrustScoreStaysBoundedUnderRandomActivity(t *testing.T) {
	module := newReputationModule(t, "svc-booking-ledger")
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	bookingID := int64(0)
	for i := 0; i < 500; i++ {
		var err error
		var score int
		switch rng.Intn(3) {
		case 0:
			bookingID++
			var resp httptransport.SubmitReviewResponse
			resp, err = module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
				Reviewee: "bob", BookingID: bookingID, Rating: 1 + rng.Intn(5),
			})
			score = resp.Data.Profile.TrustScore
		case 1:
			var resp httptransport.ProfileResponse
			resp, err = module.Handler.UpdateBookingStatsHandler(ctx, "svc-booking-ledger", httptransport.UpdateBookingStatsRequest{
				Identity: "bob", Completed: true,
			})
			score = resp.Data.TrustScore
		default:
			var resp httptransport.ProfileResponse
			resp, err = module.Handler.UpdateBookingStatsHandler(ctx, "svc-booking-ledger", httptransport.UpdateBookingStatsRequest{
				Identity: "bob", Cancelled: true,
			})
			score = resp.Data.TrustScore
		}
		if err != nil {
			t.Fatalf("operation %d failed: %v", i, err)
		}
		if score < 1 || score > 1000 {
			t.Fatalf("trust score escaped its bounds at operation %d: %d", i, score)
		}
	}
}

func TestBookingStatsAuthorizationAndTrustCap(t *testing.T) {
	module := newReputationModule(t, "svc-booking-ledger")
	ctx := context.Background()

	_, err := module.Handler.UpdateBookingStatsHandler(ctx, "svc-rogue", httptransport.UpdateBookingStatsRequest{
		Identity: "bob", Completed: true,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	var profile httptransport.ProfileResponse
	for i := 0; i < 95; i++ {
		profile, err = module.Handler.UpdateBookingStatsHandler(ctx, "svc-booking-ledger", httptransport.UpdateBookingStatsRequest{
			Identity: "bob", Completed: true,
		})
		if err != nil {
			t.Fatalf("stats update %d failed: %v", i, err)
		}
	}
	if profile.Data.TrustScore != 1000 {
		t.Fatalf("expected trust capped at 1000, got %d", profile.Data.TrustScore)
	}
	if profile.Data.CompletedBookings != 95 || profile.Data.TotalBookings != 95 {
		t.Fatalf("unexpected booking counters: %+v", profile.Data)
	}

	cancelled, err := module.Handler.UpdateBookingStatsHandler(ctx, "svc-booking-ledger", httptransport.UpdateBookingStatsRequest{
		Identity: "bob", Cancelled: true,
	})
	if err != nil {
		t.Fatalf("cancelled stats update failed: %v", err)
	}
	if cancelled.Data.TrustScore != 980 {
		t.Fatalf("expected trust 980 after cancellation penalty, got %d", cancelled.Data.TrustScore)
	}
	if cancelled.Data.CancelledBookings != 1 {
		t.Fatalf("expected 1 cancelled booking, got %d", cancelled.Data.CancelledBookings)
	}
}

func TestVerifyUserIsOwnerOnlyAndOneTime(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	if _, err := module.Handler.RegisterUserHandler(ctx, httptransport.RegisterUserRequest{Identity: "alice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := module.Handler.VerifyUserHandler(ctx, "alice", httptransport.VerifyUserRequest{Identity: "alice"})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	verified, err := module.Handler.VerifyUserHandler(ctx, reputationOwner, httptransport.VerifyUserRequest{Identity: "alice"})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verified.Data.IsVerified || verified.Data.TrustScore != 150 {
		t.Fatalf("expected verified profile at trust 150, got %+v", verified.Data)
	}

	// The bonus is one-time; a repeat verification must not stack it.
	again, err := module.Handler.VerifyUserHandler(ctx, reputationOwner, httptransport.VerifyUserRequest{Identity: "alice"})
	if err != nil {
		t.Fatalf("repeat verify failed: %v", err)
	}
	if again.Data.TrustScore != 150 {
		t.Fatalf("expected trust to stay at 150, got %d", again.Data.TrustScore)
	}
}

func TestVerifyReviewRequiresAuthorizedCaller(t *testing.T) {
	module := newReputationModule(t, "svc-moderation")
	ctx := context.Background()

	review, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 1, Rating: 4,
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if _, err := module.Handler.VerifyReviewHandler(ctx, "alice", review.Data.Review.ReviewID); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	verified, err := module.Handler.VerifyReviewHandler(ctx, "svc-moderation", review.Data.Review.ReviewID)
	if err != nil {
		t.Fatalf("verify review failed: %v", err)
	}
	if !verified.Data.IsVerified {
		t.Fatalf("expected review to be verified")
	}
}

func TestListReviewsByParty(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	for i, reviewee := range []string{"bob", "carol", "bob"} {
		if _, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
			Reviewee: reviewee, BookingID: int64(i + 1), Rating: 4,
		}); err != nil {
			t.Fatalf("review %d failed: %v", i, err)
		}
	}

	received, err := module.Handler.ListReceivedReviewsHandler(ctx, "bob")
	if err != nil {
		t.Fatalf("list received failed: %v", err)
	}
	if len(received.Data.ReviewIDs) != 2 {
		t.Fatalf("expected 2 reviews received by bob, got %v", received.Data.ReviewIDs)
	}

	given, err := module.Handler.ListGivenReviewsHandler(ctx, "alice")
	if err != nil {
		t.Fatalf("list given failed: %v", err)
	}
	if len(given.Data.ReviewIDs) != 3 {
		t.Fatalf("expected 3 reviews given by alice, got %v", given.Data.ReviewIDs)
	}

	none, err := module.Handler.ListReceivedReviewsHandler(ctx, "nobody")
	if err != nil {
		t.Fatalf("list for unknown identity failed: %v", err)
	}
	if len(none.Data.ReviewIDs) != 0 {
		t.Fatalf("expected empty id list, got %v", none.Data.ReviewIDs)
	}
}

func TestReviewSubmittedOutboxEnvelope(t *testing.T) {
	module := newReputationModule(t)
	ctx := context.Background()

	if _, err := module.Handler.SubmitReviewHandler(ctx, "alice", httptransport.SubmitReviewRequest{
		Reviewee: "bob", BookingID: 1, Rating: 5,
	}); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	outbox, err := module.Store.ListPendingOutbox(ctx, 50)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}

	found := false
	for _, msg := range outbox {
		if msg.EventType != "reputation.review_submitted" {
			continue
		}
		found = true
		var envelope map[string]any
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			t.Fatalf("decode outbox envelope: %v", err)
		}
		if source, _ := envelope["source_service"].(string); source != "reputation-engine" {
			t.Fatalf("unexpected source_service: %s", source)
		}
		if key, _ := envelope["partition_key"].(string); key != "bob" {
			t.Fatalf("expected envelope partitioned by reviewee, got %s", key)
		}
		data, _ := envelope["data"].(map[string]any)
		if rating, _ := data["rating"].(float64); rating != 5 {
			t.Fatalf("unexpected rating in payload: %v", data["rating"])
		}
	}
	if !found {
		t.Fatalf("expected reputation.review_submitted event in outbox")
	}
}
