package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voyago/contexts/community-experience/reputation-engine/application/commands"
	"voyago/contexts/community-experience/reputation-engine/application/queries"
	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	httptransport "voyago/contexts/community-experience/reputation-engine/transport/http"
)

// DefaultGoodStandingThreshold is the trust score floor used when the
// caller does not supply one.
const DefaultGoodStandingThreshold = 50

type Handler struct {
	Register     commands.RegisterUserUseCase
	Submit       commands.SubmitReviewUseCase
	Stats        commands.UpdateBookingStatsUseCase
	VerifyReview commands.VerifyReviewUseCase
	VerifyUser   commands.VerifyUserUseCase
	Queries      queries.ReputationQueries
	Logger       *slog.Logger
}

func (h Handler) RegisterUserHandler(ctx context.Context, req httptransport.RegisterUserRequest) (httptransport.ProfileResponse, error) {
	profile, err := h.Register.RegisterUser(ctx, req.Identity)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: toProfileDTO(profile)}, nil
}

func (h Handler) SubmitReviewHandler(
	ctx context.Context,
	reviewer string,
	req httptransport.SubmitReviewRequest,
) (httptransport.SubmitReviewResponse, error) {
	result, err := h.Submit.SubmitReview(ctx, commands.SubmitReviewCommand{
		Reviewer:  reviewer,
		Reviewee:  req.Reviewee,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return httptransport.SubmitReviewResponse{}, err
	}
	resp := httptransport.SubmitReviewResponse{Status: "success"}
	resp.Data.Review = toReviewDTO(result.Review)
	resp.Data.Profile = toProfileDTO(result.Profile)
	return resp, nil
}

func (h Handler) UpdateBookingStatsHandler(
	ctx context.Context,
	caller string,
	req httptransport.UpdateBookingStatsRequest,
) (httptransport.ProfileResponse, error) {
	profile, err := h.Stats.UpdateBookingStats(ctx, commands.UpdateBookingStatsCommand{
		Caller:    caller,
		Identity:  req.Identity,
		Completed: req.Completed,
		Cancelled: req.Cancelled,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: toProfileDTO(profile)}, nil
}

func (h Handler) VerifyReviewHandler(ctx context.Context, caller string, reviewID int64) (httptransport.ReviewResponse, error) {
	review, err := h.VerifyReview.VerifyReview(ctx, caller, reviewID)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{Status: "success", Data: toReviewDTO(review)}, nil
}

func (h Handler) VerifyUserHandler(ctx context.Context, caller string, req httptransport.VerifyUserRequest) (httptransport.ProfileResponse, error) {
	profile, err := h.VerifyUser.VerifyUser(ctx, caller, req.Identity)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: toProfileDTO(profile)}, nil
}

func (h Handler) GetProfileHandler(ctx context.Context, identity string) (httptransport.ProfileResponse, error) {
	profile, err := h.Queries.GetProfile(ctx, identity)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Status: "success", Data: toProfileDTO(profile)}, nil
}

func (h Handler) GetAverageRatingHandler(ctx context.Context, identity string) (httptransport.AverageRatingResponse, error) {
	avg, err := h.Queries.GetUserAverageRating(ctx, identity)
	if err != nil {
		return httptransport.AverageRatingResponse{}, err
	}
	resp := httptransport.AverageRatingResponse{Status: "success"}
	resp.Data.Identity = identity
	resp.Data.AverageRatingX100 = avg
	return resp, nil
}

func (h Handler) GoodStandingHandler(ctx context.Context, identity string, threshold int) (httptransport.GoodStandingResponse, error) {
	if threshold <= 0 {
		threshold = DefaultGoodStandingThreshold
	}
	ok, err := h.Queries.IsUserInGoodStanding(ctx, identity, threshold)
	if err != nil {
		return httptransport.GoodStandingResponse{}, err
	}
	resp := httptransport.GoodStandingResponse{Status: "success"}
	resp.Data.Identity = identity
	resp.Data.Threshold = threshold
	resp.Data.GoodStanding = ok
	return resp, nil
}

func (h Handler) GetReviewHandler(ctx context.Context, reviewID int64) (httptransport.ReviewResponse, error) {
	review, err := h.Queries.GetReview(ctx, reviewID)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	return httptransport.ReviewResponse{Status: "success", Data: toReviewDTO(review)}, nil
}

func (h Handler) ListReceivedReviewsHandler(ctx context.Context, identity string) (httptransport.ReviewIDsResponse, error) {
	ids, err := h.Queries.GetUserReviews(ctx, identity)
	if err != nil {
		return httptransport.ReviewIDsResponse{}, err
	}
	return reviewIDsResponse(identity, ids), nil
}

func (h Handler) ListGivenReviewsHandler(ctx context.Context, identity string) (httptransport.ReviewIDsResponse, error) {
	ids, err := h.Queries.GetUserGivenReviews(ctx, identity)
	if err != nil {
		return httptransport.ReviewIDsResponse{}, err
	}
	return reviewIDsResponse(identity, ids), nil
}

func reviewIDsResponse(identity string, ids []int64) httptransport.ReviewIDsResponse {
	resp := httptransport.ReviewIDsResponse{Status: "success"}
	resp.Data.Identity = identity
	resp.Data.ReviewIDs = ids
	if resp.Data.ReviewIDs == nil {
		resp.Data.ReviewIDs = []int64{}
	}
	return resp
}

func toProfileDTO(profile entities.UserProfile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		Identity:             profile.Identity,
		TrustScore:           profile.TrustScore,
		IsVerified:           profile.IsVerified,
		TotalBookings:        profile.TotalBookings,
		CompletedBookings:    profile.CompletedBookings,
		CancelledBookings:    profile.CancelledBookings,
		TotalReviewsReceived: profile.TotalReviewsReceived,
		TotalRatingPoints:    profile.TotalRatingPoints,
		AverageRatingX100:    profile.AverageRatingTimes100(),
		IsActive:             profile.IsActive,
		RegisteredAt:         profile.RegisteredAt.UTC().Format(time.RFC3339),
		UpdatedAt:            profile.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toReviewDTO(review entities.Review) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ReviewID:   review.ReviewID,
		Reviewer:   review.Reviewer,
		Reviewee:   review.Reviewee,
		BookingID:  review.BookingID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		IsVerified: review.IsVerified,
		CreatedAt:  review.CreatedAt.UTC().Format(time.RFC3339),
	}
}
