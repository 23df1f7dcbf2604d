package commands

import (
	"context"
	"log/slog"
	"strings"

	"voyago/contexts/community-experience/reputation-engine/application"
	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

// SubmitReviewCommand is the write-model input for a peer review.
type SubmitReviewCommand struct {
	Reviewer  string
	Reviewee  string
	BookingID int64
	Rating    int
	Comment   string
}

// SubmitReviewResult returns the stored review and the reviewee profile
// after the rating was folded in.
type SubmitReviewResult struct {
	Review  entities.Review
	Profile entities.UserProfile
}

// SubmitReviewUseCase records one review per booking system-wide,
// auto-registering both parties on first contact, and nudges the reviewee
// trust score by the configured delta.
type SubmitReviewUseCase struct {
	Repo   ports.Repository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Deltas TrustDeltas
	Logger *slog.Logger
}

func (uc SubmitReviewUseCase) SubmitReview(ctx context.Context, cmd SubmitReviewCommand) (SubmitReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	cmd.Reviewer = strings.TrimSpace(cmd.Reviewer)
	cmd.Reviewee = strings.TrimSpace(cmd.Reviewee)
	if cmd.Reviewer == "" || cmd.Reviewee == "" || cmd.BookingID <= 0 {
		return SubmitReviewResult{}, domainerrors.ErrInvalidRequest
	}
	if cmd.Rating < entities.MinRating || cmd.Rating > entities.MaxRating {
		return SubmitReviewResult{}, domainerrors.ErrInvalidRating
	}
	if cmd.Reviewer == cmd.Reviewee {
		return SubmitReviewResult{}, domainerrors.ErrSelfReview
	}

	now := nowUTC(uc.Clock)
	// Both parties get a profile on first contact; implicit creation does not
	// emit a registration event.
	if _, _, err := uc.Repo.EnsureProfile(ctx, cmd.Reviewer, now); err != nil {
		return SubmitReviewResult{}, err
	}
	if _, _, err := uc.Repo.EnsureProfile(ctx, cmd.Reviewee, now); err != nil {
		return SubmitReviewResult{}, err
	}

	review, profile, err := uc.Repo.RecordReview(ctx, ports.RecordReviewInput{
		Review: entities.Review{
			Reviewer:  cmd.Reviewer,
			Reviewee:  cmd.Reviewee,
			BookingID: cmd.BookingID,
			Rating:    cmd.Rating,
			Comment:   cmd.Comment,
			CreatedAt: now,
		},
		TrustDelta: reviewTrustDelta(cmd.Rating, resolveDeltas(uc.Deltas)),
	})
	if err != nil {
		return SubmitReviewResult{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return SubmitReviewResult{}, err
		}
		event, err := newReputationEnvelope(eventID, "reputation.review_submitted", cmd.Reviewee, now, map[string]any{
			"review_id":  review.ReviewID,
			"reviewer":   cmd.Reviewer,
			"reviewee":   cmd.Reviewee,
			"booking_id": cmd.BookingID,
			"rating":     cmd.Rating,
		})
		if err != nil {
			return SubmitReviewResult{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return SubmitReviewResult{}, err
		}
	}

	logger.Info("review submitted",
		"event", "reputation_review_submitted",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"review_id", review.ReviewID,
		"reviewer", cmd.Reviewer,
		"reviewee", cmd.Reviewee,
		"booking_id", cmd.BookingID,
		"rating", cmd.Rating,
	)
	return SubmitReviewResult{Review: review, Profile: profile}, nil
}
