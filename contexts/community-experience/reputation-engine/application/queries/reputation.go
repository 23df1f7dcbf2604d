package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"
)

// ReputationQueries serves read accessors over profiles and reviews.
type ReputationQueries struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

func (q ReputationQueries) GetProfile(ctx context.Context, identity string) (entities.UserProfile, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	return q.Repo.GetProfile(ctx, identity)
}

// GetUserAverageRating returns the mean received rating scaled by 100, or 0
// when the user has no reviews or no profile at all.
func (q ReputationQueries) GetUserAverageRating(ctx context.Context, identity string) (int64, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	profile, err := q.Repo.GetProfile(ctx, identity)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProfileNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return profile.AverageRatingTimes100(), nil
}

func (q ReputationQueries) IsUserInGoodStanding(ctx context.Context, identity string, threshold int) (bool, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, domainerrors.ErrInvalidRequest
	}
	profile, err := q.Repo.GetProfile(ctx, identity)
	if err != nil {
		return false, err
	}
	return profile.TrustScore >= threshold, nil
}

func (q ReputationQueries) GetUserReviews(ctx context.Context, identity string) ([]int64, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return q.Repo.ListReviewIDsByReviewee(ctx, identity)
}

func (q ReputationQueries) GetUserGivenReviews(ctx context.Context, identity string) ([]int64, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return q.Repo.ListReviewIDsByReviewer(ctx, identity)
}

func (q ReputationQueries) GetReview(ctx context.Context, reviewID int64) (entities.Review, error) {
	if reviewID <= 0 {
		return entities.Review{}, domainerrors.ErrInvalidRequest
	}
	return q.Repo.GetReview(ctx, reviewID)
}
