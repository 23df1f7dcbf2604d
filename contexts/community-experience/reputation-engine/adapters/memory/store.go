package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"voyago/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "voyago/contexts/community-experience/reputation-engine/domain/errors"
	"voyago/contexts/community-experience/reputation-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory repository used by tests and local runs. One mutex
// serializes every write so each profile/review mutation is a single atomic
// unit.
type Store struct {
	mu sync.RWMutex

	profiles      map[string]entities.UserProfile
	nextReviewID  int64
	reviews       map[int64]entities.Review
	bookingReview map[int64]int64
	revieweeIndex map[string][]int64
	reviewerIndex map[string][]int64
	outbox        map[string]outboxRecord
	outboxOrder   []string
}

func NewStore() *Store {
	return &Store{
		profiles:      make(map[string]entities.UserProfile),
		nextReviewID:  1,
		reviews:       make(map[int64]entities.Review),
		bookingReview: make(map[int64]int64),
		revieweeIndex: make(map[string][]int64),
		reviewerIndex: make(map[string][]int64),
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) CreateProfile(_ context.Context, profile entities.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := strings.TrimSpace(profile.Identity)
	if existing, ok := s.profiles[identity]; ok && existing.IsActive {
		return domainerrors.ErrAlreadyRegistered
	}
	profile.Identity = identity
	s.profiles[identity] = profile
	return nil
}

func (s *Store) EnsureProfile(_ context.Context, identity string, at time.Time) (entities.UserProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity = strings.TrimSpace(identity)
	if profile, ok := s.profiles[identity]; ok {
		return profile, false, nil
	}
	profile := entities.NewProfile(identity, at)
	s.profiles[identity] = profile
	return profile, true, nil
}

func (s *Store) GetProfile(_ context.Context, identity string) (entities.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[strings.TrimSpace(identity)]
	if !ok {
		return entities.UserProfile{}, domainerrors.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) RecordReview(_ context.Context, input ports.RecordReviewInput) (entities.Review, entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review := input.Review
	if _, exists := s.bookingReview[review.BookingID]; exists {
		return entities.Review{}, entities.UserProfile{}, domainerrors.ErrDuplicateReview
	}
	reviewee, ok := s.profiles[review.Reviewee]
	if !ok {
		return entities.Review{}, entities.UserProfile{}, domainerrors.ErrProfileNotFound
	}

	review.ReviewID = s.nextReviewID
	s.nextReviewID++
	s.reviews[review.ReviewID] = review
	s.bookingReview[review.BookingID] = review.ReviewID
	s.revieweeIndex[review.Reviewee] = append(s.revieweeIndex[review.Reviewee], review.ReviewID)
	s.reviewerIndex[review.Reviewer] = append(s.reviewerIndex[review.Reviewer], review.ReviewID)

	reviewee.ApplyReviewReceived(review.Rating, input.TrustDelta, review.CreatedAt)
	s.profiles[review.Reviewee] = reviewee
	return review, reviewee, nil
}

func (s *Store) RecordBookingStats(_ context.Context, input ports.RecordStatsInput) (entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := strings.TrimSpace(input.Identity)
	profile, ok := s.profiles[identity]
	if !ok {
		return entities.UserProfile{}, domainerrors.ErrProfileNotFound
	}
	profile.ApplyBookingStats(input.Completed, input.Cancelled, input.TrustDelta, input.OccurredAt)
	s.profiles[identity] = profile
	return profile, nil
}

func (s *Store) MarkProfileVerified(_ context.Context, identity string, at time.Time) (entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity = strings.TrimSpace(identity)
	profile, ok := s.profiles[identity]
	if !ok {
		return entities.UserProfile{}, domainerrors.ErrProfileNotFound
	}
	profile.MarkVerified(at)
	s.profiles[identity] = profile
	return profile, nil
}

func (s *Store) MarkReviewVerified(_ context.Context, reviewID int64) (entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.reviews[reviewID]
	if !ok {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	review.IsVerified = true
	s.reviews[reviewID] = review
	return review, nil
}

func (s *Store) GetReview(_ context.Context, reviewID int64) (entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviews[reviewID]
	if !ok {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	return review, nil
}

func (s *Store) ListReviewIDsByReviewee(_ context.Context, identity string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.revieweeIndex[strings.TrimSpace(identity)]...), nil
}

func (s *Store) ListReviewIDsByReviewer(_ context.Context, identity string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.reviewerIndex[strings.TrimSpace(identity)]...), nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	outboxID := uuid.NewString()
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		},
	}
	s.outboxOrder = append(s.outboxOrder, outboxID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, outboxID := range s.outboxOrder {
		record := s.outbox[outboxID]
		if record.published {
			continue
		}
		items = append(items, record.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
