package feedback

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"max.ks1230/spendwise/internal/entity/feedback"
	"max.ks1230/spendwise/internal/model/customerr"
)

type feedbackStorage interface {
	AppendFeedback(ctx context.Context, rec feedback.Record) error
	ReadAllFeedback(ctx context.Context) ([]feedback.Record, error)
	AppendTipReaction(ctx context.Context, rec feedback.TipReaction) error
	ReadAllTipReactions(ctx context.Context) ([]feedback.TipReaction, error)
}

type Service struct {
	storage feedbackStorage
	clock   func() time.Time
}

func NewService(storage feedbackStorage) *Service {
	return &Service{storage: storage, clock: time.Now}
}

// Submit validates at the store boundary: ratings outside 1..5 are
// rejected, not clamped, and blank text never reaches the log.
func (s *Service) Submit(ctx context.Context, username, text string, rating int) error {
	if username == "" {
		return customerr.NewValidation("username is required")
	}
	if strings.TrimSpace(text) == "" {
		return customerr.NewValidation("feedback text is required")
	}
	if rating < feedback.MinRating || rating > feedback.MaxRating {
		return customerr.NewValidation("rating must be between 1 and 5")
	}

	rec := feedback.Record{
		Timestamp: s.clock().UTC(),
		Username:  username,
		Rating:    rating,
		Text:      text,
	}
	return errors.Wrap(s.storage.AppendFeedback(ctx, rec), "submit feedback")
}

func (s *Service) List(ctx context.Context) ([]feedback.Record, error) {
	recs, err := s.storage.ReadAllFeedback(ctx)
	return recs, errors.Wrap(err, "list feedback")
}

// ListNewestFirst is the admin-view ordering.
func (s *Service) ListNewestFirst(ctx context.Context) ([]feedback.Record, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
	return recs, nil
}

// SubmitTipReaction logs a thumbs-up/down vote on a served tip.
func (s *Service) SubmitTipReaction(ctx context.Context, username, tip, reaction string) error {
	if username == "" {
		return customerr.NewValidation("username is required")
	}
	if strings.TrimSpace(tip) == "" {
		return customerr.NewValidation("tip text is required")
	}
	if reaction != feedback.ReactionUp && reaction != feedback.ReactionDown {
		return customerr.NewValidation("reaction must be up or down")
	}

	rec := feedback.TipReaction{
		Timestamp: s.clock().UTC(),
		Username:  username,
		Tip:       tip,
		Reaction:  reaction,
	}
	return errors.Wrap(s.storage.AppendTipReaction(ctx, rec), "submit tip reaction")
}

func (s *Service) ListTipReactionsNewestFirst(ctx context.Context) ([]feedback.TipReaction, error) {
	recs, err := s.storage.ReadAllTipReactions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tip reactions")
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
	return recs, nil
}
