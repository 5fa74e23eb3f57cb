package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/spendwise/internal/entity/feedback"
	"max.ks1230/spendwise/internal/model/customerr"
)

type fakeFeedback struct {
	records   []feedback.Record
	reactions []feedback.TipReaction
}

func (f *fakeFeedback) AppendFeedback(_ context.Context, rec feedback.Record) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeFeedback) ReadAllFeedback(_ context.Context) ([]feedback.Record, error) {
	return f.records, nil
}

func (f *fakeFeedback) AppendTipReaction(_ context.Context, rec feedback.TipReaction) error {
	f.reactions = append(f.reactions, rec)
	return nil
}

func (f *fakeFeedback) ReadAllTipReactions(_ context.Context) ([]feedback.TipReaction, error) {
	return f.reactions, nil
}

func newTestFeedback() (*Service, *fakeFeedback) {
	store := &fakeFeedback{}
	s := NewService(store)
	s.clock = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return s, store
}

func Test_OnSubmit_ShouldAppendTimestampedRecord(t *testing.T) {
	s, store := newTestFeedback()

	err := s.Submit(context.Background(), "maria", "Love the AI tips feature — very helpful!", 5)

	require.NoError(t, err)
	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "maria", rec.Username)
	assert.Equal(t, 5, rec.Rating)
	assert.Equal(t, "Love the AI tips feature — very helpful!", rec.Text)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), rec.Timestamp)
}

func Test_OnSubmit_ShouldRejectRatingOutsideBounds(t *testing.T) {
	s, store := newTestFeedback()
	ctx := context.Background()

	var vErr *customerr.ValidationError
	assert.ErrorAs(t, s.Submit(ctx, "maria", "text", 0), &vErr)
	assert.ErrorAs(t, s.Submit(ctx, "maria", "text", 6), &vErr)
	assert.Empty(t, store.records)

	assert.NoError(t, s.Submit(ctx, "maria", "text", 1))
	assert.NoError(t, s.Submit(ctx, "maria", "text", 5))
}

func Test_OnSubmit_ShouldRejectBlankText(t *testing.T) {
	s, store := newTestFeedback()

	var vErr *customerr.ValidationError
	assert.ErrorAs(t, s.Submit(context.Background(), "maria", "   ", 3), &vErr)
	assert.Empty(t, store.records)
}

func Test_OnTipReaction_ShouldAppendTimestampedVote(t *testing.T) {
	s, store := newTestFeedback()

	err := s.SubmitTipReaction(context.Background(), "maria", "Cook at home twice a week.", feedback.ReactionUp)

	require.NoError(t, err)
	require.Len(t, store.reactions, 1)
	rec := store.reactions[0]
	assert.Equal(t, "maria", rec.Username)
	assert.Equal(t, "Cook at home twice a week.", rec.Tip)
	assert.Equal(t, feedback.ReactionUp, rec.Reaction)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), rec.Timestamp)
}

func Test_OnTipReaction_ShouldRejectUnknownReaction(t *testing.T) {
	s, store := newTestFeedback()
	ctx := context.Background()

	var vErr *customerr.ValidationError
	assert.ErrorAs(t, s.SubmitTipReaction(ctx, "maria", "tip", "meh"), &vErr)
	assert.ErrorAs(t, s.SubmitTipReaction(ctx, "maria", "   ", feedback.ReactionUp), &vErr)
	assert.Empty(t, store.reactions)

	assert.NoError(t, s.SubmitTipReaction(ctx, "maria", "tip", feedback.ReactionDown))
}

func Test_OnListTipReactions_ShouldReturnNewestFirst(t *testing.T) {
	s, store := newTestFeedback()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.reactions = []feedback.TipReaction{
		{Timestamp: base, Username: "a", Tip: "first", Reaction: feedback.ReactionUp},
		{Timestamp: base.Add(time.Hour), Username: "b", Tip: "second", Reaction: feedback.ReactionDown},
	}

	recs, err := s.ListTipReactionsNewestFirst(context.Background())

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[0].Tip)
	assert.Equal(t, "first", recs[1].Tip)
}

func Test_OnListNewestFirst_ShouldSortByTimestampDescending(t *testing.T) {
	s, store := newTestFeedback()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.records = []feedback.Record{
		{Timestamp: base, Username: "a", Rating: 3, Text: "first"},
		{Timestamp: base.Add(2 * time.Hour), Username: "b", Rating: 4, Text: "third"},
		{Timestamp: base.Add(time.Hour), Username: "c", Rating: 5, Text: "second"},
	}

	recs, err := s.ListNewestFirst(context.Background())

	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "third", recs[0].Text)
	assert.Equal(t, "second", recs[1].Text)
	assert.Equal(t, "first", recs[2].Text)
}
