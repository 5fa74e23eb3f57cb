package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/model/customerr"
)

type fakeExpenses struct {
	byUser map[string][]expense.Record
}

func newFakeExpenses() *fakeExpenses {
	return &fakeExpenses{byUser: make(map[string][]expense.Record)}
}

func (f *fakeExpenses) AppendExpense(_ context.Context, username string, rec expense.Record) error {
	f.byUser[username] = append(f.byUser[username], rec)
	return nil
}

func (f *fakeExpenses) ListExpenses(_ context.Context, username string) ([]expense.Record, error) {
	return f.byUser[username], nil
}

type categoriesConfig []string

func (c categoriesConfig) Categories() []string { return c }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLedger() (*Service, *fakeExpenses) {
	store := newFakeExpenses()
	return NewService(store, categoriesConfig(nil)), store
}

func Test_OnAppend_ShouldRejectNonPositiveAmount(t *testing.T) {
	s, store := newTestLedger()
	ctx := context.Background()

	var vErr *customerr.ValidationError
	err := s.Append(ctx, "maria", expense.Record{Date: day(1), Category: expense.Food, Amount: amount("0")})
	assert.ErrorAs(t, err, &vErr)
	err = s.Append(ctx, "maria", expense.Record{Date: day(1), Category: expense.Food, Amount: amount("-5")})
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, store.byUser["maria"])
}

func Test_OnAppend_ShouldRejectUnknownCategory(t *testing.T) {
	s, _ := newTestLedger()

	var vErr *customerr.ValidationError
	err := s.Append(context.Background(), "maria", expense.Record{Date: day(1), Category: "Yachts", Amount: amount("10")})
	assert.ErrorAs(t, err, &vErr)
}

func Test_OnListByUser_ShouldReturnRecordsInAppendOrder(t *testing.T) {
	s, _ := newTestLedger()
	ctx := context.Background()

	recs := []expense.Record{
		{Date: day(5), Category: expense.Food, Amount: amount("12.50"), Description: "Lunch"},
		{Date: day(1), Category: expense.Transport, Amount: amount("5.00"), Description: "Bus"},
		{Date: day(9), Category: expense.Food, Amount: amount("35.00"), Description: "Groceries"},
	}
	for _, rec := range recs {
		require.NoError(t, s.Append(ctx, "maria", rec))
	}

	got, err := s.ListByUser(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func Test_OnTotalsByCategory_ShouldZeroFillKnownCategories(t *testing.T) {
	s, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(5), Category: expense.Food, Amount: amount("12.50")}))

	totals, err := s.TotalsByCategory(ctx, "maria", day(1))
	require.NoError(t, err)
	require.Len(t, totals, len(expense.DefaultCategories))
	assert.Equal(t, "12.50", totals[expense.Food].StringFixed(2))
	assert.Equal(t, "0.00", totals[expense.Utilities].StringFixed(2))
}

func Test_OnTotalsByCategory_ShouldExcludeRecordsBeforeWindow(t *testing.T) {
	s, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(1), Category: expense.Food, Amount: amount("100")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(10), Category: expense.Food, Amount: amount("20")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(15), Category: expense.Transport, Amount: amount("7")}))

	totals, err := s.TotalsByCategory(ctx, "maria", day(10))
	require.NoError(t, err)
	assert.Equal(t, "20.00", totals[expense.Food].StringFixed(2))
	assert.Equal(t, "7.00", totals[expense.Transport].StringFixed(2))

	// window boundary is inclusive
	totalsAll, err := s.TotalsByCategory(ctx, "maria", day(1))
	require.NoError(t, err)
	assert.Equal(t, "120.00", totalsAll[expense.Food].StringFixed(2))
}

func Test_OnTotalSpent_ShouldMatchSumOverCategories(t *testing.T) {
	s, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(3), Category: expense.Food, Amount: amount("12.50")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(4), Category: expense.Transport, Amount: amount("5.00")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(8), Category: expense.Other, Amount: amount("2.25")}))

	total, err := s.TotalSpent(ctx, "maria", day(1))
	require.NoError(t, err)

	totals, err := s.TotalsByCategory(ctx, "maria", day(1))
	require.NoError(t, err)
	sum := decimal.Zero
	for _, a := range totals {
		sum = sum.Add(a)
	}
	assert.True(t, total.Equal(sum), "total %s != category sum %s", total, sum)
	assert.Equal(t, "19.75", total.StringFixed(2))
}

func Test_OnTotalSpent_ShouldReturnZeroWithoutRecords(t *testing.T) {
	s, _ := newTestLedger()

	total, err := s.TotalSpent(context.Background(), "nobody", day(1))
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func Test_OnTopCategories_ShouldRankBySpendAndSkipZeroes(t *testing.T) {
	s, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(3), Category: expense.Food, Amount: amount("40")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(4), Category: expense.Transport, Amount: amount("90")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(5), Category: expense.Utilities, Amount: amount("15")}))
	require.NoError(t, s.Append(ctx, "maria", expense.Record{Date: day(6), Category: expense.Food, Amount: amount("10")}))

	top, err := s.TopCategories(ctx, "maria", day(1), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, expense.Transport, top[0].Category)
	assert.Equal(t, expense.Food, top[1].Category)
	assert.Equal(t, expense.Utilities, top[2].Category)
	assert.Equal(t, "50.00", top[1].Amount.StringFixed(2))
}
