package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/model/customerr"
)

type expenseStorage interface {
	AppendExpense(ctx context.Context, username string, rec expense.Record) error
	ListExpenses(ctx context.Context, username string) ([]expense.Record, error)
}

type config interface {
	Categories() []string
}

// Service is the append-only expense ledger. Every aggregate is
// recomputed from the full per-user record set on each call.
type Service struct {
	storage    expenseStorage
	categories []string
}

func NewService(storage expenseStorage, config config) *Service {
	categories := config.Categories()
	if len(categories) == 0 {
		categories = expense.DefaultCategories
	}
	return &Service{
		storage:    storage,
		categories: categories,
	}
}

func (s *Service) Categories() []string {
	return s.categories
}

func (s *Service) knownCategory(category string) bool {
	for _, c := range s.categories {
		if c == category {
			return true
		}
	}
	return false
}

func (s *Service) Append(ctx context.Context, username string, rec expense.Record) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "appendExpense")
	defer span.Finish()

	if username == "" {
		return customerr.NewValidation("username is required")
	}
	if !rec.Amount.IsPositive() {
		return customerr.NewValidation("amount must be positive")
	}
	if !s.knownCategory(rec.Category) {
		return customerr.NewValidation("unknown category " + rec.Category)
	}
	if rec.Date.IsZero() {
		return customerr.NewValidation("date is required")
	}

	return errors.Wrap(s.storage.AppendExpense(ctx, username, rec), "append to ledger")
}

// ListByUser returns every record in insertion order. A user without a
// ledger yet gets an empty slice.
func (s *Service) ListByUser(ctx context.Context, username string) ([]expense.Record, error) {
	exps, err := s.storage.ListExpenses(ctx, username)
	return exps, errors.Wrap(err, "list ledger")
}

// TotalsByCategory sums amounts per category for records dated on or
// after since. Every known category appears in the result, zero-filled
// when nothing matched.
func (s *Service) TotalsByCategory(ctx context.Context, username string, since time.Time) (map[string]decimal.Decimal, error) {
	exps, err := s.storage.ListExpenses(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "totals by category")
	}

	totals := make(map[string]decimal.Decimal, len(s.categories))
	for _, c := range s.categories {
		totals[c] = decimal.Zero
	}
	for _, exp := range filterSince(exps, since) {
		totals[exp.Category] = totals[exp.Category].Add(exp.Amount)
	}
	return totals, nil
}

func (s *Service) TotalSpent(ctx context.Context, username string, since time.Time) (decimal.Decimal, error) {
	exps, err := s.storage.ListExpenses(ctx, username)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "total spent")
	}

	total := decimal.Zero
	for _, exp := range filterSince(exps, since) {
		total = total.Add(exp.Amount)
	}
	return total, nil
}

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// TopCategories returns up to n categories by windowed total, highest
// first. Zero-total categories are left out: they carry no signal for
// the tip context this feeds.
func (s *Service) TopCategories(ctx context.Context, username string, since time.Time, n int) ([]CategoryTotal, error) {
	totals, err := s.TotalsByCategory(ctx, username, since)
	if err != nil {
		return nil, err
	}

	records := make([]CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		if amount.IsPositive() {
			records = append(records, CategoryTotal{Category: cat, Amount: amount})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Amount.Equal(records[j].Amount) {
			return records[i].Category < records[j].Category
		}
		return records[i].Amount.GreaterThan(records[j].Amount)
	})
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func filterSince(exps []expense.Record, since time.Time) []expense.Record {
	res := make([]expense.Record, 0, len(exps))
	for _, exp := range exps {
		if !exp.Date.Before(since) {
			res = append(res, exp)
		}
	}
	return res
}
