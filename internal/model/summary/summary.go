package summary

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/logger"
	"max.ks1230/spendwise/internal/model/customerr"
)

// goalAdjustRate is the per-month goal drift: +5% after an under-goal
// month, -5% after an over-goal month.
var goalAdjustRate = decimal.New(5, -2)

type ledgerService interface {
	TotalsByCategory(ctx context.Context, username string, since time.Time) (map[string]decimal.Decimal, error)
	TotalSpent(ctx context.Context, username string, since time.Time) (decimal.Decimal, error)
}

type accountStorage interface {
	ReadAllAccounts(ctx context.Context) (map[string]account.Record, error)
	SaveAccount(ctx context.Context, rec account.Record) error
}

type Service struct {
	ledger   ledgerService
	accounts accountStorage
	clock    func() time.Time
}

func NewService(ledger ledgerService, accounts accountStorage) *Service {
	return &Service{
		ledger:   ledger,
		accounts: accounts,
		clock:    time.Now,
	}
}

type Report struct {
	Period     string
	Since      time.Time
	ByCategory map[string]decimal.Decimal
	Total      decimal.Decimal
	Goal       decimal.Decimal
	Savings    decimal.Decimal
}

// Weekly reports spend per category since the start of the current
// calendar week. Read-only.
func (s *Service) Weekly(ctx context.Context, username string) (Report, error) {
	since := now.With(s.clock()).BeginningOfWeek()
	return s.report(ctx, username, "week", since)
}

// Monthly reports spend since the first day of the current calendar
// month against the account goal. Read-only: the goal drift lives in
// ApplyMonthlyGoalAdjustment.
func (s *Service) Monthly(ctx context.Context, username string) (Report, error) {
	since := now.With(s.clock()).BeginningOfMonth()
	return s.report(ctx, username, "month", since)
}

func (s *Service) report(ctx context.Context, username, period string, since time.Time) (Report, error) {
	rec, err := s.account(ctx, username)
	if err != nil {
		return Report{}, err
	}

	totals, err := s.ledger.TotalsByCategory(ctx, username, since)
	if err != nil {
		return Report{}, errors.Wrap(err, "generate summary")
	}
	total := decimal.Zero
	for _, amount := range totals {
		total = total.Add(amount)
	}

	return Report{
		Period:     period,
		Since:      since,
		ByCategory: totals,
		Total:      total,
		Goal:       rec.Goal,
		Savings:    rec.Goal.Sub(total),
	}, nil
}

type GoalAdjustment struct {
	TotalSpent decimal.Decimal
	OldGoal    decimal.Decimal
	NewGoal    decimal.Decimal
}

// ApplyMonthlyGoalAdjustment recomputes the savings goal from this
// month's spend and persists it: under goal raises it 5%, exactly on
// goal keeps it, over goal cuts it 5% (never below zero). This is the
// one summary operation that writes.
func (s *Service) ApplyMonthlyGoalAdjustment(ctx context.Context, username string) (GoalAdjustment, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "adjustGoal")
	defer span.Finish()

	rec, err := s.account(ctx, username)
	if err != nil {
		return GoalAdjustment{}, err
	}

	since := now.With(s.clock()).BeginningOfMonth()
	spent, err := s.ledger.TotalSpent(ctx, username, since)
	if err != nil {
		return GoalAdjustment{}, errors.Wrap(err, "adjust goal")
	}

	adj := GoalAdjustment{TotalSpent: spent, OldGoal: rec.Goal}
	delta := rec.Goal.Mul(goalAdjustRate)
	switch spent.Cmp(rec.Goal) {
	case -1:
		adj.NewGoal = rec.Goal.Add(delta).Round(2)
	case 0:
		adj.NewGoal = rec.Goal
	case 1:
		adj.NewGoal = rec.Goal.Sub(delta).Round(2)
		if adj.NewGoal.IsNegative() {
			adj.NewGoal = decimal.Zero
		}
	}

	if adj.NewGoal.Equal(adj.OldGoal) {
		return adj, nil
	}
	rec.Goal = adj.NewGoal
	if err = s.accounts.SaveAccount(ctx, rec); err != nil {
		return GoalAdjustment{}, errors.Wrap(err, "adjust goal")
	}
	logger.Info("monthly goal adjusted",
		zap.String("username", username),
		zap.String("old", adj.OldGoal.StringFixed(2)),
		zap.String("new", adj.NewGoal.StringFixed(2)))
	return adj, nil
}

func (s *Service) account(ctx context.Context, username string) (account.Record, error) {
	accounts, err := s.accounts.ReadAllAccounts(ctx)
	if err != nil {
		return account.Record{}, errors.Wrap(err, "read accounts")
	}
	rec, ok := accounts[username]
	if !ok {
		return account.Record{}, customerr.ErrUnknownUser
	}
	return rec, nil
}
