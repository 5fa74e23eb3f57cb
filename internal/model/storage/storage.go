package storage

import (
	"context"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/entity/feedback"
)

// Storage is the full store surface. Model packages each consume their
// own narrow slice of it; this union exists for backend selection at
// wiring time. Both FileStorage and PostgresStorage satisfy it.
type Storage interface {
	ReadAllAccounts(ctx context.Context) (map[string]account.Record, error)
	SaveAccount(ctx context.Context, rec account.Record) error

	AppendExpense(ctx context.Context, username string, rec expense.Record) error
	ListExpenses(ctx context.Context, username string) ([]expense.Record, error)

	AppendFeedback(ctx context.Context, rec feedback.Record) error
	ReadAllFeedback(ctx context.Context) ([]feedback.Record, error)

	AppendTipReaction(ctx context.Context, rec feedback.TipReaction) error
	ReadAllTipReactions(ctx context.Context) ([]feedback.TipReaction, error)
}
