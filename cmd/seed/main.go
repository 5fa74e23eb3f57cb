package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/entity/feedback"
	"max.ks1230/spendwise/internal/model/auth"
	"max.ks1230/spendwise/internal/model/storage"
)

type dirConfig string

func (d dirConfig) DataDir() string { return string(d) }

func main() {
	dataDir := flag.String("data-dir", "data", "Directory holding the store files")
	flag.Parse()

	if err := run(*dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir string) error {
	ctx := context.Background()

	store, err := storage.NewFileStorage(dirConfig(dataDir))
	if err != nil {
		return err
	}

	if err = seedAccount(ctx, store, "demo", "demo123", "demo@example.com", "Save for laptop", "500", account.RoleUser); err != nil {
		return err
	}
	if err = seedAccount(ctx, store, "admin", "admin123", "admin@example.com", "Admin user", "0", account.RoleAdmin); err != nil {
		return err
	}

	today := time.Now()
	samples := []struct {
		daysAgo     int
		category    string
		amount      string
		description string
	}{
		{0, expense.Food, "12.50", "Lunch"},
		{0, expense.Transport, "5.00", "Bus fare"},
		{1, expense.Entertainment, "20.00", "Movie night"},
		{2, expense.Food, "35.00", "Weekly shopping"},
	}
	for _, s := range samples {
		rec := expense.Record{
			Date:        today.AddDate(0, 0, -s.daysAgo),
			Category:    s.category,
			Amount:      decimal.RequireFromString(s.amount),
			Description: s.description,
		}
		if err = store.AppendExpense(ctx, "demo", rec); err != nil {
			return err
		}
	}

	feedbackSamples := []struct {
		rating int
		text   string
	}{
		{5, "Love the AI tips feature — very helpful!"},
		{4, "Would like dark mode and export JSON option."},
	}
	for _, s := range feedbackSamples {
		rec := feedback.Record{
			Timestamp: time.Now().UTC(),
			Username:  "demo",
			Rating:    s.rating,
			Text:      s.text,
		}
		if err = store.AppendFeedback(ctx, rec); err != nil {
			return err
		}
	}

	fmt.Println("Demo user: demo / demo123")
	fmt.Println("Admin user: admin / admin123")
	fmt.Println("Seeded sample expenses & feedback.")
	return nil
}

func seedAccount(ctx context.Context, store *storage.FileStorage, username, password, email, purpose, goal, role string) error {
	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	rec := account.Record{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Purpose:      purpose,
		Goal:         decimal.RequireFromString(goal),
		Role:         role,
		Activated:    true,
		Email:        email,
	}
	return store.SaveAccount(ctx, rec)
}
