package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/entity/feedback"
	"max.ks1230/spendwise/internal/logger"
)

const (
	usersFileName        = "users.csv"
	feedbackFileName     = "feedback.csv"
	tipReactionsFileName = "tip_reactions.csv"
	expensesSuffix       = "_expenses.csv"
)

var (
	accountHeader     = []string{"username", "password_hash", "salt", "purpose", "goal", "role", "activated", "activation_code", "activation_issued_at", "email"}
	expenseHeader     = []string{"date", "category", "amount", "description"}
	feedbackHeader    = []string{"timestamp", "username", "rating", "feedback"}
	tipReactionHeader = []string{"timestamp", "username", "tip", "reaction"}
)

type config interface {
	DataDir() string
}

// FileStorage keeps every store as a delimited text file with a header
// row: one shared accounts file, one expenses file per user and one
// shared feedback file. Missing files read as empty stores.
type FileStorage struct {
	dataDir string

	mu sync.Mutex
}

func NewFileStorage(config config) (*FileStorage, error) {
	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &FileStorage{dataDir: config.DataDir()}, nil
}

func (s *FileStorage) usersPath() string {
	return filepath.Join(s.dataDir, usersFileName)
}

// expensesPath refuses usernames that could name a file outside the
// data directory. Registration enforces a path-safe charset already;
// this is the storage-level backstop.
func (s *FileStorage) expensesPath(username string) (string, error) {
	if strings.ContainsAny(username, `/\`) || strings.Contains(username, "..") {
		return "", errors.Errorf("username %q is not a safe file name", username)
	}
	return filepath.Join(s.dataDir, username+expensesSuffix), nil
}

func (s *FileStorage) feedbackPath() string {
	return filepath.Join(s.dataDir, feedbackFileName)
}

func (s *FileStorage) tipReactionsPath() string {
	return filepath.Join(s.dataDir, tipReactionsFileName)
}

// readRows returns the data rows of a delimited file, header stripped.
// Absent or unreadable files degrade to no rows so listings never fail
// on a missing store.
func readRows(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot open store file, treating as empty",
				zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		logger.Warn("cannot parse store file, treating as empty",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func appendRow(path string, header, row []string) error {
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open store file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err = w.Write(header); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	if err = w.Write(row); err != nil {
		return errors.Wrap(err, "write row")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush store file")
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func (s *FileStorage) ReadAllAccounts(_ context.Context) (map[string]account.Record, error) {
	accounts := make(map[string]account.Record)
	for _, row := range readRows(s.usersPath()) {
		rec, err := accountFromRow(row)
		if err != nil {
			logger.Warn("skipping malformed account row", zap.Error(err))
			continue
		}
		accounts[rec.Username] = rec
	}
	return accounts, nil
}

func (s *FileStorage) SaveAccount(ctx context.Context, rec account.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.ReadAllAccounts(ctx)
	if err != nil {
		return errors.Wrap(err, "save account")
	}
	accounts[rec.Username] = rec

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	tmp := s.usersPath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "save account")
	}

	w := csv.NewWriter(f)
	if err = w.Write(accountHeader); err != nil {
		f.Close()
		return errors.Wrap(err, "save account")
	}
	for _, name := range names {
		if err = w.Write(accountToRow(accounts[name])); err != nil {
			f.Close()
			return errors.Wrap(err, "save account")
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "save account")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "save account")
	}
	return errors.Wrap(os.Rename(tmp, s.usersPath()), "save account")
}

func accountToRow(rec account.Record) []string {
	issued := ""
	if !rec.ActivationIssuedAt.IsZero() {
		issued = rec.ActivationIssuedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		rec.Username,
		rec.PasswordHash,
		rec.Salt,
		rec.Purpose,
		rec.Goal.StringFixed(2),
		rec.Role,
		strconv.FormatBool(rec.Activated),
		rec.ActivationCode,
		issued,
		rec.Email,
	}
}

func accountFromRow(row []string) (account.Record, error) {
	if len(row) == 0 || row[0] == "" {
		return account.Record{}, errors.New("empty username")
	}
	goal, err := decimal.NewFromString(field(row, 4))
	if err != nil {
		goal = decimal.Zero
	}
	activated, _ := strconv.ParseBool(field(row, 6))
	var issued time.Time
	if raw := field(row, 8); raw != "" {
		issued, _ = time.Parse(time.RFC3339, raw)
	}

	rec := account.Record{
		Username:           row[0],
		PasswordHash:       field(row, 1),
		Salt:               field(row, 2),
		Purpose:            field(row, 3),
		Goal:               goal,
		Role:               field(row, 5),
		Activated:          activated,
		ActivationCode:     field(row, 7),
		ActivationIssuedAt: issued,
		Email:              field(row, 9),
	}
	rec.Normalize()
	return rec, nil
}

func (s *FileStorage) AppendExpense(_ context.Context, username string, rec expense.Record) error {
	path, err := s.expensesPath(username)
	if err != nil {
		return errors.Wrap(err, "append expense")
	}
	row := []string{
		rec.Date.Format(expense.DateLayout),
		rec.Category,
		rec.Amount.StringFixed(2),
		rec.Description,
	}
	return errors.Wrap(appendRow(path, expenseHeader, row), "append expense")
}

func (s *FileStorage) ListExpenses(_ context.Context, username string) ([]expense.Record, error) {
	path, err := s.expensesPath(username)
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	exps := make([]expense.Record, 0)
	for _, row := range readRows(path) {
		date, err := time.Parse(expense.DateLayout, field(row, 0))
		if err != nil {
			logger.Warn("skipping expense row with bad date", zap.Error(err))
			continue
		}
		amount, err := decimal.NewFromString(field(row, 2))
		if err != nil {
			logger.Warn("skipping expense row with bad amount", zap.Error(err))
			continue
		}
		exps = append(exps, expense.Record{
			Date:        date,
			Category:    field(row, 1),
			Amount:      amount,
			Description: field(row, 3),
		})
	}
	return exps, nil
}

func (s *FileStorage) AppendFeedback(_ context.Context, rec feedback.Record) error {
	row := []string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Username,
		strconv.Itoa(rec.Rating),
		rec.Text,
	}
	return errors.Wrap(appendRow(s.feedbackPath(), feedbackHeader, row), "append feedback")
}

func (s *FileStorage) AppendTipReaction(_ context.Context, rec feedback.TipReaction) error {
	row := []string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Username,
		rec.Tip,
		rec.Reaction,
	}
	return errors.Wrap(appendRow(s.tipReactionsPath(), tipReactionHeader, row), "append tip reaction")
}

func (s *FileStorage) ReadAllTipReactions(_ context.Context) ([]feedback.TipReaction, error) {
	recs := make([]feedback.TipReaction, 0)
	for _, row := range readRows(s.tipReactionsPath()) {
		ts, err := time.Parse(time.RFC3339, field(row, 0))
		if err != nil {
			logger.Warn("skipping tip reaction row with bad timestamp", zap.Error(err))
			continue
		}
		recs = append(recs, feedback.TipReaction{
			Timestamp: ts,
			Username:  field(row, 1),
			Tip:       field(row, 2),
			Reaction:  field(row, 3),
		})
	}
	return recs, nil
}

func (s *FileStorage) ReadAllFeedback(_ context.Context) ([]feedback.Record, error) {
	recs := make([]feedback.Record, 0)
	for _, row := range readRows(s.feedbackPath()) {
		ts, err := time.Parse(time.RFC3339, field(row, 0))
		if err != nil {
			logger.Warn("skipping feedback row with bad timestamp", zap.Error(err))
			continue
		}
		rating, err := strconv.Atoi(field(row, 2))
		if err != nil {
			logger.Warn("skipping feedback row with bad rating", zap.Error(err))
			continue
		}
		recs = append(recs, feedback.Record{
			Timestamp: ts,
			Username:  field(row, 1),
			Rating:    rating,
			Text:      field(row, 3),
		})
	}
	return recs, nil
}
