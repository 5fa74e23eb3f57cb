package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/entity/feedback"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type pgConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL DEFAULT '',
		salt TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		goal NUMERIC(12,2) NOT NULL DEFAULT 0,
		role TEXT NOT NULL DEFAULT 'user',
		activated BOOLEAN NOT NULL DEFAULT FALSE,
		activation_code TEXT NOT NULL DEFAULT '',
		activation_issued_at TIMESTAMPTZ,
		email TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		date DATE NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id BIGSERIAL PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		username TEXT NOT NULL,
		rating INT NOT NULL,
		feedback TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tip_reactions (
		id BIGSERIAL PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		username TEXT NOT NULL,
		tip TEXT NOT NULL,
		reaction TEXT NOT NULL
	)`,
}

// PostgresStorage serves the same store contracts as FileStorage for
// deployments that outgrow flat files. Callers never see the backend.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config pgConfig) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	for _, m := range migrations {
		if _, err = db.Exec(m); err != nil {
			return nil, errors.Wrap(err, "cannot migrate database")
		}
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) ReadAllAccounts(ctx context.Context) (map[string]account.Record, error) {
	query := psql.Select("username", "password_hash", "salt", "purpose", "goal",
		"role", "activated", "activation_code", "activation_issued_at", "email").
		From("users")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read accounts")
	}
	defer rows.Close()

	accounts := make(map[string]account.Record)
	for rows.Next() {
		var rec account.Record
		var issued sql.NullTime
		err = rows.Scan(&rec.Username, &rec.PasswordHash, &rec.Salt, &rec.Purpose,
			&rec.Goal, &rec.Role, &rec.Activated, &rec.ActivationCode, &issued, &rec.Email)
		if err != nil {
			return nil, errors.Wrap(err, "read accounts")
		}
		if issued.Valid {
			rec.ActivationIssuedAt = issued.Time
		}
		rec.Normalize()
		accounts[rec.Username] = rec
	}
	return accounts, errors.Wrap(rows.Err(), "read accounts")
}

func (s *PostgresStorage) SaveAccount(ctx context.Context, rec account.Record) error {
	var issued interface{}
	if !rec.ActivationIssuedAt.IsZero() {
		issued = rec.ActivationIssuedAt
	}
	query := psql.Insert("users").
		Columns("username", "password_hash", "salt", "purpose", "goal", "role",
			"activated", "activation_code", "activation_issued_at", "email", "updated_at").
		Values(rec.Username, rec.PasswordHash, rec.Salt, rec.Purpose, rec.Goal, rec.Role,
			rec.Activated, rec.ActivationCode, issued, rec.Email, time.Now()).
		Suffix(`ON CONFLICT(username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			salt = EXCLUDED.salt,
			purpose = EXCLUDED.purpose,
			goal = EXCLUDED.goal,
			role = EXCLUDED.role,
			activated = EXCLUDED.activated,
			activation_code = EXCLUDED.activation_code,
			activation_issued_at = EXCLUDED.activation_issued_at,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at`)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save account")
}

func (s *PostgresStorage) AppendExpense(ctx context.Context, username string, rec expense.Record) error {
	query := psql.Insert("expenses").
		Columns("username", "date", "category", "amount", "description").
		Values(username, rec.Date, rec.Category, rec.Amount, rec.Description)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "append expense")
}

func (s *PostgresStorage) ListExpenses(ctx context.Context, username string) ([]expense.Record, error) {
	query := psql.Select("date", "category", "amount", "description").
		From("expenses").
		Where(sq.Eq{"username": username}).
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	defer rows.Close()

	exps := make([]expense.Record, 0)
	for rows.Next() {
		var e expense.Record
		if err = rows.Scan(&e.Date, &e.Category, &e.Amount, &e.Description); err != nil {
			return nil, errors.Wrap(err, "list expenses")
		}
		exps = append(exps, e)
	}
	return exps, errors.Wrap(rows.Err(), "list expenses")
}

func (s *PostgresStorage) AppendFeedback(ctx context.Context, rec feedback.Record) error {
	query := psql.Insert("feedback").
		Columns("ts", "username", "rating", "feedback").
		Values(rec.Timestamp, rec.Username, rec.Rating, rec.Text)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "append feedback")
}

func (s *PostgresStorage) AppendTipReaction(ctx context.Context, rec feedback.TipReaction) error {
	query := psql.Insert("tip_reactions").
		Columns("ts", "username", "tip", "reaction").
		Values(rec.Timestamp, rec.Username, rec.Tip, rec.Reaction)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "append tip reaction")
}

func (s *PostgresStorage) ReadAllTipReactions(ctx context.Context) ([]feedback.TipReaction, error) {
	query := psql.Select("ts", "username", "tip", "reaction").
		From("tip_reactions").
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read tip reactions")
	}
	defer rows.Close()

	recs := make([]feedback.TipReaction, 0)
	for rows.Next() {
		var r feedback.TipReaction
		if err = rows.Scan(&r.Timestamp, &r.Username, &r.Tip, &r.Reaction); err != nil {
			return nil, errors.Wrap(err, "read tip reactions")
		}
		recs = append(recs, r)
	}
	return recs, errors.Wrap(rows.Err(), "read tip reactions")
}

func (s *PostgresStorage) ReadAllFeedback(ctx context.Context) ([]feedback.Record, error) {
	query := psql.Select("ts", "username", "rating", "feedback").
		From("feedback").
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read feedback")
	}
	defer rows.Close()

	recs := make([]feedback.Record, 0)
	for rows.Next() {
		var r feedback.Record
		if err = rows.Scan(&r.Timestamp, &r.Username, &r.Rating, &r.Text); err != nil {
			return nil, errors.Wrap(err, "read feedback")
		}
		recs = append(recs, r)
	}
	return recs, errors.Wrap(rows.Err(), "read feedback")
}
