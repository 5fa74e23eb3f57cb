package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/logger"
	"max.ks1230/spendwise/internal/model/customerr"
)

// activationCodeTTL bounds how long a mailed code stays usable.
// Expired codes are reissued with ResendActivation.
const activationCodeTTL = 48 * time.Hour

// usernames become part of per-user store file names, so the charset
// must stay path-safe
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type accountStorage interface {
	ReadAllAccounts(ctx context.Context) (map[string]account.Record, error)
	SaveAccount(ctx context.Context, rec account.Record) error
}

type mailSender interface {
	SendActivationCode(to, code string) error
}

type Service struct {
	storage accountStorage
	mail    mailSender
	clock   func() time.Time
}

func NewService(storage accountStorage, mail mailSender) *Service {
	return &Service{
		storage: storage,
		mail:    mail,
		clock:   time.Now,
	}
}

// RegisterResult reports how the activation code reached the user.
// When mail delivery fails the code itself is handed back so the UI
// can show it inline instead of blocking the registration.
type RegisterResult struct {
	ActivationCode string
	MailSent       bool
}

func (s *Service) Register(ctx context.Context, username, password, email, purpose string, goal decimal.Decimal) (RegisterResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "register")
	defer span.Finish()

	if username == "" {
		return RegisterResult{}, customerr.NewValidation("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return RegisterResult{}, customerr.NewValidation("username may only contain letters, digits, '-' and '_'")
	}
	if password == "" {
		return RegisterResult{}, customerr.NewValidation("password is required")
	}
	if email == "" {
		return RegisterResult{}, customerr.NewValidation("email is required")
	}
	if goal.IsNegative() {
		return RegisterResult{}, customerr.NewValidation("goal must not be negative")
	}

	accounts, err := s.storage.ReadAllAccounts(ctx)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register")
	}
	if _, exists := accounts[username]; exists {
		return RegisterResult{}, customerr.ErrDuplicateUsername
	}

	hash, salt, err := HashPassword(password)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register")
	}
	code, err := newActivationCode()
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register")
	}

	rec := account.Record{
		Username:           username,
		PasswordHash:       hash,
		Salt:               salt,
		Purpose:            purpose,
		Goal:               goal,
		Role:               account.RoleUser,
		Activated:          false,
		ActivationCode:     code,
		ActivationIssuedAt: s.clock(),
		Email:              email,
	}
	if err = s.storage.SaveAccount(ctx, rec); err != nil {
		return RegisterResult{}, errors.Wrap(err, "register")
	}

	return s.deliverCode(rec), nil
}

// deliverCode mails the activation code, degrading to inline delivery
// when mail is unavailable. Registration never fails on mail errors.
func (s *Service) deliverCode(rec account.Record) RegisterResult {
	err := s.mail.SendActivationCode(rec.Email, rec.ActivationCode)
	if err != nil {
		if !errors.Is(err, customerr.ErrMailNotConfigured) {
			logger.Warn("activation mail failed, surfacing code inline",
				zap.String("username", rec.Username), zap.Error(err))
		}
		return RegisterResult{ActivationCode: rec.ActivationCode, MailSent: false}
	}
	return RegisterResult{MailSent: true}
}

// Verify reports whether the credentials belong to an activated
// account. It deliberately gives the same answer for unknown users,
// unactivated accounts and wrong passwords.
func (s *Service) Verify(ctx context.Context, username, password string) bool {
	accounts, err := s.storage.ReadAllAccounts(ctx)
	if err != nil {
		logger.Error("cannot read accounts for verification", zap.Error(err))
		return false
	}
	rec, ok := accounts[username]
	if !ok || !rec.Activated {
		return false
	}
	if rec.PasswordHash == "" || rec.Salt == "" {
		return false
	}
	return verifyPassword(password, rec.Salt, rec.PasswordHash)
}

func (s *Service) Activate(ctx context.Context, username, code string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "activate")
	defer span.Finish()

	rec, err := s.get(ctx, username)
	if err != nil {
		return err
	}
	if rec.Activated {
		return nil
	}
	if rec.ActivationCode != code {
		return customerr.ErrBadActivationCode
	}
	if s.clock().Sub(rec.ActivationIssuedAt) > activationCodeTTL {
		return customerr.ErrCodeExpired
	}

	rec.Activated = true
	rec.ActivationCode = ""
	rec.ActivationIssuedAt = time.Time{}
	return errors.Wrap(s.storage.SaveAccount(ctx, rec), "activate")
}

func (s *Service) ResendActivation(ctx context.Context, username string) (RegisterResult, error) {
	rec, err := s.get(ctx, username)
	if err != nil {
		return RegisterResult{}, err
	}
	if rec.Activated {
		return RegisterResult{}, customerr.NewValidation("account is already activated")
	}

	code, err := newActivationCode()
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "resend activation")
	}
	rec.ActivationCode = code
	rec.ActivationIssuedAt = s.clock()
	if err = s.storage.SaveAccount(ctx, rec); err != nil {
		return RegisterResult{}, errors.Wrap(err, "resend activation")
	}
	return s.deliverCode(rec), nil
}

func (s *Service) UpdateGoal(ctx context.Context, username string, goal decimal.Decimal) error {
	if goal.IsNegative() {
		return customerr.NewValidation("goal must not be negative")
	}
	rec, err := s.get(ctx, username)
	if err != nil {
		return err
	}
	rec.Goal = goal
	return errors.Wrap(s.storage.SaveAccount(ctx, rec), "update goal")
}

func (s *Service) Get(ctx context.Context, username string) (account.Record, error) {
	return s.get(ctx, username)
}

func (s *Service) get(ctx context.Context, username string) (account.Record, error) {
	accounts, err := s.storage.ReadAllAccounts(ctx)
	if err != nil {
		return account.Record{}, errors.Wrap(err, "read accounts")
	}
	rec, ok := accounts[username]
	if !ok {
		return account.Record{}, customerr.ErrUnknownUser
	}
	return rec, nil
}
