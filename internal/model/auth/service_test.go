package auth

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/spendwise/internal/entity/account"
	"max.ks1230/spendwise/internal/model/customerr"
)

type fakeAccounts struct {
	records map[string]account.Record
	saves   int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{records: make(map[string]account.Record)}
}

func (f *fakeAccounts) ReadAllAccounts(_ context.Context) (map[string]account.Record, error) {
	out := make(map[string]account.Record, len(f.records))
	for k, v := range f.records {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAccounts) SaveAccount(_ context.Context, rec account.Record) error {
	f.records[rec.Username] = rec
	f.saves++
	return nil
}

type fakeMail struct {
	sent []string
	err  error
}

func (f *fakeMail) SendActivationCode(to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestService(store *fakeAccounts, mail *fakeMail) *Service {
	s := NewService(store, mail)
	s.clock = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func register(t *testing.T, s *Service) RegisterResult {
	t.Helper()
	res, err := s.Register(context.Background(), "maria", "s3cret", "maria@example.com", "Save for vacation", decimal.RequireFromString("250"))
	require.NoError(t, err)
	return res
}

func Test_OnRegister_ShouldStoreUnactivatedAccountWithCode(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{err: customerr.ErrMailNotConfigured})

	res := register(t, s)

	rec := store.records["maria"]
	assert.False(t, rec.Activated)
	assert.NotEmpty(t, rec.ActivationCode)
	assert.Equal(t, account.RoleUser, rec.Role)
	assert.False(t, res.MailSent)
	assert.Equal(t, rec.ActivationCode, res.ActivationCode)
}

func Test_OnRegister_ShouldNeverStorePlaintextPassword(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})

	register(t, s)

	rec := store.records["maria"]
	assert.NotEqual(t, "s3cret", rec.PasswordHash)
	assert.NotEmpty(t, rec.Salt)
}

func Test_OnRegister_ShouldUseDistinctSaltsForSamePassword(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})
	ctx := context.Background()

	_, err := s.Register(ctx, "first", "same-password", "a@example.com", "", decimal.Zero)
	require.NoError(t, err)
	_, err = s.Register(ctx, "second", "same-password", "b@example.com", "", decimal.Zero)
	require.NoError(t, err)

	assert.NotEqual(t, store.records["first"].Salt, store.records["second"].Salt)
	assert.NotEqual(t, store.records["first"].PasswordHash, store.records["second"].PasswordHash)
}

func Test_OnRegister_ShouldRejectDuplicateUsername(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})

	register(t, s)
	_, err := s.Register(context.Background(), "maria", "other", "m@example.com", "", decimal.Zero)

	assert.ErrorIs(t, err, customerr.ErrDuplicateUsername)
}

func Test_OnRegister_ShouldRejectUsernameWithUnsafeCharacters(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})
	ctx := context.Background()

	var vErr *customerr.ValidationError
	for _, username := range []string{"../escaped", "a/b", `a\b`, "dot.dot", "has space", "bang!"} {
		_, err := s.Register(ctx, username, "pw", "a@example.com", "", decimal.Zero)
		assert.ErrorAs(t, err, &vErr, "username %q must be rejected", username)
	}
	assert.Empty(t, store.records)

	_, err := s.Register(ctx, "maria_k-99", "pw", "a@example.com", "", decimal.Zero)
	assert.NoError(t, err)
}

func Test_OnRegister_ShouldRejectMissingFields(t *testing.T) {
	s := newTestService(newFakeAccounts(), &fakeMail{})
	ctx := context.Background()

	var vErr *customerr.ValidationError
	_, err := s.Register(ctx, "", "pw", "a@example.com", "", decimal.Zero)
	assert.ErrorAs(t, err, &vErr)
	_, err = s.Register(ctx, "maria", "", "a@example.com", "", decimal.Zero)
	assert.ErrorAs(t, err, &vErr)
	_, err = s.Register(ctx, "maria", "pw", "", "", decimal.Zero)
	assert.ErrorAs(t, err, &vErr)
	_, err = s.Register(ctx, "maria", "pw", "a@example.com", "", decimal.RequireFromString("-1"))
	assert.ErrorAs(t, err, &vErr)
}

func Test_OnRegister_ShouldMailCodeWhenMailWorks(t *testing.T) {
	store := newFakeAccounts()
	mail := &fakeMail{}
	s := newTestService(store, mail)

	res := register(t, s)

	assert.True(t, res.MailSent)
	assert.Empty(t, res.ActivationCode)
	assert.Equal(t, []string{"maria@example.com"}, mail.sent)
}

func Test_OnVerify_ShouldRequireActivation(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{err: customerr.ErrMailNotConfigured})
	ctx := context.Background()

	res := register(t, s)
	assert.False(t, s.Verify(ctx, "maria", "s3cret"))

	require.NoError(t, s.Activate(ctx, "maria", res.ActivationCode))
	assert.True(t, s.Verify(ctx, "maria", "s3cret"))
	assert.False(t, s.Verify(ctx, "maria", "wrong"))
	assert.False(t, s.Verify(ctx, "nobody", "s3cret"))
}

func Test_OnActivate_ShouldRejectWrongCode(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{err: customerr.ErrMailNotConfigured})

	register(t, s)
	err := s.Activate(context.Background(), "maria", "WRONGCOD")

	assert.ErrorIs(t, err, customerr.ErrBadActivationCode)
	assert.False(t, store.records["maria"].Activated)
}

func Test_OnActivate_ShouldRejectExpiredCodeUntilReissued(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{err: customerr.ErrMailNotConfigured})
	ctx := context.Background()

	res := register(t, s)

	// two days later the original code is stale
	s.clock = func() time.Time {
		return time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC)
	}
	err := s.Activate(ctx, "maria", res.ActivationCode)
	assert.ErrorIs(t, err, customerr.ErrCodeExpired)

	reissued, err := s.ResendActivation(ctx, "maria")
	require.NoError(t, err)
	assert.NotEqual(t, res.ActivationCode, reissued.ActivationCode)
	require.NoError(t, s.Activate(ctx, "maria", reissued.ActivationCode))
	assert.True(t, store.records["maria"].Activated)
	assert.Empty(t, store.records["maria"].ActivationCode)
}

func Test_OnUpdateGoal_ShouldPersistNewGoal(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})

	register(t, s)
	err := s.UpdateGoal(context.Background(), "maria", decimal.RequireFromString("400"))

	require.NoError(t, err)
	assert.Equal(t, "400.00", store.records["maria"].Goal.StringFixed(2))
}

func Test_OnUpdateGoal_ShouldRejectNegativeGoal(t *testing.T) {
	store := newFakeAccounts()
	s := newTestService(store, &fakeMail{})

	register(t, s)
	err := s.UpdateGoal(context.Background(), "maria", decimal.RequireFromString("-10"))

	var vErr *customerr.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
