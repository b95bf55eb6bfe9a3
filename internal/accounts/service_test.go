package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/db/dbtest"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/subscriptions"
	"github.com/startupsetu/setu/internal/users"
	"github.com/startupsetu/setu/internal/writes"
)

type fixture struct {
	q    *dbtest.Queries
	subs *subscriptions.Service
	svc  *Service
}

func newFixture() *fixture {
	log := logger.Discard()
	q := dbtest.New()
	subs := subscriptions.NewService(log, q)
	svc := NewService(log, users.NewService(log, q), subs, writes.NewWriter(log, time.Second))
	svc.bcryptCost = bcrypt.MinCost
	return &fixture{q: q, subs: subs, svc: svc}
}

func TestSignupCreatesOneUserAndFreeSubscription(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginRequest{Email: " Founder@Example.com ", Password: "secret1", IsSignup: true})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Founder@Example.com", res.Email)
	assert.Equal(t, map[string]bool{string(agents.FreeAgent): true}, res.Subscriptions)
	assert.Equal(t, 1, f.q.Calls("CreateUser"))

	subs, err := f.subs.ActiveAgents(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{string(agents.FreeAgent): true}, subs)

	again, err := f.svc.Login(ctx, LoginRequest{Email: "Founder@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.UserID, again.UserID)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "Founder@Example.com", Password: "secret1", IsSignup: true})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, f.q.Calls("CreateUser"))
}

func TestEmailCaseDistinguishesAccounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Login(ctx, LoginRequest{Email: "Founder@Example.com", Password: "secret1", IsSignup: true})
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, LoginRequest{Email: "founder@example.com", Password: "secret1", IsSignup: true})
	require.NoError(t, err)
	assert.Equal(t, "founder@example.com", second.Email)
	assert.NotEqual(t, first.UserID, second.UserID)
	assert.Equal(t, 2, f.q.Calls("CreateUser"))

	_, err = f.svc.Login(ctx, LoginRequest{Email: "FOUNDER@EXAMPLE.COM", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, email := range []string{"", "plain", "a@b", "a b@c.d", "@c.d"} {
		_, err := f.svc.Login(ctx, LoginRequest{Email: email, Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
	_, err := f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: "12345"})
	assert.ErrorIs(t, err, ErrWeakPassword)
	assert.Equal(t, 0, f.q.Calls("GetUserByEmail"))
}

func TestLoginCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, f.q.Calls("CreateUser"))

	_, err = f.svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "secret1", IsSignup: true})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithoutStoredHashIsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := users.NewService(logger.Discard(), f.q).Create(ctx, "legacy@example.com", "")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "legacy@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginReactivatesFreeAgentAndListsActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, err := f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: "secret1", IsSignup: true})
	require.NoError(t, err)

	require.NoError(t, f.subs.Set(ctx, res.UserID, string(agents.FreeAgent), false))
	require.NoError(t, f.subs.Set(ctx, res.UserID, string(agents.HRSolutions), true))
	require.NoError(t, f.subs.Set(ctx, res.UserID, string(agents.FundingLoans), false))

	res, err = f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		string(agents.FreeAgent):   true,
		string(agents.HRSolutions): true,
	}, res.Subscriptions)

	active, err := f.subs.IsActive(ctx, res.UserID, string(agents.FreeAgent))
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSubscriptionFailuresAreNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.q.SetFail("CreateSubscription", errors.New("down"))
	f.q.SetFail("UpsertSubscription", errors.New("down"))
	f.q.SetFail("ListSubscriptionsByUser", errors.New("down"))

	res, err := f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: "secret1", IsSignup: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{string(agents.FreeAgent): true}, res.Subscriptions)
}

func TestCreateUserFailurePropagates(t *testing.T) {
	f := newFixture()
	boom := errors.New("primary unavailable")
	f.q.SetFail("CreateUser", boom)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "secret1", IsSignup: true})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.q.Calls("CreateSubscription"))
}

func TestLookupFailurePropagates(t *testing.T) {
	f := newFixture()
	boom := errors.New("timeout")
	f.q.SetFail("GetUserByEmail", boom)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, boom)
}

func TestLoginRejectsPasswordBcryptCannotHash(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: strings.Repeat("p", 80), IsSignup: true})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, 0, f.q.Calls("CreateUser"))

	res, err := f.svc.Login(ctx, LoginRequest{Email: "a@b.co", Password: strings.Repeat("p", MaxPasswordBytes), IsSignup: true})
	require.NoError(t, err)
	assert.True(t, res.Created)
}
