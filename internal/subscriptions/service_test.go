package subscriptions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/dbtest"
	"github.com/startupsetu/setu/internal/logger"
)

func TestGrantFreeIsIdempotentInsert(t *testing.T) {
	q := dbtest.New()
	svc := NewService(logger.Discard(), q)
	ctx := context.Background()
	userID := db.UUIDToString(db.NewUUID())

	require.NoError(t, svc.Set(ctx, userID, string(agents.FreeAgent), false))
	require.NoError(t, svc.GrantFree(ctx, userID))

	active, err := svc.IsActive(ctx, userID, string(agents.FreeAgent))
	require.NoError(t, err)
	assert.False(t, active, "insert must not overwrite an existing row")

	require.NoError(t, svc.EnsureFree(ctx, userID))
	active, err = svc.IsActive(ctx, userID, string(agents.FreeAgent))
	require.NoError(t, err)
	assert.True(t, active)
}

func TestActiveAgentsOmitsInactive(t *testing.T) {
	svc := NewService(logger.Discard(), dbtest.New())
	ctx := context.Background()
	userID := db.UUIDToString(db.NewUUID())

	require.NoError(t, svc.GrantFree(ctx, userID))
	require.NoError(t, svc.Set(ctx, userID, string(agents.HRSolutions), true))
	require.NoError(t, svc.Set(ctx, userID, string(agents.FundingLoans), false))

	got, err := svc.ActiveAgents(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		string(agents.FreeAgent):   true,
		string(agents.HRSolutions): true,
	}, got)
	_, present := got[string(agents.FundingLoans)]
	assert.False(t, present)
}

func TestIsActiveMissingRow(t *testing.T) {
	svc := NewService(logger.Discard(), dbtest.New())

	active, err := svc.IsActive(context.Background(), db.UUIDToString(db.NewUUID()), "funding-loans")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestErrorsPropagate(t *testing.T) {
	q := dbtest.New()
	svc := NewService(logger.Discard(), q)
	boom := errors.New("down")
	q.SetFail("ListSubscriptionsByUser", boom)

	_, err := svc.ActiveAgents(context.Background(), db.UUIDToString(db.NewUUID()))
	assert.ErrorIs(t, err, boom)

	_, err = svc.ActiveAgents(context.Background(), "nope")
	assert.Error(t, err)
}
