package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/dbtest"
	"github.com/startupsetu/setu/internal/logger"
)

func TestServiceGetMissingIsNotAnError(t *testing.T) {
	svc := NewService(logger.Discard(), dbtest.New())

	mem, ok, err := svc.Get(context.Background(), db.UUIDToString(db.NewUUID()))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mem.IsEmpty())
}

func TestServiceUpsertTouchesOnlyGivenFields(t *testing.T) {
	q := dbtest.New()
	svc := NewService(logger.Discard(), q)
	ctx := context.Background()
	userID := db.UUIDToString(db.NewUUID())

	require.NoError(t, svc.Upsert(ctx, userID, Update{FieldIdea: "spice exports", FieldStage: "mvp"}))
	require.NoError(t, svc.Upsert(ctx, userID, Update{FieldStage: "revenue"}))

	mem, ok, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StartupMemory{Idea: "spice exports", Stage: "revenue"}, mem)
}

func TestServiceUpsertEmptyIsNoop(t *testing.T) {
	q := dbtest.New()
	svc := NewService(logger.Discard(), q)

	require.NoError(t, svc.Upsert(context.Background(), db.UUIDToString(db.NewUUID()), Update{}))
	assert.Equal(t, 0, q.Calls("UpsertStartupMemory"))
}

func TestServiceErrors(t *testing.T) {
	q := dbtest.New()
	svc := NewService(logger.Discard(), q)
	ctx := context.Background()

	_, _, err := svc.Get(ctx, "not-a-uuid")
	assert.Error(t, err)

	q.SetFail("GetStartupMemory", errors.New("timeout"))
	_, ok, err := svc.Get(ctx, db.UUIDToString(db.NewUUID()))
	assert.Error(t, err)
	assert.False(t, ok)
}
