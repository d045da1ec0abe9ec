package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (participant.PendingEditStore, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPendingEditStore(client), server
}

func TestPendingEditStore_TakeConsumesToken(t *testing.T) {
	store, server := newStore(t)
	ctx := context.Background()

	hostel := "North Hall"
	edit := participant.PendingEdit{
		Token:         "tok-1",
		ParticipantID: "p-1",
		Changes:       participant.UpdateParticipantRequest{Hostel: &hostel},
	}
	require.NoError(t, store.Save(ctx, edit, time.Minute))
	assert.True(t, server.Exists(pendingEditKey("tok-1")))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ParticipantID)

	taken, err := store.Take(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, taken.Changes.Hostel)
	assert.Equal(t, "North Hall", *taken.Changes.Hostel)
	assert.False(t, server.Exists(pendingEditKey("tok-1")))

	_, err = store.Take(ctx, "tok-1")
	assert.ErrorIs(t, err, participant.ErrPendingEditNotFound)
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, participant.ErrPendingEditNotFound)
}

func TestPendingEditStore_Expires(t *testing.T) {
	store, server := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, participant.PendingEdit{Token: "tok-2", ParticipantID: "p-2"}, time.Minute))
	server.FastForward(2 * time.Minute)

	_, err := store.Take(ctx, "tok-2")
	assert.ErrorIs(t, err, participant.ErrPendingEditNotFound)
}
