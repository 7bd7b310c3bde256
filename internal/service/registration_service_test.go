package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nexoragaming/phantomid/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestJoin_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slug := env.createTournament(t, 4)
	user := env.createUser(t, "alice")

	first, err := env.registration.Join(ctx, slug, user)
	require.NoError(t, err)
	assert.Equal(t, &JoinResult{Joined: true, CurrentSlots: 1, MaxSlots: 4}, first)

	second, err := env.registration.Join(ctx, slug, user)
	require.NoError(t, err)
	assert.Equal(t, &JoinResult{Joined: false, CurrentSlots: 1, MaxSlots: 4}, second)
}

func TestJoin_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	openSlug := env.createTournament(t, 2)
	user := env.createUser(t, "alice")

	in := validInput()
	in.Status = "live"
	live, err := env.tournaments.CreateTournament(ctx, in)
	require.NoError(t, err)

	tests := []struct {
		name   string
		slug   string
		userID uuid.UUID
		want   error
	}{
		{"no identity", openSlug, uuid.Nil, ErrNotAuthenticated},
		{"unknown slug", "does-not-exist", user, ErrNotFound},
		{"not open", live.Slug, user, ErrNotOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.registration.Join(ctx, tt.slug, tt.userID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJoin_Full(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slug := env.createTournament(t, 2)
	members := env.enroll(t, slug, 2)

	late := env.createUser(t, "late")
	_, err := env.registration.Join(ctx, slug, late)
	assert.ErrorIs(t, err, ErrFull)

	// An existing member re-joining a full tournament is still a no-op, not Full.
	res, err := env.registration.Join(ctx, slug, members[0])
	require.NoError(t, err)
	assert.False(t, res.Joined)
	assert.Equal(t, 2, res.CurrentSlots)
}

func TestJoin_ConcurrentCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slug := env.createTournament(t, 4)

	userIDs := make([]uuid.UUID, 5)
	for i := range userIDs {
		userIDs[i] = env.createUser(t, "racer")
	}

	var (
		mu     sync.Mutex
		joined int
		full   int
	)

	var g errgroup.Group
	for _, id := range userIDs {
		// Each user also retries once to mix duplicates into the race.
		for attempt := 0; attempt < 2; attempt++ {
			g.Go(func() error {
				res, err := env.registration.Join(ctx, slug, id)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case errors.Is(err, ErrFull):
					full++
					return nil
				case err != nil:
					return err
				}
				if res.Joined {
					joined++
				}
				if res.CurrentSlots > res.MaxSlots {
					return errors.New("capacity exceeded")
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 4, joined)
	assert.GreaterOrEqual(t, full, 1)

	list, err := env.registration.ListParticipants(ctx, slug)
	require.NoError(t, err)
	assert.Len(t, list.Participants, 4)
	assert.Equal(t, 4, list.Tournament.CurrentSlots)
}

func TestListParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slug := env.createTournament(t, 8)
	ids := env.enroll(t, slug, 3)

	list, err := env.registration.ListParticipants(ctx, slug)
	require.NoError(t, err)

	assert.Equal(t, slug, list.Tournament.Slug)
	assert.Equal(t, "Weekly Cup", list.Tournament.Name)
	assert.Equal(t, 8, list.Tournament.MaxSlots)
	assert.Equal(t, 3, list.Tournament.CurrentSlots)

	require.Len(t, list.Participants, 3)
	for i, p := range list.Participants {
		assert.Equal(t, ids[i], p.ID, "ordered by join time")
		assert.Equal(t, NewPhantomID(ids[i]), utils.OrZero(p.PhantomID))
	}
	assert.True(t, list.Participants[0].JoinedAt.Before(list.Participants[1].JoinedAt))
}

func TestListParticipants_Empty(t *testing.T) {
	env := newTestEnv(t)
	slug := env.createTournament(t, 8)

	list, err := env.registration.ListParticipants(context.Background(), slug)
	require.NoError(t, err)
	assert.NotNil(t, list.Participants)
	assert.Empty(t, list.Participants)

	_, err = env.registration.ListParticipants(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
