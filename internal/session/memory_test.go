package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderquest/questbot/internal/flow"
)

func TestMemoryFirstGetReturnsDefault(t *testing.T) {
	store := NewMemory()
	s, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, flow.StateRoot, s.State)
	assert.False(t, s.Registered)
}

func TestMemoryDoPersistsRewrite(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	err := store.Do(ctx, 1, func(s *flow.Session) error {
		s.State = flow.StateBrowsingCities
		s.Registered = true
		return nil
	})
	require.NoError(t, err)

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, flow.StateBrowsingCities, s.State)
	assert.True(t, s.Registered)
}

func TestMemoryUpdateAlwaysCommits(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	err := store.Update(ctx, 1, func(s *flow.Session) {
		s.Registered = true
	})
	require.NoError(t, err)

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, s.Registered)
}

func TestMemoryDoErrorDiscardsRewrite(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	err := store.Do(ctx, 1, func(s *flow.Session) error {
		s.State = flow.StateAwaitingSupportMessage
		return errors.New("boom")
	})
	require.Error(t, err)

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, flow.StateRoot, s.State)
}

func TestMemoryResetDropsSession(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Do(ctx, 1, func(s *flow.Session) error {
		s.Registered = true
		return nil
	}))
	require.NoError(t, store.Reset(ctx, 1))

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, s.Registered)
}

func TestMemoryUsersAreIsolated(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Do(ctx, 1, func(s *flow.Session) error {
		s.State = flow.StateBrowsingQuests
		return nil
	}))

	s, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, flow.StateRoot, s.State)
}

func TestMemoryDoSerializesPerUser(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Do(ctx, 1, func(s *flow.Session) error {
				if s.Draft == nil {
					s.Draft = &flow.ReviewDraft{}
				}
				s.Draft.Rating++
				return nil
			})
		}()
	}
	wg.Wait()

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, s.Draft)
	assert.Equal(t, workers, s.Draft.Rating)
}

func TestMemoryPruneIdle(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Do(ctx, 1, func(*flow.Session) error { return nil }))
	store.entries[1].touched = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Do(ctx, 2, func(*flow.Session) error { return nil }))

	assert.Equal(t, 1, store.PruneIdle(time.Hour))

	store.mu.RLock()
	_, gone := store.entries[1]
	_, kept := store.entries[2]
	store.mu.RUnlock()
	assert.False(t, gone)
	assert.True(t, kept)
}
