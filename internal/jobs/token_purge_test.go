package jobs

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenbild/zenbild-web/storage"
	"github.com/zenbild/zenbild-web/storage/db"
)

func insertToken(t *testing.T, queries *db.Queries, id string, expiresAt time.Time) {
	t.Helper()
	err := queries.CreateLoginToken(context.Background(), db.CreateLoginTokenParams{
		ID:        id,
		Email:     id + "@example.com",
		TokenHash: "hash-" + id,
		CreatedAt: expiresAt.Add(-15 * time.Minute),
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
}

func TestTokenPurger_DeletesExpiredOnly(t *testing.T) {
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	insertToken(t, queries, "expired", now.Add(-time.Hour))
	insertToken(t, queries, "live", now.Add(time.Hour))

	p := NewTokenPurger(queries, time.Hour)
	p.now = func() time.Time { return now }
	p.purge(context.Background())

	_, err = queries.GetLoginTokenByHash(context.Background(), "hash-expired")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	row, err := queries.GetLoginTokenByHash(context.Background(), "hash-live")
	require.NoError(t, err)
	assert.Equal(t, "live", row.ID)
}

type failingStore struct{}

func (failingStore) DeleteExpiredLoginTokens(context.Context, time.Time) (int64, error) {
	return 0, assert.AnError
}

func TestTokenPurger_RunsSweepersEvenOnStoreError(t *testing.T) {
	var swept atomic.Int32
	p := NewTokenPurger(failingStore{}, time.Hour, func() int {
		swept.Add(1)
		return 2
	})

	p.purge(context.Background())
	assert.Equal(t, int32(1), swept.Load())
}

func TestTokenPurger_RunStopsOnCancel(t *testing.T) {
	var swept atomic.Int32
	p := NewTokenPurger(failingStore{}, 10*time.Millisecond, func() int {
		swept.Add(1)
		return 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return swept.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Stop is safe to call again
	p.Stop()
}
