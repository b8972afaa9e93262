package feed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescuefeed/internal/domain"
)

// fakeKV is an in-memory KVStore with manual clock control.
type fakeKV struct {
	now     time.Time
	entries map[string]fakeKVEntry
	getErr  error
}

type fakeKVEntry struct {
	value     string
	expiresAt time.Time
}

func newFakeKV() *fakeKV {
	return &fakeKV{now: time.Unix(0, 0), entries: map[string]fakeKVEntry{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	entry, ok := f.entries[key]
	if !ok || f.now.After(entry.expiresAt) {
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.entries[key] = fakeKVEntry{value: value, expiresAt: f.now.Add(ttl)}
	return nil
}

func TestCacheRoundTrip(t *testing.T) {
	kv := newFakeKV()
	cache := NewCache(kv, 30*time.Second, zerolog.Nop())
	ctx := context.Background()

	items := []domain.Activity{
		{ID: "donation-d1", Type: domain.ActivityDonation, Timestamp: time.Unix(2000, 0).UTC(), Payload: map[string]any{"amount": float64(500)}},
	}
	cache.SetGlobal(ctx, 10, items)

	got, ok := cache.GetGlobal(ctx, 10)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "donation-d1", got[0].ID)

	_, ok = cache.GetGlobal(ctx, 20)
	assert.False(t, ok, "different limit is a different cache key")
}

func TestCacheExpiry(t *testing.T) {
	kv := newFakeKV()
	cache := NewCache(kv, 10*time.Second, zerolog.Nop())
	ctx := context.Background()

	cache.SetGlobal(ctx, 10, []domain.Activity{{ID: "a"}})
	kv.now = kv.now.Add(11 * time.Second)

	_, ok := cache.GetGlobal(ctx, 10)
	assert.False(t, ok)
}

func TestCacheErrorsDegradeToMiss(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = assert.AnError
	cache := NewCache(kv, 10*time.Second, zerolog.Nop())

	_, ok := cache.GetGlobal(context.Background(), 10)
	assert.False(t, ok, "a broken cache must read as a miss, never an error")
}

func TestCacheCorruptEntryDropped(t *testing.T) {
	kv := newFakeKV()
	cache := NewCache(kv, 10*time.Second, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, globalFeedKey(10), "{not json", 10*time.Second))
	_, ok := cache.GetGlobal(ctx, 10)
	assert.False(t, ok)
}

func TestGlobalFeedServedFromCache(t *testing.T) {
	kv := newFakeKV()
	cache := NewCache(kv, 30*time.Second, zerolog.Nop())
	base := time.Unix(5000, 0).UTC()
	donations := &fakeDonationRepo{completed: []domain.Donation{
		{ID: "d1", UserID: "u1", Status: domain.DonationStatusCompleted, CreatedAt: base},
	}}
	svc := newTestService(Deps{
		Cases:     &fakeCaseRepo{byID: map[string]domain.Case{}},
		Donations: donations,
		Cache:     cache,
	})
	ctx := context.Background()

	first, err := svc.Global(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Underlying data changes; the cached page is served until the TTL lapses.
	donations.completed = nil
	second, err := svc.Global(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// RefreshGlobal recomputes and overwrites the entry.
	refreshed, err := svc.RefreshGlobal(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, refreshed)
	third, err := svc.Global(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, third)
}
