package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/pantry-scan/internal/database"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("connection refused")
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestOffsetLearner_RoundTrip(t *testing.T) {
	ctx := context.Background()
	learner := NewOffsetLearner(database.NewMemoryStore())

	require.NoError(t, learner.SetOffset(ctx, "tesco|dairy", 3))

	got, err := learner.GetOffset(ctx, "tesco|dairy")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = learner.GetOffset(ctx, " Tesco | Dairy ")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = learner.GetOffset(ctx, "aldi|bakery")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	require.NoError(t, learner.SetOffset(ctx, "tesco|dairy", -2))
	got, err = learner.GetOffset(ctx, "tesco|dairy")
	require.NoError(t, err)
	assert.Equal(t, -2, got)
}

func TestOffsetLearner_Learn(t *testing.T) {
	ctx := context.Background()
	added := date(2025, time.June, 1)
	predicted := date(2025, time.June, 8)

	tests := []struct {
		name       string
		chosen     time.Time
		wantOffset int
		wantStored bool
	}{
		{name: "later than predicted", chosen: date(2025, time.June, 11), wantOffset: 3, wantStored: true},
		{name: "earlier than predicted", chosen: date(2025, time.June, 6), wantOffset: -2, wantStored: true},
		{name: "unchanged", chosen: predicted, wantOffset: 0, wantStored: true},
		{name: "at the bound", chosen: predicted.AddDate(0, 0, MaxLearnedOffsetDays), wantOffset: 120, wantStored: true},
		{name: "past the bound", chosen: predicted.AddDate(0, 0, MaxLearnedOffsetDays+1), wantOffset: 121, wantStored: false},
		{name: "far in the past", chosen: predicted.AddDate(0, 0, -200), wantOffset: -200, wantStored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			learner := NewOffsetLearner(database.NewMemoryStore())
			require.NoError(t, learner.SetOffset(ctx, "tesco|dairy", 9))

			offset, stored, err := learner.Learn(ctx, "tesco|dairy", added, predicted, tt.chosen)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantStored, stored)

			got, err := learner.GetOffset(ctx, "tesco|dairy")
			require.NoError(t, err)
			if tt.wantStored {
				assert.Equal(t, tt.wantOffset, got)
			} else {
				assert.Equal(t, 9, got)
			}
		})
	}
}

func TestOffsetLearner_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	learner := NewOffsetLearner(brokenStore{})

	_, err := learner.GetOffset(ctx, "tesco|dairy")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = learner.SetOffset(ctx, "tesco|dairy", 1)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, stored, err := learner.Learn(ctx, "tesco|dairy", date(2025, 6, 1), date(2025, 6, 8), date(2025, 6, 9))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, stored)
}

func TestOffsetLearner_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, DefaultOffsetDocument, "{not json"))

	_, err := NewOffsetLearner(store).GetOffset(ctx, "tesco|dairy")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestOffsetLearner_ForDevice(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	learner := NewOffsetLearner(store)

	phone := learner.ForDevice("phone-0001")
	tablet := learner.ForDevice("tablet-0001")

	require.NoError(t, phone.SetOffset(ctx, "tesco|dairy", 4))

	got, err := tablet.GetOffset(ctx, "tesco|dairy")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = learner.GetOffset(ctx, "tesco|dairy")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	raw, err := store.Get(ctx, "expiry_offsets:phone-0001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"tesco|dairy":4}`, raw)
}

func TestOffsetLearner_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	learner := NewOffsetLearner(database.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, learner.SetOffset(ctx, fmt.Sprintf("brand%d|dairy", i), i))
		}(i)
	}
	wg.Wait()

	offsets, err := learner.Offsets(ctx)
	require.NoError(t, err)
	assert.Len(t, offsets, 20)
	assert.Equal(t, 7, offsets["brand7|dairy"])
}

func TestOffsetKey(t *testing.T) {
	assert.Equal(t, "tesco|dairy", OffsetKey("Tesco", "Dairy"))
	assert.Equal(t, "|other", OffsetKey("", "other"))
	assert.Equal(t, "m&s|bakery", NormalizeOffsetKey(" M&S |  Bakery"))

	assert.Equal(t, "tesco|dairy", CanonicalOffsetKey("Tesco|Yoghurt"))
	assert.Equal(t, "tesco|dairy", CanonicalOffsetKey(" tesco | dairy "))
	assert.Equal(t, "aldi|other", CanonicalOffsetKey("aldi|"))
	assert.Equal(t, "tesco", CanonicalOffsetKey(" Tesco "))
}
