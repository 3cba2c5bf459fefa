package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foxxcyber/pantry-scan/internal/database"
)

// MaxLearnedOffsetDays bounds how far a single correction may move predictions
const MaxLearnedOffsetDays = 120

// DefaultOffsetDocument is the key the offset map is stored under
const DefaultOffsetDocument = "expiry_offsets"

// OffsetLearner keeps a brand|category → signed day offset map, learned from
// the expiry dates users actually choose. The whole map is one stored
// document; every write replaces it.
type OffsetLearner struct {
	store    KVStore
	document string
	mu       *sync.Mutex
}

// NewOffsetLearner creates a learner over store using the default document
func NewOffsetLearner(store KVStore) *OffsetLearner {
	return &OffsetLearner{
		store:    store,
		document: DefaultOffsetDocument,
		mu:       &sync.Mutex{},
	}
}

// ForDevice returns a learner over the same store whose map belongs to one
// device. Learners derived from the same parent share a write lock.
func (l *OffsetLearner) ForDevice(deviceID string) *OffsetLearner {
	return &OffsetLearner{
		store:    l.store,
		document: DefaultOffsetDocument + ":" + deviceID,
		mu:       l.mu,
	}
}

// OffsetKey builds the normalized map key for a brand and category
func OffsetKey(brand, category string) string {
	return NormalizeOffsetKey(brand + "|" + category)
}

// CanonicalOffsetKey normalizes a raw "brand|category" key and maps the
// category half onto a known category, so it matches the keys predictions
// read. A key without a "|" is only normalized.
func CanonicalOffsetKey(raw string) string {
	brand, category, found := strings.Cut(raw, "|")
	if !found {
		return NormalizeOffsetKey(raw)
	}
	return OffsetKey(brand, NormalizeCategory(category))
}

// NormalizeOffsetKey lowercases and trims a raw key
func NormalizeOffsetKey(key string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "|")
}

// GetOffset returns the learned offset for key, 0 when nothing was learned
func (l *OffsetLearner) GetOffset(ctx context.Context, key string) (int, error) {
	offsets, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	return offsets[NormalizeOffsetKey(key)], nil
}

// SetOffset stores days for key, replacing any previous value
func (l *OffsetLearner) SetOffset(ctx context.Context, key string, days int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	offsets, err := l.load(ctx)
	if err != nil {
		return err
	}
	offsets[NormalizeOffsetKey(key)] = days
	return l.save(ctx, offsets)
}

// Learn compares the predicted and chosen expiry dates, both counted from
// dateAdded, and stores the difference when it is within
// MaxLearnedOffsetDays. stored reports whether the map was written.
func (l *OffsetLearner) Learn(ctx context.Context, key string, dateAdded, predicted, chosen time.Time) (offset int, stored bool, err error) {
	offset = DaysBetween(dateAdded, chosen) - DaysBetween(dateAdded, predicted)
	if offset > MaxLearnedOffsetDays || offset < -MaxLearnedOffsetDays {
		return offset, false, nil
	}
	if err := l.SetOffset(ctx, key, offset); err != nil {
		return offset, false, err
	}
	return offset, true, nil
}

// Offsets returns a copy of the whole map
func (l *OffsetLearner) Offsets(ctx context.Context) (map[string]int, error) {
	return l.load(ctx)
}

func (l *OffsetLearner) load(ctx context.Context) (map[string]int, error) {
	offsets := make(map[string]int)

	raw, err := l.store.Get(ctx, l.document)
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return offsets, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageUnavailable, l.document, err)
	}
	if raw == "" {
		return offsets, nil
	}

	if err := json.Unmarshal([]byte(raw), &offsets); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformed, l.document, err)
	}
	return offsets, nil
}

func (l *OffsetLearner) save(ctx context.Context, offsets map[string]int) error {
	data, err := json.Marshal(offsets)
	if err != nil {
		return fmt.Errorf("encoding offsets: %w", err)
	}
	if err := l.store.Set(ctx, l.document, string(data)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorageUnavailable, l.document, err)
	}
	return nil
}
