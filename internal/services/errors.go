package services

import (
	"context"
	"errors"
)

// Parse results. Callers distinguish "nothing there" from "lookup failed".
var (
	ErrNotFound           = errors.New("no match found")
	ErrMalformed          = errors.New("malformed value")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// KVStore is the persistence the learner and device registry need
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
