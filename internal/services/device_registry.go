package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/pantry-scan/internal/database"
	"github.com/foxxcyber/pantry-scan/internal/models"
)

var (
	ErrInvalidDeviceID    = errors.New("invalid device id")
	ErrWeakDeviceSecret   = errors.New("device secret must be at least 16 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{8,64}$`)

// DeviceRegistry registers app installs on first contact and verifies them after
type DeviceRegistry struct {
	store KVStore
	now   func() time.Time
}

func NewDeviceRegistry(store KVStore) *DeviceRegistry {
	return &DeviceRegistry{store: store, now: time.Now}
}

// Authenticate registers an unknown device or checks a known device's secret
func (r *DeviceRegistry) Authenticate(ctx context.Context, deviceID, secret string) (*models.Device, error) {
	if !deviceIDPattern.MatchString(deviceID) {
		return nil, ErrInvalidDeviceID
	}
	if len(secret) < 16 {
		return nil, ErrWeakDeviceSecret
	}

	device, err := r.Get(ctx, deviceID)
	if errors.Is(err, ErrNotFound) {
		return r.register(ctx, deviceID, secret)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(device.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	device.LastSeenAt = r.now().UTC()
	if err := r.save(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// Get loads a registered device
func (r *DeviceRegistry) Get(ctx context.Context, deviceID string) (*models.Device, error) {
	raw, err := r.store.Get(ctx, deviceKey(deviceID))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: reading device: %v", ErrStorageUnavailable, err)
	}

	var device models.Device
	if err := json.Unmarshal([]byte(raw), &device); err != nil {
		return nil, fmt.Errorf("%w: decoding device: %v", ErrMalformed, err)
	}
	return &device, nil
}

func (r *DeviceRegistry) register(ctx context.Context, deviceID, secret string) (*models.Device, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash device secret: %w", err)
	}

	now := r.now().UTC()
	device := &models.Device{
		ID:         deviceID,
		SecretHash: string(hash),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := r.save(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (r *DeviceRegistry) save(ctx context.Context, device *models.Device) error {
	data, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("encoding device: %w", err)
	}
	if err := r.store.Set(ctx, deviceKey(device.ID), string(data)); err != nil {
		return fmt.Errorf("%w: writing device: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func deviceKey(deviceID string) string {
	return "device:" + deviceID
}
