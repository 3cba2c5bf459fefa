package models

import (
	"time"
)

// Device is a registered mobile install
type Device struct {
	ID         string    `json:"id"`
	SecretHash string    `json:"secret_hash"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// DeviceAuthRequest is the request body for device registration/login
type DeviceAuthRequest struct {
	DeviceID string `json:"device_id"`
	Secret   string `json:"secret"`
}

// AuthResponse is returned after successful device authentication
type AuthResponse struct {
	Token     string    `json:"token"`
	DeviceID  string    `json:"device_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
