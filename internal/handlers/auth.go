package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
	"github.com/foxxcyber/pantry-scan/internal/models"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// DeviceAuth registers a device on first contact, or logs it in
func (h *Handler) DeviceAuth(c *fiber.Ctx) error {
	var req models.DeviceAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	device, err := h.devices.Authenticate(c.Context(), req.DeviceID, req.Secret)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDeviceID), errors.Is(err, services.ErrWeakDeviceSecret):
			return Error(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, services.ErrStorageUnavailable):
			return Error(c, fiber.StatusServiceUnavailable, "device storage unavailable")
		default:
			return Error(c, fiber.StatusInternalServerError, "authentication failed")
		}
	}

	resp, err := h.generateToken(device.ID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(resp)
}

// RefreshToken generates a new JWT token
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	deviceID := middleware.GetDeviceID(c)
	if deviceID == "" {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.generateToken(deviceID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(resp)
}

// generateToken creates a new JWT token for a device
func (h *Handler) generateToken(deviceID string) (*models.AuthResponse, error) {
	now := time.Now()
	expiresAt := now.Add(h.cfg.JWTExpiry)

	claims := &middleware.JWTClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   deviceID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:     token,
		DeviceID:  deviceID,
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
	}, nil
}
