package handlers

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
	"github.com/foxxcyber/pantry-scan/internal/models"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// Expiry parse statuses
const (
	parseStatusOK        = "ok"
	parseStatusNotFound  = "not_found"
	parseStatusMalformed = "malformed"
)

// ParseExpiry finds the most plausible expiry date in OCR text
func (h *Handler) ParseExpiry(c *fiber.Ctx) error {
	var req models.ParseExpiryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	return Success(c, h.parseExpiryText(req.Text))
}

// ScanExpiry runs OCR on a photo of a date label and parses the result
func (h *Handler) ScanExpiry(c *fiber.Ctx) error {
	scan, ferr := h.scanUpload(c, scanKindExpiry)
	if ferr != nil {
		return Error(c, ferr.Code, ferr.Message)
	}

	resp := h.parseExpiryText(scan.Text)
	resp.OCRText = &scan.Text
	resp.ImageURL = scan.ImageURL

	return Success(c, resp)
}

func (h *Handler) parseExpiryText(text string) *models.ParseExpiryResponse {
	date, err := h.dates.ParseISO(text)
	switch {
	case err == nil:
		return &models.ParseExpiryResponse{ExpiryDate: &date, Status: parseStatusOK}
	case errors.Is(err, services.ErrMalformed):
		return &models.ParseExpiryResponse{Status: parseStatusMalformed}
	default:
		return &models.ParseExpiryResponse{Status: parseStatusNotFound}
	}
}

// PredictExpiry predicts an expiry date from category, brand and product
// metadata. A barcode fills in missing fields from Open Food Facts.
func (h *Handler) PredictExpiry(c *fiber.Ctx) error {
	var req models.PredictExpiryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	dateAdded, err := h.parseDateOrToday(req.DateAdded)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "date_added must be YYYY-MM-DD")
	}

	if req.Barcode != "" && h.products != nil {
		product, err := h.products.GetProduct(c.Context(), req.Barcode)
		if err != nil {
			if !errors.Is(err, services.ErrProductNotFound) {
				return productError(c, err)
			}
		} else {
			if req.Brand == "" {
				req.Brand = services.PrimaryBrand(product)
			}
			if req.Category == "" {
				req.Category = services.GuessCategory(product.Categories + " " + product.Name)
			}
			if req.ProductText == "" {
				req.ProductText = services.ProductMetadataText(product)
			}
		}
	}

	prediction := h.devicePredictor(middleware.GetDeviceID(c)).Predict(c.Context(), services.PredictionInput{
		Brand:       req.Brand,
		Category:    req.Category,
		DateAdded:   dateAdded,
		ProductText: req.ProductText,
	})

	return Success(c, prediction)
}

// LearnExpiry records the difference between a predicted expiry and the
// one the user kept
func (h *Handler) LearnExpiry(c *fiber.Ctx) error {
	var req models.LearnExpiryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	dateAdded, err := h.parseDateOrToday(req.DateAdded)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "date_added must be YYYY-MM-DD")
	}
	predicted, err := services.ParseISODate(req.PredictedExpiry)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "predicted_expiry must be YYYY-MM-DD")
	}
	chosen, err := services.ParseISODate(req.ChosenExpiry)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "chosen_expiry must be YYYY-MM-DD")
	}

	key := services.OffsetKey(req.Brand, services.NormalizeCategory(req.Category))
	offset, stored, err := h.offsets.ForDevice(middleware.GetDeviceID(c)).Learn(c.Context(), key, dateAdded, predicted, chosen)
	if err != nil {
		return storageError(c, err)
	}

	return Success(c, models.LearnExpiryResponse{
		Key:    key,
		Offset: offset,
		Stored: stored,
	})
}

// ListOffsets returns the calling device's whole offset map
func (h *Handler) ListOffsets(c *fiber.Ctx) error {
	offsets, err := h.offsets.ForDevice(middleware.GetDeviceID(c)).Offsets(c.Context())
	if err != nil {
		return storageError(c, err)
	}

	return Success(c, offsets)
}

// GetOffset returns one learned offset, 0 when none was learned
func (h *Handler) GetOffset(c *fiber.Ctx) error {
	key, err := offsetKeyParam(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid offset key")
	}

	days, err := h.offsets.ForDevice(middleware.GetDeviceID(c)).GetOffset(c.Context(), key)
	if err != nil {
		return storageError(c, err)
	}

	return Success(c, models.OffsetResponse{Key: key, Days: days})
}

// SetOffset writes an offset directly
func (h *Handler) SetOffset(c *fiber.Ctx) error {
	key, err := offsetKeyParam(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid offset key")
	}

	var req models.SetOffsetRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.offsets.ForDevice(middleware.GetDeviceID(c)).SetOffset(c.Context(), key, req.Days); err != nil {
		return storageError(c, err)
	}

	return Success(c, models.OffsetResponse{Key: key, Days: req.Days})
}

// ParseShelfLife extracts a shelf-life hint in days from product text
func (h *Handler) ParseShelfLife(c *fiber.Ctx) error {
	var req models.ShelfLifeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp := models.ShelfLifeResponse{}
	if days, err := services.ParseShelfLifeDays(req.Text); err == nil {
		resp.Days = &days
	}

	return Success(c, resp)
}

// offsetKeyParam reads the escaped :key route parameter, e.g. tesco%7Cdairy,
// with the category mapped the way predictions map it
func offsetKeyParam(c *fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return "", err
	}
	if strings.Trim(services.NormalizeOffsetKey(key), "|") == "" {
		return "", errors.New("empty key")
	}
	return services.CanonicalOffsetKey(key), nil
}

func storageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStorageUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, "offset storage unavailable")
	case errors.Is(err, services.ErrMalformed):
		return Error(c, fiber.StatusInternalServerError, "stored offsets are corrupt")
	default:
		return Error(c, fiber.StatusInternalServerError, "failed to update offsets")
	}
}
