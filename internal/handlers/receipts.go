package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
	"github.com/foxxcyber/pantry-scan/internal/models"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// ParseReceipt classifies receipt lines into items, each with a guessed
// category and predicted expiry
func (h *Handler) ParseReceipt(c *fiber.Ctx) error {
	var req models.ParseReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	text := req.Text
	if len(req.Lines) > 0 {
		text = strings.Join(req.Lines, "\n")
	}
	if strings.TrimSpace(text) == "" {
		return Error(c, fiber.StatusBadRequest, "lines or text is required")
	}

	dateAdded, err := h.parseDateOrToday(req.DateAdded)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "date_added must be YYYY-MM-DD")
	}

	return Success(c, h.importReceipt(c.Context(), middleware.GetDeviceID(c), text, dateAdded))
}

// ScanReceipt runs OCR on a receipt photo and parses the result
func (h *Handler) ScanReceipt(c *fiber.Ctx) error {
	dateAdded, err := h.parseDateOrToday(c.FormValue("date_added"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "date_added must be YYYY-MM-DD")
	}

	scan, ferr := h.scanUpload(c, scanKindReceipt)
	if ferr != nil {
		return Error(c, ferr.Code, ferr.Message)
	}

	result := h.importReceipt(c.Context(), middleware.GetDeviceID(c), scan.Text, dateAdded)
	result.OCRText = &scan.Text
	result.ImageURL = scan.ImageURL

	return Success(c, result)
}

func (h *Handler) importReceipt(ctx context.Context, deviceID, text string, dateAdded time.Time) *models.ReceiptImport {
	parsed := h.receipts.Parse(text)
	predictor := h.devicePredictor(deviceID)

	result := &models.ReceiptImport{
		Items: make([]models.ImportedItem, 0, len(parsed.Items)),
		Total: parsed.Total,
	}
	if parsed.Date != nil {
		date := parsed.Date.Format(services.ISODate)
		result.Date = &date
	}

	for _, item := range parsed.Items {
		category := services.GuessCategory(item.Name)
		prediction := predictor.Predict(ctx, services.PredictionInput{
			Category:  category,
			DateAdded: dateAdded,
		})
		result.Items = append(result.Items, models.ImportedItem{
			ParsedItem:      item,
			Category:        category,
			PredictedExpiry: prediction.Expiry,
		})
	}

	return result
}
