package handlers

import (
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
)

const maxImageSize = 10 * 1024 * 1024

// Scan kinds, used in archive object keys
const (
	scanKindOCR     = "ocr"
	scanKindExpiry  = "expiry"
	scanKindReceipt = "receipt"
)

// scanResult is the recognized text of an uploaded photo
type scanResult struct {
	Text     string
	ImageURL *string
}

// RecognizeText runs OCR on an uploaded photo and returns the raw text
func (h *Handler) RecognizeText(c *fiber.Ctx) error {
	scan, ferr := h.scanUpload(c, scanKindOCR)
	if ferr != nil {
		return Error(c, ferr.Code, ferr.Message)
	}

	return Success(c, fiber.Map{
		"text":      scan.Text,
		"image_url": scan.ImageURL,
	})
}

// scanUpload reads the "image" form file, archives it when storage is
// configured and runs OCR on it
func (h *Handler) scanUpload(c *fiber.Ctx, kind string) (*scanResult, *fiber.Error) {
	if h.ocr == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "OCR is not enabled")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	// Validate file type
	contentType := file.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	// Validate file size (max 10MB)
	if file.Size > maxImageSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read file")
	}

	result := &scanResult{}

	// Archiving is best effort; a failed upload never fails the scan
	if h.archive != nil {
		deviceID := middleware.GetDeviceID(c)
		url, err := h.archive.ArchiveScan(c.Context(), deviceID, kind, file.Filename, contentType, imageBytes)
		if err != nil {
			log.Printf("Warning: Failed to archive %s scan for device %s: %v", kind, deviceID, err)
		} else {
			result.ImageURL = &url
		}
	}

	ocrResult, err := h.ocr.ProcessImage(imageBytes)
	if err != nil {
		log.Printf("Warning: OCR processing failed: %v", err)
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "OCR processing failed")
	}
	result.Text = ocrResult.Text

	return result, nil
}

// isValidImageType checks if the content type is a valid image
func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}

	for _, t := range validTypes {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}
