package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/config"
	"github.com/foxxcyber/pantry-scan/internal/models"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// ProductSource looks up product metadata by barcode
type ProductSource interface {
	GetProduct(ctx context.Context, barcode string) (*models.Product, error)
}

// ScanArchiver keeps a copy of scanned photos
type ScanArchiver interface {
	ArchiveScan(ctx context.Context, deviceID, kind, filename, contentType string, image []byte) (string, error)
}

// Dependencies are the collaborators a Handler is built from. OCR, Archive
// and Products may be nil; the endpoints that need them then answer 503.
type Dependencies struct {
	Store    services.KVStore
	OCR      services.TextRecognizer
	Archive  ScanArchiver
	Products ProductSource
	Now      func() time.Time
}

// Handler holds all handler dependencies
type Handler struct {
	cfg       *config.Config
	devices   *services.DeviceRegistry
	offsets   *services.OffsetLearner
	predictor *services.ExpiryPredictor
	dates     *services.ExpiryDateParser
	receipts  *services.ReceiptParser
	ocr       services.TextRecognizer
	archive   ScanArchiver
	products  ProductSource
	now       func() time.Time
}

// New creates a new Handler instance
func New(cfg *config.Config, deps Dependencies) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	offsets := services.NewOffsetLearner(deps.Store)

	return &Handler{
		cfg:       cfg,
		devices:   services.NewDeviceRegistry(deps.Store),
		offsets:   offsets,
		predictor: services.NewExpiryPredictor(offsets),
		dates:     services.NewExpiryDateParser().WithClock(now),
		receipts:  services.NewReceiptParser(),
		ocr:       deps.OCR,
		archive:   deps.Archive,
		products:  deps.Products,
		now:       now,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// devicePredictor returns a predictor reading the calling device's offsets
func (h *Handler) devicePredictor(deviceID string) *services.ExpiryPredictor {
	return h.predictor.WithOffsets(h.offsets.ForDevice(deviceID))
}

// parseDateOrToday reads an ISO date, defaulting to today when empty
func (h *Handler) parseDateOrToday(value string) (time.Time, error) {
	if value == "" {
		return h.now(), nil
	}
	return services.ParseISODate(value)
}
