package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
)

// Register mounts every route on app
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(h.cfg)

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/device", h.DeviceAuth)
	auth.Post("/refresh", authRequired, h.RefreshToken)

	// OCR proxy
	api.Post("/ocr", authRequired, h.RecognizeText)

	// Expiry dates and learned offsets
	expiry := api.Group("/expiry", authRequired)
	expiry.Post("/parse", h.ParseExpiry)
	expiry.Post("/scan", h.ScanExpiry)
	expiry.Post("/predict", h.PredictExpiry)
	expiry.Post("/learn", h.LearnExpiry)
	expiry.Get("/offsets", h.ListOffsets)
	expiry.Get("/offsets/:key", h.GetOffset)
	expiry.Put("/offsets/:key", h.SetOffset)

	api.Post("/shelf-life", authRequired, h.ParseShelfLife)

	// Receipt import
	receipts := api.Group("/receipts", authRequired)
	receipts.Post("/parse", h.ParseReceipt)
	receipts.Post("/scan", h.ScanReceipt)

	// Product lookup
	api.Get("/products/:barcode", authRequired, h.GetProduct)
}
