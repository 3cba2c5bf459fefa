package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-scan/internal/middleware"
	"github.com/foxxcyber/pantry-scan/internal/models"
	"github.com/foxxcyber/pantry-scan/internal/services"
)

// GetProduct looks up a barcode and returns the product with its guessed
// category, shelf-life hint and predicted expiry
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	if h.products == nil {
		return Error(c, fiber.StatusServiceUnavailable, "product lookup is not enabled")
	}

	product, err := h.products.GetProduct(c.Context(), c.Params("barcode"))
	if err != nil {
		return productError(c, err)
	}

	category := services.GuessCategory(product.Categories + " " + product.Name)
	text := services.ProductMetadataText(product)

	lookup := models.ProductLookup{
		Product:  product,
		Category: category,
	}
	if days, err := services.ParseShelfLifeDays(text); err == nil {
		lookup.ShelfLifeDays = &days
	}

	dateAdded, err := h.parseDateOrToday(c.Query("date_added"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "date_added must be YYYY-MM-DD")
	}

	lookup.Prediction = h.devicePredictor(middleware.GetDeviceID(c)).Predict(c.Context(), services.PredictionInput{
		Brand:       services.PrimaryBrand(product),
		Category:    category,
		DateAdded:   dateAdded,
		ProductText: text,
	})

	return Success(c, lookup)
}

func productError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidBarcode):
		return Error(c, fiber.StatusBadRequest, "invalid barcode")
	case errors.Is(err, services.ErrProductNotFound):
		return Error(c, fiber.StatusNotFound, "product not found")
	default:
		log.Printf("Warning: Product lookup failed: %v", err)
		return Error(c, fiber.StatusBadGateway, "product lookup failed")
	}
}
