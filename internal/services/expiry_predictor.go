package services

import (
	"context"
	"log"
	"time"

	"github.com/foxxcyber/pantry-scan/internal/models"
)

// FallbackShelfLifeDays is used when neither a hint nor the category helps
const FallbackShelfLifeDays = 7

// PredictionInput describes a product whose expiry is being predicted
type PredictionInput struct {
	Brand       string
	Category    string
	DateAdded   time.Time
	ProductText string
}

// ExpiryPredictor turns a product's category and metadata into a predicted
// expiry date, adjusted by what the offset learner has seen for the brand
type ExpiryPredictor struct {
	offsets *OffsetLearner
}

// NewExpiryPredictor creates a predictor. offsets may be nil.
func NewExpiryPredictor(offsets *OffsetLearner) *ExpiryPredictor {
	return &ExpiryPredictor{offsets: offsets}
}

// WithOffsets returns a predictor that reads another learner's map
func (p *ExpiryPredictor) WithOffsets(offsets *OffsetLearner) *ExpiryPredictor {
	return &ExpiryPredictor{offsets: offsets}
}

// Predict returns the predicted expiry. A failing offset lookup is logged
// and treated as no offset.
func (p *ExpiryPredictor) Predict(ctx context.Context, in PredictionInput) *models.Prediction {
	category := NormalizeCategory(in.Category)
	dateAdded := truncateToDay(in.DateAdded)
	if in.DateAdded.IsZero() {
		dateAdded = truncateToDay(time.Now())
	}

	prediction := &models.Prediction{Category: category}

	if days, err := ParseShelfLifeDays(in.ProductText); err == nil {
		prediction.BaselineDays = days
		prediction.Source = models.PredictionSourceHint
	} else if days, ok := CategoryShelfLifeDays(category); ok {
		prediction.BaselineDays = days
		prediction.Source = models.PredictionSourceCategory
	} else {
		prediction.BaselineDays = FallbackShelfLifeDays
		prediction.Source = models.PredictionSourceDefault
	}

	if p.offsets != nil {
		offset, err := p.offsets.GetOffset(ctx, OffsetKey(in.Brand, category))
		if err != nil {
			log.Printf("Warning: Failed to read expiry offset for %q: %v", OffsetKey(in.Brand, category), err)
		} else {
			prediction.OffsetDays = offset
		}
	}

	days := max(prediction.BaselineDays+prediction.OffsetDays, 0)
	prediction.ExpiryDate = dateAdded.AddDate(0, 0, days)
	prediction.Expiry = prediction.ExpiryDate.Format(ISODate)

	return prediction
}
