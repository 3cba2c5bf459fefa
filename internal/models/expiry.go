package models

import (
	"time"
)

// DateCandidate is one (day, month, year) reading of a matched date token.
// Month is zero based.
type DateCandidate struct {
	Day   int     `json:"day"`
	Month int     `json:"month"`
	Year  int     `json:"year"`
	Score float64 `json:"score"`
}

// Time returns the candidate as a UTC midnight time
func (c DateCandidate) Time() time.Time {
	return time.Date(c.Year, time.Month(c.Month+1), c.Day, 0, 0, 0, 0, time.UTC)
}

// PredictionSource says where a predicted shelf life came from
type PredictionSource string

const (
	PredictionSourceHint     PredictionSource = "hint"
	PredictionSourceCategory PredictionSource = "category"
	PredictionSourceDefault  PredictionSource = "default"
)

// Prediction is a predicted expiry date for a product
type Prediction struct {
	ExpiryDate   time.Time        `json:"-"`
	Expiry       string           `json:"expiry_date"`
	Category     string           `json:"category"`
	BaselineDays int              `json:"baseline_days"`
	OffsetDays   int              `json:"offset_days"`
	Source       PredictionSource `json:"source"`
}

// ParseExpiryRequest is the request body for expiry text parsing
type ParseExpiryRequest struct {
	Text string `json:"text"`
}

// ParseExpiryResponse carries the parsed ISO date or nil
type ParseExpiryResponse struct {
	ExpiryDate *string `json:"expiry_date"`
	Status     string  `json:"status"`
	OCRText    *string `json:"ocr_text,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
}

// PredictExpiryRequest is the request body for expiry prediction
type PredictExpiryRequest struct {
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	DateAdded   string `json:"date_added,omitempty"`
	ProductText string `json:"product_text,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
}

// LearnExpiryRequest records the user's accepted or edited expiry date
type LearnExpiryRequest struct {
	Brand           string `json:"brand"`
	Category        string `json:"category"`
	DateAdded       string `json:"date_added"`
	PredictedExpiry string `json:"predicted_expiry"`
	ChosenExpiry    string `json:"chosen_expiry"`
}

// LearnExpiryResponse reports the computed offset and whether it was kept
type LearnExpiryResponse struct {
	Key    string `json:"key"`
	Offset int    `json:"offset"`
	Stored bool   `json:"stored"`
}

// SetOffsetRequest is the request body for writing an offset directly
type SetOffsetRequest struct {
	Days int `json:"days"`
}

// OffsetResponse is a single offset map entry
type OffsetResponse struct {
	Key  string `json:"key"`
	Days int    `json:"days"`
}

// ShelfLifeRequest is the request body for shelf-life hint extraction
type ShelfLifeRequest struct {
	Text string `json:"text"`
}

// ShelfLifeResponse carries the extracted days or nil
type ShelfLifeResponse struct {
	Days *int `json:"days"`
}
