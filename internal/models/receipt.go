package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedItem represents an item parsed from OCR text
type ParsedItem struct {
	RawText    string          `json:"raw_text"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	LineNumber int             `json:"line_number"`
}

// ParsedReceipt represents the parsed result from receipt OCR
type ParsedReceipt struct {
	Items []ParsedItem     `json:"items"`
	Total *decimal.Decimal `json:"total,omitempty"`
	Date  *time.Time       `json:"date,omitempty"`
}

// ParseReceiptRequest accepts either pre-split lines or raw OCR text
type ParseReceiptRequest struct {
	Lines     []string `json:"lines,omitempty"`
	Text      string   `json:"text,omitempty"`
	DateAdded string   `json:"date_added,omitempty"`
}

// ImportedItem is a parsed receipt line with its guessed category and
// predicted expiry, ready to become a pantry entry on the device
type ImportedItem struct {
	ParsedItem
	Category        string `json:"category"`
	PredictedExpiry string `json:"predicted_expiry"`
}

// ReceiptImport is the response body for receipt parsing endpoints
type ReceiptImport struct {
	Items    []ImportedItem   `json:"items"`
	Total    *decimal.Decimal `json:"total,omitempty"`
	Date     *string          `json:"date,omitempty"`
	OCRText  *string          `json:"ocr_text,omitempty"`
	ImageURL *string          `json:"image_url,omitempty"`
}
