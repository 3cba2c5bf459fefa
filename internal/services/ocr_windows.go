//go:build windows

package services

import (
	"errors"
)

var errOCRUnsupported = errors.New("OCR is not available on Windows builds, run the Linux container image")

// OCRService is a stub; tesseract is only linked on unix builds
type OCRService struct{}

func NewOCRService(language string) (*OCRService, error) {
	return nil, errOCRUnsupported
}

func (s *OCRService) ProcessImage(imageBytes []byte) (*OCRResult, error) {
	return nil, errOCRUnsupported
}

func (s *OCRService) Close() error {
	return nil
}
