package services

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text string
}

// TextRecognizer turns a photo into raw text
type TextRecognizer interface {
	ProcessImage(imageBytes []byte) (*OCRResult, error)
}
