package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/foxxcyber/pantry-scan/internal/models"
)

const (
	defaultOpenFoodFactsURL = "https://world.openfoodfacts.org"
	defaultTimeout          = 10 * time.Second
	productFields           = "code,product_name,brands,categories,conservation_conditions,labels,quantity,image_url"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidBarcode  = errors.New("invalid barcode")
	ErrUpstream        = errors.New("product api error")
)

var barcodePattern = regexp.MustCompile(`^\d{6,14}$`)

// OpenFoodFactsService looks up product metadata by barcode
type OpenFoodFactsService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Open Food Facts v2 product response
type offProductResponse struct {
	Code          string `json:"code"`
	Status        int    `json:"status"`
	StatusVerbose string `json:"status_verbose"`
	Product       struct {
		ProductName            string `json:"product_name"`
		Brands                 string `json:"brands"`
		Categories             string `json:"categories"`
		ConservationConditions string `json:"conservation_conditions"`
		Labels                 string `json:"labels"`
		Quantity               string `json:"quantity"`
		ImageURL               string `json:"image_url"`
	} `json:"product"`
}

// NewOpenFoodFactsService creates a client. An empty baseURL uses the public instance.
func NewOpenFoodFactsService(baseURL, userAgent string, timeout time.Duration) *OpenFoodFactsService {
	if baseURL == "" {
		baseURL = defaultOpenFoodFactsURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenFoodFactsService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProduct fetches a product by barcode
func (s *OpenFoodFactsService) GetProduct(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if !barcodePattern.MatchString(barcode) {
		return nil, ErrInvalidBarcode
	}

	params := url.Values{}
	params.Set("fields", productFields)
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?%s", s.baseURL, url.PathEscape(barcode), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var productResp offProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}

	if productResp.Status != 1 {
		return nil, ErrProductNotFound
	}

	p := productResp.Product
	return &models.Product{
		Barcode:                barcode,
		Name:                   strings.TrimSpace(p.ProductName),
		Brands:                 strings.TrimSpace(p.Brands),
		Categories:             p.Categories,
		ConservationConditions: p.ConservationConditions,
		Labels:                 p.Labels,
		Quantity:               p.Quantity,
		ImageURL:               p.ImageURL,
	}, nil
}

// ProductMetadataText joins the product fields that can carry shelf-life
// hints. The name is left out; "7 Days Croissant" is a brand, not a hint.
func ProductMetadataText(p *models.Product) string {
	if p == nil {
		return ""
	}
	parts := []string{p.ConservationConditions, p.Labels, p.Categories}
	nonEmpty := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// PrimaryBrand returns the first brand of a comma separated brand list
func PrimaryBrand(p *models.Product) string {
	if p == nil {
		return ""
	}
	brand, _, _ := strings.Cut(p.Brands, ",")
	return strings.TrimSpace(brand)
}
