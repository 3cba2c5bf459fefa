package models

// Product is the subset of an Open Food Facts product record the app uses
type Product struct {
	Barcode                string `json:"barcode"`
	Name                   string `json:"product_name"`
	Brands                 string `json:"brands"`
	Categories             string `json:"categories"`
	ConservationConditions string `json:"conservation_conditions"`
	Labels                 string `json:"labels"`
	Quantity               string `json:"quantity"`
	ImageURL               string `json:"image_url,omitempty"`
}

// ProductLookup is the response body for barcode lookups
type ProductLookup struct {
	Product       *Product    `json:"product"`
	Category      string      `json:"category"`
	ShelfLifeDays *int        `json:"shelf_life_days"`
	Prediction    *Prediction `json:"prediction"`
}
