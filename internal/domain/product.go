package domain

import "encoding/json"

// Product mirrors a dummyjson product record. Only ID, Price and Category are
// inspected by the store; everything else is carried through untouched.
type Product struct {
	ID                   int64           `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description,omitempty"`
	Category             string          `json:"category"`
	Price                float64         `json:"price"`
	DiscountPercentage   float64         `json:"discountPercentage,omitempty"`
	Rating               float64         `json:"rating,omitempty"`
	Stock                int             `json:"stock,omitempty"`
	Tags                 []string        `json:"tags,omitempty"`
	Brand                string          `json:"brand,omitempty"`
	SKU                  string          `json:"sku,omitempty"`
	Weight               float64         `json:"weight,omitempty"`
	Dimensions           *Dimensions     `json:"dimensions,omitempty"`
	WarrantyInformation  string          `json:"warrantyInformation,omitempty"`
	ShippingInformation  string          `json:"shippingInformation,omitempty"`
	AvailabilityStatus   string          `json:"availabilityStatus,omitempty"`
	ReturnPolicy         string          `json:"returnPolicy,omitempty"`
	MinimumOrderQuantity int             `json:"minimumOrderQuantity,omitempty"`
	Thumbnail            string          `json:"thumbnail,omitempty"`
	Images               []string        `json:"images,omitempty"`
	Reviews              json.RawMessage `json:"reviews,omitempty"`
	Meta                 json.RawMessage `json:"meta,omitempty"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}
