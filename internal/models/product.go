package models

import "github.com/shopspring/decimal"

// Product represents a catalog item as served by the remote catalog API.
// Field names match the upstream JSON schema.
type Product struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage float64         `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand"`
	Category           string          `json:"category"`
	Thumbnail          string          `json:"thumbnail"`
}

// ProductListResult is the response envelope returned by the catalog for
// both the list and the search endpoints.
type ProductListResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
