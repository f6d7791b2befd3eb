// Package cart implements the shopping cart as pure operations over an
// ordered slice of products. Inputs are never mutated; each operation
// returns a fresh slice.
package cart

import (
	"github.com/Lixing-Zhang/catalog-browser/internal/models"
	"github.com/shopspring/decimal"
)

// Add appends product unless an entry with the same ID is already present.
func Add(items []models.Product, product models.Product) []models.Product {
	if Contains(items, product.ID) {
		return clone(items)
	}

	out := make([]models.Product, 0, len(items)+1)
	out = append(out, items...)
	return append(out, product)
}

// Remove drops the entry with the given ID. Unknown IDs are a no-op.
func Remove(items []models.Product, id int64) []models.Product {
	out := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether an entry with the given ID is in the cart
func Contains(items []models.Product, id int64) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Total sums the prices of all entries. No tax, discount or conversion.
func Total(items []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

// FormatTotal renders a total with exactly two decimal places
func FormatTotal(total decimal.Decimal) string {
	return total.StringFixed(2)
}

func clone(items []models.Product) []models.Product {
	out := make([]models.Product, len(items))
	copy(out, items)
	return out
}
