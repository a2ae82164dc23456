// Package pricing derives the order price breakdown from a cart snapshot.
// All stages round half-up to two decimals, and the free-shipping threshold
// compares against the already-rounded items total; order detail pages on
// the client reproduce the same arithmetic, so the staging must not change.
package pricing

import (
	"math"

	"dairydrop/internal/models"
)

const (
	freeShippingThreshold = 100.0
	flatShippingRate      = 10.0
	taxRate               = 0.15
)

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Compute derives the price breakdown for a snapshot of order lines.
func Compute(items []models.OrderItem) models.PriceBreakdown {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Qty)
	}

	itemsPrice := Round2(sum)
	shippingPrice := flatShippingRate
	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	}
	taxPrice := Round2(taxRate * itemsPrice)

	return models.PriceBreakdown{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    Round2(itemsPrice + shippingPrice + taxPrice),
	}
}
