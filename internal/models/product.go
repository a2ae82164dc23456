package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a customer review embedded in a product's review collection.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"-" gorm:"index;type:varchar(36)"`
	UserID    string    `json:"user" gorm:"type:varchar(36)"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"required,max=500"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product represents a product in the store catalog.
type Product struct {
	ID               string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name             string   `json:"name" validate:"required,min=3,max=100"`
	Image            string   `json:"image"`
	Brand            string   `json:"brand"`
	Category         string   `json:"category"`
	Description      string   `json:"description" validate:"omitempty,max=500"`
	NutritionalFacts string   `json:"nutritionalFacts"`
	Price            float64  `json:"price" validate:"required,gt=0"`
	CountInStock     int      `json:"countInStock" validate:"gte=0"`
	Rating           float64  `json:"rating"`
	NumReviews       int      `json:"numReviews"`
	Reviews          []Review `json:"reviews" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	gorm.Model       // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ReviewedBy reports whether the given user already left a review.
func (p *Product) ReviewedBy(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// RecalculateRating refreshes the aggregate rating and review count from
// the embedded review collection.
func (p *Product) RecalculateRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
