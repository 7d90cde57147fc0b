package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rating and NumReviews are a denormalized cache over the product's reviews.
// They are written only by the review aggregate recompute, never directly.
type Product struct {
	gorm.Model
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description" binding:"required"`
	Price         float64        `json:"price" binding:"required"`
	OriginalPrice float64        `json:"originalPrice"`
	Discount      int            `json:"discount"`
	Image         string         `json:"image"`
	Images        datatypes.JSON `json:"images"`
	Category      string         `json:"category" binding:"required"`
	Brand         string         `json:"brand"`
	Stock         int            `json:"stock"`
	Rating        float64        `json:"rating"`
	NumReviews    int            `json:"numReviews"`
	Colors        datatypes.JSON `json:"colors"`
	Sizes         datatypes.JSON `json:"sizes"`
	Features      datatypes.JSON `json:"features"`
	IsFeatured    bool           `json:"isFeatured"`
	IsOnSale      bool           `json:"isOnSale"`
}
