package models

import (
	"time"

	"gorm.io/gorm"
)

type Wishlist struct {
	gorm.Model
	UserID uint           `json:"userId" gorm:"uniqueIndex"`
	Items  []WishlistItem `json:"items" gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
}

// Hard deletes only, same reasoning as Review: the unique index must not see
// soft-deleted rows.
type WishlistItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
	WishlistID uint      `json:"wishlistId" gorm:"uniqueIndex:idx_wishlist_product"`
	ProductID  uint      `json:"productId" gorm:"uniqueIndex:idx_wishlist_product"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
