package models

import "time"

// Review does not embed gorm.Model: deletes must be hard deletes so the
// (user_id, product_id) unique index stays accurate across delete-and-rereview.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ProductID uint      `json:"productId" gorm:"uniqueIndex:idx_reviews_user_product"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_reviews_user_product"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Helpful   int       `json:"helpful"`
}
