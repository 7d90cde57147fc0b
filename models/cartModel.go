package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	CartID    uint     `json:"cartId"`
	ProductID uint     `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
