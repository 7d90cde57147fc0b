package models

import (
	"time"

	"gorm.io/gorm"
)

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// TotalPrice and the per-item prices are computed once at creation and never
// recomputed, even if the referenced products are repriced later.
type Order struct {
	gorm.Model
	UserID          uint            `json:"userId"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt"`
}

// Name, Image and Price are snapshots of the product at order time.
type OrderItem struct {
	gorm.Model
	OrderID   uint     `json:"orderId"`
	ProductID uint     `json:"productId"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
