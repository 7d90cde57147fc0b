package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Jumaa-K/dukani-api/initializers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/Jumaa-K/dukani-api/models"
	"github.com/Jumaa-K/dukani-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInsufficientStock = errors.New("insufficient stock")

type shippingAddressInput struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// Price is accepted for client compatibility but ignored: every line is
// repriced from the product record server-side.
type orderItemInput struct {
	Product  uint    `json:"product" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gte=1"`
	Price    float64 `json:"price"`
}

type createOrderInput struct {
	ShippingAddress shippingAddressInput `json:"shippingAddress" binding:"required"`
	PaymentMethod   string               `json:"paymentMethod" binding:"required"`
	Items           []orderItemInput     `json:"items" binding:"omitempty,dive"`
}

type buyNowInput struct {
	ProductID       uint                 `json:"productId" binding:"required"`
	Quantity        int                  `json:"quantity" binding:"required,gte=1"`
	ShippingAddress shippingAddressInput `json:"shippingAddress" binding:"required"`
	PaymentMethod   string               `json:"paymentMethod" binding:"required"`
}

type purchaseLine struct {
	ProductID uint
	Quantity  int
}

// reserveStock decrements a product's stock only when enough is available.
// The guard lives in the WHERE clause, so two concurrent reservations cannot
// both succeed on the same units.
func reserveStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errInsufficientStock
	}
	return nil
}

// buildOrderItems reprices each line from the live product record, reserves
// its stock and snapshots name, image and price. Caller owns the transaction.
func buildOrderItems(tx *gorm.DB, lines []purchaseLine) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			return nil, err
		}
		if err := reserveStock(tx, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

func orderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func orderCreationFailure(ctx *gin.Context, tx *gorm.DB, err error) {
	tx.Rollback()
	switch {
	case errors.Is(err, errInsufficientStock):
		sendErrorResponse(ctx, http.StatusBadRequest, msgInsufficientStock)
	case errors.Is(err, gorm.ErrRecordNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
	default:
		log.Println("Order creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
	}
}

func respondWithOrder(ctx *gin.Context, status int, orderID uint) {
	var order models.Order
	if err := initializers.DB.Preload("OrderItems.Product").First(&order, orderID).Error; err != nil {
		log.Println("Order reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load order")
		return
	}
	ctx.JSON(status, order)
}

func sendOrderConfirmationEmail(userID uint, order models.Order) {
	if os.Getenv("SMTP_ADDRESS") == "" {
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userID).Error; err != nil {
		log.Println("Order confirmation email skipped, user lookup failed:", err)
		return
	}

	emailData := utils.EmailData{
		Name:      user.Name,
		Message:   fmt.Sprintf("Thank you for your order! We have received order #%d totalling %.2f.", order.ID, order.TotalPrice),
		ActionURL: os.Getenv("FRONTEND_URL") + "/orders/" + strconv.FormatUint(uint64(order.ID), 10),
	}

	if err := utils.SendEmail(user.Email, "Order Confirmation", emailData, "templates/order_confirmation.html"); err != nil {
		log.Println("Error sending order confirmation email:", err)
	}
}

// CreateOrder converts a purchase intent into a durable order. When the body
// carries explicit items those are used; otherwise the user's cart is checked
// out and emptied. Stock reservation, order insert and cart clear run in one
// transaction.
func CreateOrder(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", success)
	}()

	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var input createOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindingErrorResponse(ctx, err)
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var lines []purchaseLine
	var cartID uint
	fromCart := len(input.Items) == 0

	if fromCart {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).Preload("Items").First(&cart).Error
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				sendErrorResponse(ctx, http.StatusBadRequest, msgCartEmpty)
			} else {
				log.Println("Cart lookup error:", err)
				sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load cart")
			}
			return
		}
		if len(cart.Items) == 0 {
			tx.Rollback()
			sendErrorResponse(ctx, http.StatusBadRequest, msgCartEmpty)
			return
		}
		cartID = cart.ID
		for _, item := range cart.Items {
			lines = append(lines, purchaseLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	} else {
		for _, item := range input.Items {
			lines = append(lines, purchaseLine{ProductID: item.Product, Quantity: item.Quantity})
		}
	}

	orderItems, err := buildOrderItems(tx, lines)
	if err != nil {
		orderCreationFailure(ctx, tx, err)
		return
	}

	order := models.Order{
		UserID:     userID,
		OrderItems: orderItems,
		ShippingAddress: models.ShippingAddress{
			Address:    input.ShippingAddress.Address,
			City:       input.ShippingAddress.City,
			PostalCode: input.ShippingAddress.PostalCode,
			Country:    input.ShippingAddress.Country,
		},
		PaymentMethod: input.PaymentMethod,
		TotalPrice:    orderTotal(orderItems),
	}

	if err := tx.Create(&order).Error; err != nil {
		orderCreationFailure(ctx, tx, err)
		return
	}

	if fromCart {
		// Empty the cart but keep the cart record for reuse.
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			orderCreationFailure(ctx, tx, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Order commit error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save order")
		return
	}

	go sendOrderConfirmationEmail(userID, order)

	respondWithOrder(ctx, http.StatusCreated, order.ID)
}

// BuyNow creates a single-line order directly from a product.
func BuyNow(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("buy_now", success)
	}()

	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var input buyNowInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindingErrorResponse(ctx, err)
		return
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	orderItems, err := buildOrderItems(tx, []purchaseLine{{ProductID: input.ProductID, Quantity: input.Quantity}})
	if err != nil {
		orderCreationFailure(ctx, tx, err)
		return
	}

	order := models.Order{
		UserID:     userID,
		OrderItems: orderItems,
		ShippingAddress: models.ShippingAddress{
			Address:    input.ShippingAddress.Address,
			City:       input.ShippingAddress.City,
			PostalCode: input.ShippingAddress.PostalCode,
			Country:    input.ShippingAddress.Country,
		},
		PaymentMethod: input.PaymentMethod,
		TotalPrice:    orderTotal(orderItems),
	}

	if err := tx.Create(&order).Error; err != nil {
		orderCreationFailure(ctx, tx, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Order commit error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save order")
		return
	}

	go sendOrderConfirmationEmail(userID, order)

	respondWithOrder(ctx, http.StatusCreated, order.ID)
}

// GetOrders returns the requesting user's orders, newest first.
func GetOrders(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", success)
	}()

	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println("Order list error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// GetOrderById returns a single order to its owner or an admin.
func GetOrderById(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("details", success)
	}()

	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("OrderItems.Product").First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		} else {
			log.Println("Order fetch error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch order")
		}
		return
	}

	if order.UserID != userID && !isAdmin(ctx) {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccessDenied)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// MarkOrderPaid flips the paid flag. There is no payment gateway round-trip.
func MarkOrderPaid(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("pay", success)
	}()

	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	result := initializers.DB.First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		} else {
			log.Println("Order fetch error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch order")
		}
		return
	}

	if order.UserID != userID && !isAdmin(ctx) {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccessDenied)
		return
	}

	now := time.Now()
	if err := initializers.DB.Model(&order).Updates(map[string]any{
		"is_paid": true,
		"paid_at": now,
	}).Error; err != nil {
		log.Println("Order update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondWithOrder(ctx, http.StatusOK, order.ID)
}

// GetAllOrders returns every order with owner detail inlined. Admin only.
func GetAllOrders(ctx *gin.Context) {
	defer func() {
		success := ctx.Writer.Status() >= 200 && ctx.Writer.Status() < 300
		middlewares.RecordOrderOperation("admin_list", success)
	}()

	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems.Product").
		Preload("User").
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println("Order list error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}
