package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Jumaa-K/dukani-api/initializers"
	"github.com/Jumaa-K/dukani-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCheckout(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "Amina", false)
	token := signToken(t, user)
	headphones := createProduct(t, "Headphones", 100, 10)
	watch := createProduct(t, "Watch", 250.5, 5)

	addToCart(t, router, token, headphones.ID, 2)
	addToCart(t, router, token, watch.ID, 1)

	rec := doRequest(t, router, "POST", "/orders", token, gin.H{
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	decodeBody(t, rec, &order)
	assert.Equal(t, 100*2+250.5, order.TotalPrice)
	assert.Len(t, order.OrderItems, 2)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)

	// Cart is emptied but the cart record survives.
	var itemCount int64
	initializers.DB.Model(&models.CartItem{}).Count(&itemCount)
	assert.Zero(t, itemCount)
	var cartCount int64
	initializers.DB.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.EqualValues(t, 1, cartCount)

	// Stock was reserved for every line.
	var reloadedHeadphones, reloadedWatch models.Product
	require.NoError(t, initializers.DB.First(&reloadedHeadphones, headphones.ID).Error)
	assert.Equal(t, 8, reloadedHeadphones.Stock)
	require.NoError(t, initializers.DB.First(&reloadedWatch, watch.ID).Error)
	assert.Equal(t, 4, reloadedWatch.Stock)
}

func TestCartCheckoutEmptyCart(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))

	rec := doRequest(t, router, "POST", "/orders", token, gin.H{
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart is empty")

	var orderCount int64
	initializers.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCartCheckoutInsufficientStock(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "Amina", false)
	token := signToken(t, user)
	product := createProduct(t, "Headphones", 100, 1)

	addToCart(t, router, token, product.ID, 3)

	rec := doRequest(t, router, "POST", "/orders", token, gin.H{
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")

	// The rejected checkout left no order behind and released the stock.
	var orderCount int64
	initializers.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
	var reloaded models.Product
	require.NoError(t, initializers.DB.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestCreateOrderValidation(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))

	rec := doRequest(t, router, "POST", "/orders", token, gin.H{
		"shippingAddress": gin.H{"address": "123 Mombasa Rd", "postalCode": "00100", "country": "Kenya"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeBody(t, rec, &body)

	fields := make([]string, 0, len(body.Errors))
	for _, fieldError := range body.Errors {
		fields = append(fields, fieldError.Field)
	}
	assert.Contains(t, fields, "City")
	assert.Contains(t, fields, "PaymentMethod")

	var orderCount int64
	initializers.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCreateOrderExplicitItemsRepriced(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))
	product := createProduct(t, "Headphones", 100, 10)

	// The caller's price is display-only data and must not influence totals.
	rec := doRequest(t, router, "POST", "/orders", token, gin.H{
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
		"items": []gin.H{
			{"product": product.ID, "quantity": 2, "price": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	decodeBody(t, rec, &order)
	assert.Equal(t, float64(200), order.TotalPrice)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(100), order.OrderItems[0].Price)

	var reloaded models.Product
	require.NoError(t, initializers.DB.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestBuyNowStockGate(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))
	product := createProduct(t, "Headphones", 100, 5)

	rec := doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
		"productId":       product.ID,
		"quantity":        6,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")

	var orderCount int64
	initializers.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)

	rec = doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
		"productId":       product.ID,
		"quantity":        5,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	decodeBody(t, rec, &order)
	assert.Equal(t, float64(500), order.TotalPrice)

	var reloaded models.Product
	require.NoError(t, initializers.DB.First(&reloaded, product.ID).Error)
	assert.Zero(t, reloaded.Stock)
}

func TestBuyNowProductMissing(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))

	rec := doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
		"productId":       9999,
		"quantity":        1,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestOrderOwnershipGate(t *testing.T) {
	router := setupTest(t)
	owner := createUser(t, "Amina", false)
	stranger := createUser(t, "Wekesa", false)
	admin := createUser(t, "Kadzo", true)
	product := createProduct(t, "Headphones", 100, 5)

	rec := doRequest(t, router, "POST", "/orders/buy-now", signToken(t, owner), gin.H{
		"productId":       product.ID,
		"quantity":        1,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order models.Order
	decodeBody(t, rec, &order)

	orderPath := fmt.Sprintf("/orders/%d", order.ID)

	rec = doRequest(t, router, "GET", orderPath, signToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, "PUT", orderPath+"/pay", signToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var unmodified models.Order
	require.NoError(t, initializers.DB.First(&unmodified, order.ID).Error)
	assert.False(t, unmodified.IsPaid)

	rec = doRequest(t, router, "GET", orderPath, signToken(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "GET", orderPath, signToken(t, owner), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkOrderPaid(t *testing.T) {
	router := setupTest(t)
	owner := createUser(t, "Amina", false)
	token := signToken(t, owner)
	product := createProduct(t, "Headphones", 100, 5)

	rec := doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
		"productId":       product.ID,
		"quantity":        1,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order models.Order
	decodeBody(t, rec, &order)

	rec = doRequest(t, router, "PUT", fmt.Sprintf("/orders/%d/pay", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var paid models.Order
	decodeBody(t, rec, &paid)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, time.Now(), *paid.PaidAt, time.Minute)
}

func TestMarkOrderPaidNotFound(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))

	rec := doRequest(t, router, "PUT", "/orders/9999/pay", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderImmutability(t *testing.T) {
	router := setupTest(t)
	token := signToken(t, createUser(t, "Amina", false))
	product := createProduct(t, "Headphones", 100, 5)

	rec := doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
		"productId":       product.ID,
		"quantity":        2,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order models.Order
	decodeBody(t, rec, &order)

	// Repricing the product must not leak into the committed order.
	require.NoError(t, initializers.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).Update("price", 999).Error)

	rec = doRequest(t, router, "GET", fmt.Sprintf("/orders/%d", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Order
	decodeBody(t, rec, &reloaded)
	assert.Equal(t, float64(200), reloaded.TotalPrice)
	require.Len(t, reloaded.OrderItems, 1)
	assert.Equal(t, float64(100), reloaded.OrderItems[0].Price)
}

func TestGetOrdersOwnNewestFirst(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "Amina", false)
	other := createUser(t, "Wekesa", false)
	token := signToken(t, user)
	product := createProduct(t, "Headphones", 100, 50)

	for _, quantity := range []int{1, 2} {
		rec := doRequest(t, router, "POST", "/orders/buy-now", token, gin.H{
			"productId":       product.ID,
			"quantity":        quantity,
			"shippingAddress": shippingAddress(),
			"paymentMethod":   "mpesa",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := doRequest(t, router, "POST", "/orders/buy-now", signToken(t, other), gin.H{
		"productId":       product.ID,
		"quantity":        1,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Separate creation times so the ordering is unambiguous.
	require.NoError(t, initializers.DB.Model(&models.Order{}).
		Where("user_id = ? AND total_price = ?", user.ID, float64(100)).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	rec = doRequest(t, router, "GET", "/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	decodeBody(t, rec, &orders)
	require.Len(t, orders, 2)
	assert.Equal(t, float64(200), orders[0].TotalPrice)
	assert.Equal(t, float64(100), orders[1].TotalPrice)
	for _, order := range orders {
		assert.Equal(t, user.ID, order.UserID)
	}
}

func TestGetAllOrdersAdminOnly(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "Amina", false)
	admin := createUser(t, "Kadzo", true)
	product := createProduct(t, "Headphones", 100, 5)

	rec := doRequest(t, router, "POST", "/orders/buy-now", signToken(t, user), gin.H{
		"productId":       product.ID,
		"quantity":        1,
		"shippingAddress": shippingAddress(),
		"paymentMethod":   "mpesa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, "GET", "/orders/admin/all", signToken(t, user), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, "GET", "/orders/admin/all", signToken(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	decodeBody(t, rec, &orders)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "Amina", orders[0].User.Name)
}
