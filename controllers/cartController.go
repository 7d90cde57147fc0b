package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Jumaa-K/dukani-api/initializers"
	"github.com/Jumaa-K/dukani-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type cartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gte=1"`
}

type cartQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

// getOrCreateCart returns the user's cart, creating it on first use.
func getOrCreateCart(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = initializers.DB.Create(&cart).Error
	}
	return cart, err
}

func respondWithCart(ctx *gin.Context, cartID uint) {
	var cart models.Cart
	if err := initializers.DB.Preload("Items.Product").First(&cart, cartID).Error; err != nil {
		log.Println("Cart reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart})
}

// GetCart returns the user's cart with product detail inlined.
func GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	respondWithCart(ctx, cart.ID)
}

// AddCartItem adds a product to the cart, merging quantities when the product
// is already present.
func AddCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var input cartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindingErrorResponse(ctx, err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		} else {
			log.Println("Product lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate product")
		}
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	var existingItem models.CartItem
	err = initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).
		First(&existingItem).Error

	if err == nil {
		existingItem.Quantity += input.Quantity
		if err := initializers.DB.Save(&existingItem).Error; err != nil {
			log.Println("Cart item update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity")
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": product.Name + " quantity updated in cart",
			"id":      existingItem.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Cart item lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart item")
		return
	}

	cartItem := models.CartItem{
		CartID:    cart.ID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Cart item creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": product.Name + " added to cart",
		"id":      cartItem.ID,
	})
}

// UpdateCartItem sets the quantity of one cart line.
func UpdateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input cartQuantityInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindingErrorResponse(ctx, err)
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	result := initializers.DB.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", input.Quantity)
	if result.Error != nil {
		log.Println("Cart item update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not in cart")
		return
	}

	respondWithCart(ctx, cart.ID)
}

// RemoveCartItem removes one product from the cart.
func RemoveCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	result := initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		log.Println("Cart item delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to remove cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not in cart")
		return
	}

	respondWithCart(ctx, cart.ID)
}

// ClearCart removes every item, leaving the cart record in place.
func ClearCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	cart, err := getOrCreateCart(userID)
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart clear error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to clear cart")
		return
	}

	respondWithCart(ctx, cart.ID)
}
