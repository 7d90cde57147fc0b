package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Dukani API ❤️. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account

PRODUCT
- GET "/products" - Get all products
- GET "/products/:id" - Get product by ID
- POST "/products" - Create new product (admin)
- POST "/products/:id/images" - Upload product images (admin)

CART
- GET "/cart" - Get your cart
- POST "/cart/items" - Add item to cart
- PUT "/cart/items/:productId" - Update item quantity
- DELETE "/cart/items/:productId" - Remove item from cart
- DELETE "/cart/items" - Clear cart

ORDER
- POST "/orders" - Create order (from cart, or explicit items)
- POST "/orders/buy-now" - Order a single product directly
- GET "/orders" - Get your orders
- GET "/orders/:id" - Get order by ID
- PUT "/orders/:id/pay" - Mark order as paid
- GET "/orders/admin/all" - Get all orders (admin)

REVIEW
- GET "/reviews/product/:productId" - Get reviews for a product
- POST "/reviews" - Create a review
- PUT "/reviews/:id/helpful" - Mark review as helpful
- DELETE "/reviews/:id" - Delete a review

WISHLIST
- GET "/wishlist" - Get your wishlist
- POST "/wishlist" - Add product to wishlist
- DELETE "/wishlist/:productId" - Remove product from wishlist`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
