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

type wishlistItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
}

// getOrCreateWishlist returns the user's wishlist, creating it on first use.
func getOrCreateWishlist(userID uint) (models.Wishlist, error) {
	var wishlist models.Wishlist
	err := initializers.DB.Where("user_id = ?", userID).First(&wishlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wishlist = models.Wishlist{UserID: userID}
		err = initializers.DB.Create(&wishlist).Error
	}
	return wishlist, err
}

func respondWithWishlist(ctx *gin.Context, wishlistID uint) {
	var wishlist models.Wishlist
	if err := initializers.DB.Preload("Items.Product").First(&wishlist, wishlistID).Error; err != nil {
		log.Println("Wishlist reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"wishlist": wishlist})
}

// GetWishlist returns the user's wishlist with product detail inlined.
func GetWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	wishlist, err := getOrCreateWishlist(userID)
	if err != nil {
		log.Println("Wishlist lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	respondWithWishlist(ctx, wishlist.ID)
}

// AddToWishlist adds a product. Duplicates are rejected by the storage
// layer's unique index.
func AddToWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var input wishlistItemInput
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

	wishlist, err := getOrCreateWishlist(userID)
	if err != nil {
		log.Println("Wishlist lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	item := models.WishlistItem{WishlistID: wishlist.ID, ProductID: input.ProductID}
	if err := initializers.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgAlreadyInWishlist)
		} else {
			log.Println("Wishlist item creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item to wishlist")
		}
		return
	}

	respondWithWishlist(ctx, wishlist.ID)
}

// RemoveFromWishlist removes a product. Removing an absent product is a
// no-op, matching the wishlist's set semantics.
func RemoveFromWishlist(ctx *gin.Context) {
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

	var wishlist models.Wishlist
	if err := initializers.DB.Where("user_id = ?", userID).First(&wishlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Wishlist not found")
		} else {
			log.Println("Wishlist lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch wishlist")
		}
		return
	}

	if err := initializers.DB.
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		log.Println("Wishlist item delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to remove wishlist item")
		return
	}

	respondWithWishlist(ctx, wishlist.ID)
}
