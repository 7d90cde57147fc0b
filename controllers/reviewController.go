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

type createReviewInput struct {
	Product uint   `json:"product" binding:"required"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Title   string `json:"title"`
	Comment string `json:"comment" binding:"required"`
}

// recomputeProductRating rewrites a product's denormalized rating and review
// count from the full set of its reviews. It is the sole writer of those
// fields, called after every review insert and delete. COALESCE handles the
// zero-reviews reset.
func recomputeProductRating(db *gorm.DB, productID uint) error {
	var aggregate struct {
		Rating     float64
		NumReviews int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS rating, COUNT(*) AS num_reviews").
		Where("product_id = ?", productID).
		Scan(&aggregate).Error
	if err != nil {
		return err
	}

	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":      aggregate.Rating,
			"num_reviews": aggregate.NumReviews,
		}).Error
}

// GetProductReviews lists a product's reviews, newest first, with reviewer
// detail inlined. Public.
func GetProductReviews(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var reviews []models.Review
	result := initializers.DB.
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		log.Println("Review list error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch reviews")
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// CreateReview adds a review and refreshes the product aggregate. The
// one-review-per-user-per-product rule is enforced by the storage layer's
// unique index, not an application pre-check, so concurrent submissions
// cannot slip through.
func CreateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	var input createReviewInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		bindingErrorResponse(ctx, err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.Product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		} else {
			log.Println("Product lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate product")
		}
		return
	}

	review := models.Review{
		ProductID: input.Product,
		UserID:    userID,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
	}

	if err := initializers.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgAlreadyReviewed)
		} else {
			log.Println("Review creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create review")
		}
		return
	}

	if err := recomputeProductRating(initializers.DB, input.Product); err != nil {
		log.Println("Rating recompute error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update product rating")
		return
	}

	var created models.Review
	if err := initializers.DB.Preload("User").First(&created, review.ID).Error; err != nil {
		log.Println("Review reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load review")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// MarkReviewHelpful atomically increments a review's helpful count.
func MarkReviewHelpful(ctx *gin.Context) {
	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid review ID")
		return
	}

	result := initializers.DB.Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("helpful", gorm.Expr("helpful + 1"))
	if result.Error != nil {
		log.Println("Review update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update review")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, msgReviewNotFound)
		return
	}

	var review models.Review
	if err := initializers.DB.First(&review, reviewID).Error; err != nil {
		log.Println("Review reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load review")
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// DeleteReview removes a review (author or admin) and refreshes the product
// aggregate.
func DeleteReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var review models.Review
	if err := initializers.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgReviewNotFound)
		} else {
			log.Println("Review fetch error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch review")
		}
		return
	}

	if review.UserID != userID && !isAdmin(ctx) {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccessDenied)
		return
	}

	if err := initializers.DB.Delete(&review).Error; err != nil {
		log.Println("Review delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	if err := recomputeProductRating(initializers.DB, review.ProductID); err != nil {
		log.Println("Rating recompute error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update product rating")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Review deleted"})
}
