package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindingErrorResponse turns gin binding failures into a field-level error
// list so clients can surface per-field messages.
func bindingErrorResponse(ctx *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fieldErrors := make([]gin.H, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			fieldErrors = append(fieldErrors, gin.H{
				"field":   fieldError.Field(),
				"message": validationMessage(fieldError),
			})
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}
	sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fieldError.Field() + " is required"
	case "email":
		return fieldError.Field() + " must be a valid email address"
	case "min":
		return fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
	case "gte":
		return fieldError.Field() + " must be at least " + fieldError.Param()
	case "lte":
		return fieldError.Field() + " must be at most " + fieldError.Param()
	default:
		return fieldError.Field() + " is invalid"
	}
}
