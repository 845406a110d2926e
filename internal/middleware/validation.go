package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/cgpa/internal/app/models/dto"
)

const validatedBodyKey = "validatedBody"

// BindJSON decodes and validates the request body into a new T. On failure
// the 400 response is written and ok is false.
func BindJSON[T any](c *gin.Context) (body T, ok bool) {
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(bindingErrorDetail(err)))
		return body, false
	}
	return body, true
}

// ValidateRequest binds the body into a fresh T for every request and stores
// it for the handler, see ValidatedBody
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := BindJSON[T](c)
		if !ok {
			return
		}
		c.Set(validatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (T, bool) {
	v, exists := c.Get(validatedBodyKey)
	if !exists {
		var zero T
		return zero, false
	}
	body, ok := v.(T)
	return body, ok
}

func bindingErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return dto.HandleValidationError(err)
	}
	if errors.Is(err, io.EOF) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Request body is required")
	}
	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}
