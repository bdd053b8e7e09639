package api

import (
	"net/http" // HTTP status codes

	"realestate_system/internal/domain" // Error kinds

	"github.com/gin-gonic/gin" // Gin web framework
)

// statusFor maps an error kind to an HTTP status code
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidAmount, domain.KindValidation, domain.KindDuplicate:
		return http.StatusBadRequest
	case domain.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a JSON error response for a service failure
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
