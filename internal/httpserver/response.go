package httpserver

import (
	"errors"
	"net/http"

	"cafepos/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP status codes. Unknown errors are
// reported as opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInsufficientPoints):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrRewardAlreadyApplied),
		errors.Is(err, domain.ErrCustomerNotEnrolled),
		errors.Is(err, domain.ErrPaymentTooLow),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrReferralInvalid),
		errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
