package httpserver

import (
	"errors"
	"net/http"

	"coursemarket/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to status codes. Unknown errors become 500 without detail.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid), errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := domain.ParseID(c.Param(name))
	if err != nil {
		writeError(c, err)
		return 0, false
	}
	return id, true
}
