package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-internship-automation/internal/portal"
)

// ValidationError is a rejected request body. Missing lists the offending
// JSON fields.
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}
	return e.Message + " (missing: " + strings.Join(e.Missing, ", ") + ")"
}

// httpStatus maps service errors onto response codes.
func httpStatus(err error) int {
	var ve *ValidationError
	var le *portal.LoginError
	switch {
	case errors.As(err, &ve), errors.Is(err, portal.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &le):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var ve *ValidationError
	if errors.As(err, &ve) {
		body["error"] = ve.Message
		if len(ve.Missing) > 0 {
			body["missing"] = ve.Missing
		}
	}
	c.AbortWithStatusJSON(httpStatus(err), body)
}
